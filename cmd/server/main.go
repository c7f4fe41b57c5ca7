package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"marketpulse/server/config"
	"marketpulse/server/internal/alerts"
	"marketpulse/server/internal/api"
	"marketpulse/server/internal/database"
	"marketpulse/server/internal/market"
	"marketpulse/server/internal/processor"
	"marketpulse/server/internal/queue"
	"marketpulse/server/internal/scheduler"
	"marketpulse/server/internal/zipcode"
)

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0755); err != nil {
		logger.WithError(err).Fatal("Failed to create database directory")
	}
	logger.Infof("Using database at: %s", cfg.Database.Path)

	db, err := database.NewDatabase(cfg.Database.Path, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	logger.Info("Running database migrations...")
	if err := db.RunMigrations(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	// Persistence pipeline: cascade -> queue -> sink processor -> sqlite
	recordQueue := queue.NewRecordQueue(cfg.Sink.QueueSize, logger)
	defer recordQueue.Close()

	sinkProcessor := processor.NewSinkProcessor(db, recordQueue, cfg, logger)
	sinkProcessor.Start()
	defer sinkProcessor.Stop()

	// Provider cascade
	providerTimeout := time.Duration(cfg.MarketData.ProviderTimeout) * time.Second
	generator := market.NewSyntheticGenerator(logger, nil)
	providers := []market.Provider{
		market.NewLicensedProvider(logger, cfg.MarketData.APIBaseURL, cfg.MarketData.APIKey, providerTimeout),
		market.NewScraperProvider(logger, cfg.MarketData.ScrapeBaseURL, providerTimeout),
	}
	fallback := market.NewFallbackProvider(logger, generator)
	resolver := market.NewResolver(logger, providers, fallback, processor.NewQueueSink(recordQueue))

	// Zipcode lookup with on-disk cache
	cacheDir := filepath.Join(os.TempDir(), "marketpulse", "zipcode_cache")
	zipcodes := zipcode.NewLookup(logger, cfg.Zipcode.APIBaseURL, cfg.Zipcode.APIKey, cacheDir)

	// Background metro refresh with condition-change alerts
	if cfg.Refresh.Enabled {
		notifier := alerts.NewService(logger, cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Telegram.IsEnabled)
		refreshInterval := time.Duration(cfg.Refresh.IntervalMinutes) * time.Minute
		refresher := scheduler.NewScheduler(resolver, db, notifier, logger, refreshInterval, config.TrackedMetros)
		refresher.Start()
		defer refresher.Stop()
	}

	router := gin.Default()
	router.Use(cors.Default())

	handler := api.NewHandler(resolver, db, zipcodes, logger)
	api.SetupRoutes(router, handler)

	logger.Infof("Starting server on port %s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}
}
