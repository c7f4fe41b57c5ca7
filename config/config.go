package config

import "github.com/caarlos0/env/v6"

type Config struct {
	Server struct {
		Port string `env:"PORT" envDefault:"5250"`
	}

	Database struct {
		Path string `env:"DATABASE_PATH" envDefault:"database/marketpulse.db"`
	}

	// MarketData configuration for the provider cascade
	MarketData struct {
		// API key for the licensed property-data API; the licensed
		// adapter is skipped entirely when this is empty
		APIKey string `env:"MARKET_API_KEY"`

		// Base URL of the licensed property-data API
		APIBaseURL string `env:"MARKET_API_BASE_URL" envDefault:"https://api.propertydata.io/v1"`

		// Base URL of the public listings site used by the scraping adapter
		ScrapeBaseURL string `env:"MARKET_SCRAPE_BASE_URL" envDefault:"https://www.realtor.com"`

		// Per-provider timeout in seconds
		ProviderTimeout int `env:"MARKET_PROVIDER_TIMEOUT" envDefault:"10"`
	}

	// Zipcode lookup configuration
	Zipcode struct {
		// Optional key for the zipcode lookup service
		APIKey string `env:"ZIPCODE_API_KEY"`

		// Base URL of the zipcode-to-location service
		APIBaseURL string `env:"ZIPCODE_API_BASE_URL" envDefault:"https://api.zippopotam.us/us"`
	}

	// Sink configuration for asynchronous persistence
	Sink struct {
		// Buffer size of the in-memory record queue
		QueueSize int `env:"SINK_QUEUE_SIZE" envDefault:"100"`

		// Number of concurrent sink processors
		ProcessorCount int `env:"SINK_PROCESSOR_COUNT" envDefault:"2"`

		// Maximum number of retries for failed upserts
		MaxRetries int `env:"SINK_MAX_RETRIES" envDefault:"3"`

		// Delay between retries in seconds
		RetryDelay int `env:"SINK_RETRY_DELAY" envDefault:"5"`
	}

	// Refresh configuration for the background metro refresh job
	Refresh struct {
		Enabled         bool `env:"REFRESH_ENABLED" envDefault:"true"`
		IntervalMinutes int  `env:"REFRESH_INTERVAL_MINUTES" envDefault:"60"`
	}

	Telegram struct {
		BotToken  string `env:"TELEGRAM_BOT_TOKEN"`
		ChatID    string `env:"TELEGRAM_CHAT_ID"`
		IsEnabled bool   `env:"TELEGRAM_ENABLED" envDefault:"false"`
	}
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
