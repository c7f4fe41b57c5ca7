package market

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"marketpulse/server/config"
	"marketpulse/server/internal/models"
)

// curatedMetro is a hand-maintained snapshot for a well-known metro,
// refreshed manually from public market reports.
type curatedMetro struct {
	MedianPrice         float64
	AverageDaysOnMarket int
	PriceChangePercent  float64
	InventoryCount      int
	PricePerSquareFoot  float64
}

var curatedMetros = map[string]curatedMetro{
	config.EstimateKey("Manchester", "NH"): {MedianPrice: 485000, AverageDaysOnMarket: 12, PriceChangePercent: 6.8, InventoryCount: 145, PricePerSquareFoot: 275},
	config.EstimateKey("Nashua", "NH"):     {MedianPrice: 495000, AverageDaysOnMarket: 13, PriceChangePercent: 5.9, InventoryCount: 120, PricePerSquareFoot: 270},
	config.EstimateKey("Concord", "NH"):    {MedianPrice: 425000, AverageDaysOnMarket: 16, PriceChangePercent: 5.1, InventoryCount: 85, PricePerSquareFoot: 240},
	config.EstimateKey("Boston", "MA"):     {MedianPrice: 750000, AverageDaysOnMarket: 16, PriceChangePercent: 5.2, InventoryCount: 1850, PricePerSquareFoot: 680},
	config.EstimateKey("Austin", "TX"):     {MedianPrice: 540000, AverageDaysOnMarket: 41, PriceChangePercent: -2.1, InventoryCount: 3200, PricePerSquareFoot: 305},
	config.EstimateKey("Phoenix", "AZ"):    {MedianPrice: 445000, AverageDaysOnMarket: 37, PriceChangePercent: 1.4, InventoryCount: 4100, PricePerSquareFoot: 260},
	config.EstimateKey("Miami", "FL"):      {MedianPrice: 575000, AverageDaysOnMarket: 58, PriceChangePercent: 0.4, InventoryCount: 5600, PricePerSquareFoot: 430},
	config.EstimateKey("Seattle", "WA"):    {MedianPrice: 815000, AverageDaysOnMarket: 18, PriceChangePercent: 3.6, InventoryCount: 1500, PricePerSquareFoot: 560},
	config.EstimateKey("Denver", "CO"):     {MedianPrice: 585000, AverageDaysOnMarket: 26, PriceChangePercent: 1.2, InventoryCount: 2300, PricePerSquareFoot: 320},
	config.EstimateKey("Nashville", "TN"):  {MedianPrice: 460000, AverageDaysOnMarket: 34, PriceChangePercent: 2.2, InventoryCount: 2900, PricePerSquareFoot: 250},
	config.EstimateKey("Charlotte", "NC"):  {MedianPrice: 415000, AverageDaysOnMarket: 29, PriceChangePercent: 3.0, InventoryCount: 2400, PricePerSquareFoot: 215},
	config.EstimateKey("Columbus", "OH"):   {MedianPrice: 295000, AverageDaysOnMarket: 19, PriceChangePercent: 5.5, InventoryCount: 1700, PricePerSquareFoot: 170},
}

// FallbackProvider serves curated snapshots for well-known metros and
// synthetic data everywhere else. It is the cascade's floor: it always
// returns a record.
type FallbackProvider struct {
	logger    *logrus.Logger
	generator *SyntheticGenerator
}

func NewFallbackProvider(logger *logrus.Logger, generator *SyntheticGenerator) *FallbackProvider {
	return &FallbackProvider{
		logger:    logger,
		generator: generator,
	}
}

func (p *FallbackProvider) Name() string {
	return "static_fallback"
}

// ResolveByCity returns the curated snapshot when the metro is known,
// otherwise a synthetic record. Never nil.
func (p *FallbackProvider) ResolveByCity(ctx context.Context, city, state string) *models.MarketRecord {
	metro, ok := curatedMetros[config.EstimateKey(city, state)]
	if !ok {
		p.logger.WithFields(logrus.Fields{
			"city":  city,
			"state": state,
		}).Info("No curated snapshot, generating synthetic market data")
		return p.generator.Generate(city, state)
	}

	// Condition and competition are derived from the snapshot's days on
	// market, never stored alongside it.
	condition, competition := GradeDaysOnMarket(metro.AverageDaysOnMarket)

	return &models.MarketRecord{
		City:                city,
		State:               strings.ToUpper(strings.TrimSpace(state)),
		MedianPrice:         metro.MedianPrice,
		AverageDaysOnMarket: metro.AverageDaysOnMarket,
		PriceChangePercent:  metro.PriceChangePercent,
		InventoryCount:      metro.InventoryCount,
		MarketCondition:     condition,
		CompetitionLevel:    competition,
		PricePerSquareFoot:  metro.PricePerSquareFoot,
		SaleToListRatio:     SaleToListRatioForDays(metro.AverageDaysOnMarket),
		LastUpdated:         time.Now(),
	}
}
