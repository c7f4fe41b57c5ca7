package market

import (
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"marketpulse/server/config"
	"marketpulse/server/internal/models"
)

const (
	// Jitter applied multiplicatively to every baseline figure, so
	// synthetic data stays within ±15% of the statewide estimate.
	jitterBand = 0.15

	inventoryMin = 50
	inventoryMax = 250
)

// SyntheticGenerator produces a plausible market record from the static
// state estimate table plus bounded randomness. It performs no network
// calls and never fails.
type SyntheticGenerator struct {
	logger *logrus.Logger
	rng    *rand.Rand
	mu     sync.Mutex
}

// NewSyntheticGenerator creates a generator. A nil rng gets a time-seeded
// source; tests inject a fixed seed to assert bounds deterministically.
func NewSyntheticGenerator(logger *logrus.Logger, rng *rand.Rand) *SyntheticGenerator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &SyntheticGenerator{
		logger: logger,
		rng:    rng,
	}
}

// Generate builds a synthetic record for a location using the most
// specific baseline available from the estimate tables.
func (g *SyntheticGenerator) Generate(city, state string) *models.MarketRecord {
	return g.GenerateFromBaseline(city, state, config.LookupEstimate(city, state))
}

// GenerateFromBaseline builds a synthetic record from an explicit baseline.
// One shared jitter factor scales price, price per square foot and days on
// market; inventory is an independent draw so it does not track price.
func (g *SyntheticGenerator) GenerateFromBaseline(city, state string, base config.StateEstimate) *models.MarketRecord {
	g.mu.Lock()
	jitter := 1 + (g.rng.Float64()*2-1)*jitterBand
	inventory := inventoryMin + g.rng.Intn(inventoryMax-inventoryMin+1)
	g.mu.Unlock()

	days := int(math.Round(float64(base.AverageDaysOnMarket) * jitter))
	if days < 1 {
		days = 1
	}
	condition, competition := GradeDaysOnMarket(days)

	record := &models.MarketRecord{
		City:                city,
		State:               strings.ToUpper(strings.TrimSpace(state)),
		MedianPrice:         math.Round(base.MedianPrice * jitter),
		AverageDaysOnMarket: days,
		PriceChangePercent:  base.PriceChangePercent,
		InventoryCount:      inventory,
		MarketCondition:     condition,
		CompetitionLevel:    competition,
		PricePerSquareFoot:  math.Round(base.PricePerSquareFoot * jitter),
		SaleToListRatio:     SaleToListRatioForDays(days),
		LastUpdated:         time.Now(),
	}

	g.logger.WithFields(logrus.Fields{
		"city":           city,
		"state":          record.State,
		"median_price":   record.MedianPrice,
		"days_on_market": record.AverageDaysOnMarket,
	}).Debug("Generated synthetic market record")

	return record
}
