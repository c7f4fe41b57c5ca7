package market

import (
	"context"
	"math"

	"github.com/sirupsen/logrus"

	"marketpulse/server/config"
	"marketpulse/server/internal/models"
)

// DefaultPropertyType is used when the caller does not care about a
// specific property type.
const DefaultPropertyType = "single_family"

// Resolver runs the provider cascade: providers are consulted in priority
// order and the first present result wins. The fallback provider is total,
// so Resolve always returns a valid record.
type Resolver struct {
	logger    *logrus.Logger
	providers []Provider
	fallback  Provider
	sink      Sink
}

func NewResolver(logger *logrus.Logger, providers []Provider, fallback Provider, sink Sink) *Resolver {
	return &Resolver{
		logger:    logger,
		providers: providers,
		fallback:  fallback,
		sink:      sink,
	}
}

// Resolve produces a market record for a location. When a zipcode is
// given, zipcode-capable providers are queried by zipcode (the most
// specific key) and the result is scaled by the zipcode adjustment table
// before being persisted and returned.
func (r *Resolver) Resolve(ctx context.Context, city, state, zipcode string) *models.MarketRecord {
	record, source := r.resolveChain(ctx, city, state, zipcode)

	if zipcode != "" {
		record.Zipcode = zipcode
		if adjustment, ok := config.LookupZipcodeAdjustment(zipcode); ok {
			applyZipcodeAdjustment(record, adjustment)
			r.logger.WithFields(logrus.Fields{
				"zipcode":      zipcode,
				"neighborhood": adjustment.Description,
			}).Debug("Applied zipcode adjustment")
		}
	}

	// Persistence is a cache write, never a reason to fail resolution.
	if err := r.sink.Store(record, DefaultPropertyType, source); err != nil {
		r.logger.WithError(err).WithFields(logrus.Fields{
			"city":  city,
			"state": state,
		}).Error("Failed to persist market record")
	}

	return record
}

// resolveChain walks the ordered providers and stops at the first present
// result. Each provider is attempted at most once: zipcode-capable ones
// are keyed by zipcode when available, the rest by city/state.
func (r *Resolver) resolveChain(ctx context.Context, city, state, zipcode string) (*models.MarketRecord, string) {
	for _, provider := range r.providers {
		var record *models.MarketRecord
		if zr, ok := provider.(ZipcodeResolver); ok && zipcode != "" {
			record = zr.ResolveByZipcode(ctx, zipcode)
		} else {
			record = provider.ResolveByCity(ctx, city, state)
		}
		if record == nil {
			r.logger.WithFields(logrus.Fields{
				"provider": provider.Name(),
				"city":     city,
				"state":    state,
			}).Debug("Provider returned no data, trying next")
			continue
		}
		// Zipcode-keyed lookups may not echo the requested location.
		if record.City == "" {
			record.City = city
		}
		if record.State == "" {
			record.State = state
		}
		return record, provider.Name()
	}

	return r.fallback.ResolveByCity(ctx, city, state), r.fallback.Name()
}

// applyZipcodeAdjustment rescales a citywide record to a neighborhood and
// re-derives condition and competition from the adjusted days on market.
func applyZipcodeAdjustment(record *models.MarketRecord, adjustment config.ZipcodeAdjustment) {
	record.MedianPrice = math.Round(record.MedianPrice * adjustment.PriceMultiplier)
	record.PricePerSquareFoot = math.Round(record.PricePerSquareFoot * adjustment.PriceMultiplier)

	days := int(math.Round(float64(record.AverageDaysOnMarket) * adjustment.DaysMultiplier))
	if days < 1 {
		days = 1
	}
	record.AverageDaysOnMarket = days

	// Inventory scales with a constant offset on the days multiplier.
	record.InventoryCount = int(math.Round(float64(record.InventoryCount) * (adjustment.DaysMultiplier + 0.2)))

	record.MarketCondition, record.CompetitionLevel = GradeDaysOnMarket(days)
	record.SaleToListRatio = SaleToListRatioForDays(days)
}
