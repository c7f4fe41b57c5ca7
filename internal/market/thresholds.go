package market

import "marketpulse/server/internal/models"

// Fast markets tend to close above ask; slower ones below. Used wherever
// an upstream source does not report a sale-to-list ratio of its own.
const (
	fastMarketDays      = 20
	fastMarketListRatio = 1.02
	slowMarketListRatio = 0.98
)

// SaleToListRatioForDays estimates a sale-to-list ratio from market speed.
func SaleToListRatioForDays(days int) float64 {
	if days < fastMarketDays {
		return fastMarketListRatio
	}
	return slowMarketListRatio
}

// GradeDaysOnMarket maps average days on market to the canonical market
// condition and competition level. Every code path that sets or rescales
// days on market must re-derive condition and competition through this
// single ladder, so a record can never pair a hot condition with slow
// sales or vice versa.
func GradeDaysOnMarket(days int) (models.MarketCondition, models.CompetitionLevel) {
	switch {
	case days < 10:
		return models.ConditionExtremelyHotSeller, models.CompetitionExtreme
	case days < 20:
		return models.ConditionHotSeller, models.CompetitionExtreme
	case days < 35:
		return models.ConditionSeller, models.CompetitionHigh
	case days < 50:
		return models.ConditionBalanced, models.CompetitionMedium
	default:
		return models.ConditionBuyer, models.CompetitionLow
	}
}
