package config

import (
	"strings"

	"marketpulse/server/internal/models"
)

// StateEstimate is a coarse statewide baseline used when no live provider
// can serve a location. Values are periodically hand-refreshed from public
// market reports.
type StateEstimate struct {
	MedianPrice         float64
	AverageDaysOnMarket int
	PriceChangePercent  float64
	PricePerSquareFoot  float64
	CompetitionLevel    models.CompetitionLevel
}

// DefaultEstimateKey is guaranteed to be present in StateEstimates, so a
// baseline lookup can never fail.
const DefaultEstimateKey = "DEFAULT"

// StateEstimates maps a 2-letter state code to its baseline. Read-only at
// runtime.
var StateEstimates = map[string]StateEstimate{
	"AZ": {MedianPrice: 435000, AverageDaysOnMarket: 38, PriceChangePercent: 1.8, PricePerSquareFoot: 255, CompetitionLevel: models.CompetitionMedium},
	"CA": {MedianPrice: 785000, AverageDaysOnMarket: 22, PriceChangePercent: 3.1, PricePerSquareFoot: 480, CompetitionLevel: models.CompetitionExtreme},
	"CO": {MedianPrice: 560000, AverageDaysOnMarket: 27, PriceChangePercent: 2.0, PricePerSquareFoot: 290, CompetitionLevel: models.CompetitionHigh},
	"CT": {MedianPrice: 405000, AverageDaysOnMarket: 24, PriceChangePercent: 5.4, PricePerSquareFoot: 225, CompetitionLevel: models.CompetitionHigh},
	"FL": {MedianPrice: 410000, AverageDaysOnMarket: 44, PriceChangePercent: 0.9, PricePerSquareFoot: 245, CompetitionLevel: models.CompetitionMedium},
	"GA": {MedianPrice: 375000, AverageDaysOnMarket: 33, PriceChangePercent: 2.5, PricePerSquareFoot: 195, CompetitionLevel: models.CompetitionHigh},
	"IL": {MedianPrice: 285000, AverageDaysOnMarket: 36, PriceChangePercent: 3.0, PricePerSquareFoot: 185, CompetitionLevel: models.CompetitionMedium},
	"MA": {MedianPrice: 620000, AverageDaysOnMarket: 18, PriceChangePercent: 4.8, PricePerSquareFoot: 415, CompetitionLevel: models.CompetitionExtreme},
	"ME": {MedianPrice: 390000, AverageDaysOnMarket: 21, PriceChangePercent: 6.0, PricePerSquareFoot: 230, CompetitionLevel: models.CompetitionHigh},
	"MI": {MedianPrice: 255000, AverageDaysOnMarket: 30, PriceChangePercent: 3.8, PricePerSquareFoot: 160, CompetitionLevel: models.CompetitionMedium},
	"NC": {MedianPrice: 370000, AverageDaysOnMarket: 31, PriceChangePercent: 2.7, PricePerSquareFoot: 200, CompetitionLevel: models.CompetitionHigh},
	"NH": {MedianPrice: 465000, AverageDaysOnMarket: 14, PriceChangePercent: 6.2, PricePerSquareFoot: 265, CompetitionLevel: models.CompetitionExtreme},
	"NJ": {MedianPrice: 510000, AverageDaysOnMarket: 20, PriceChangePercent: 5.1, PricePerSquareFoot: 310, CompetitionLevel: models.CompetitionExtreme},
	"NY": {MedianPrice: 450000, AverageDaysOnMarket: 48, PriceChangePercent: 1.2, PricePerSquareFoot: 340, CompetitionLevel: models.CompetitionMedium},
	"OH": {MedianPrice: 240000, AverageDaysOnMarket: 28, PriceChangePercent: 4.2, PricePerSquareFoot: 150, CompetitionLevel: models.CompetitionMedium},
	"PA": {MedianPrice: 290000, AverageDaysOnMarket: 32, PriceChangePercent: 3.4, PricePerSquareFoot: 180, CompetitionLevel: models.CompetitionMedium},
	"TN": {MedianPrice: 385000, AverageDaysOnMarket: 35, PriceChangePercent: 1.9, PricePerSquareFoot: 210, CompetitionLevel: models.CompetitionMedium},
	"TX": {MedianPrice: 345000, AverageDaysOnMarket: 46, PriceChangePercent: -0.5, PricePerSquareFoot: 175, CompetitionLevel: models.CompetitionMedium},
	"VT": {MedianPrice: 380000, AverageDaysOnMarket: 26, PriceChangePercent: 4.5, PricePerSquareFoot: 225, CompetitionLevel: models.CompetitionHigh},
	"WA": {MedianPrice: 595000, AverageDaysOnMarket: 25, PriceChangePercent: 2.3, PricePerSquareFoot: 330, CompetitionLevel: models.CompetitionHigh},

	DefaultEstimateKey: {MedianPrice: 350000, AverageDaysOnMarket: 35, PriceChangePercent: 2.0, PricePerSquareFoot: 200, CompetitionLevel: models.CompetitionMedium},
}

// CityEstimates carries exact city-level overrides for a handful of markets
// that deviate sharply from their statewide baseline. Keys come from
// EstimateKey.
var CityEstimates = map[string]StateEstimate{
	EstimateKey("Austin", "TX"):        {MedianPrice: 540000, AverageDaysOnMarket: 41, PriceChangePercent: -2.1, PricePerSquareFoot: 305, CompetitionLevel: models.CompetitionMedium},
	EstimateKey("Boston", "MA"):        {MedianPrice: 750000, AverageDaysOnMarket: 16, PriceChangePercent: 5.2, PricePerSquareFoot: 680, CompetitionLevel: models.CompetitionExtreme},
	EstimateKey("Buffalo", "NY"):       {MedianPrice: 225000, AverageDaysOnMarket: 15, PriceChangePercent: 7.4, PricePerSquareFoot: 145, CompetitionLevel: models.CompetitionExtreme},
	EstimateKey("Miami", "FL"):         {MedianPrice: 575000, AverageDaysOnMarket: 58, PriceChangePercent: 0.4, PricePerSquareFoot: 430, CompetitionLevel: models.CompetitionLow},
	EstimateKey("San Francisco", "CA"): {MedianPrice: 1290000, AverageDaysOnMarket: 19, PriceChangePercent: 1.5, PricePerSquareFoot: 985, CompetitionLevel: models.CompetitionExtreme},
}

// EstimateKey builds the case-insensitive lookup key for CityEstimates.
func EstimateKey(city, state string) string {
	return strings.ToLower(strings.TrimSpace(city)) + "|" + strings.ToUpper(strings.TrimSpace(state))
}

// LookupEstimate returns the most specific baseline available for a
// location: exact city match, then state, then DEFAULT. It never fails.
func LookupEstimate(city, state string) StateEstimate {
	if est, ok := CityEstimates[EstimateKey(city, state)]; ok {
		return est
	}
	if est, ok := StateEstimates[strings.ToUpper(strings.TrimSpace(state))]; ok {
		return est
	}
	return StateEstimates[DefaultEstimateKey]
}
