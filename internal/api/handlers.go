package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"marketpulse/server/config"
	"marketpulse/server/internal/models"
	"marketpulse/server/internal/zipcode"
)

// MarketResolver resolves market data for a location.
type MarketResolver interface {
	Resolve(ctx context.Context, city, state, zipcode string) *models.MarketRecord
}

// RecordStore reads persisted market intelligence.
type RecordStore interface {
	GetMarketRecord(city, state, propertyType string) (*models.MarketIntelligence, error)
	ListMarketRecords(state string) ([]models.MarketIntelligence, error)
}

type Handler struct {
	resolver MarketResolver
	store    RecordStore
	zipcodes *zipcode.Lookup
	logger   *logrus.Logger
}

type MarketQuery struct {
	City    string `form:"city"`
	State   string `form:"state"`
	Zipcode string `form:"zipcode"`
}

func NewHandler(resolver MarketResolver, store RecordStore, zipcodes *zipcode.Lookup, logger *logrus.Logger) *Handler {
	return &Handler{
		resolver: resolver,
		store:    store,
		zipcodes: zipcodes,
		logger:   logger,
	}
}

// GetMarketData resolves current market data for a location. A zipcode
// alone is enough: it is translated to city/state first, and an unknown
// zipcode is a caller-visible 404 rather than synthetic data.
func (h *Handler) GetMarketData(c *gin.Context) {
	var query MarketQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.logger.WithError(err).Error("Failed to parse market query")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	if query.City == "" || query.State == "" {
		if query.Zipcode == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "city and state (or zipcode) are required"})
			return
		}

		location, err := h.zipcodes.Resolve(c.Request.Context(), query.Zipcode)
		if errors.Is(err, zipcode.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown zipcode"})
			return
		}
		if err != nil {
			h.logger.WithError(err).WithField("zipcode", query.Zipcode).Error("Zipcode lookup failed")
			c.JSON(http.StatusBadGateway, gin.H{"error": "Zipcode lookup unavailable"})
			return
		}
		query.City = location.City
		query.State = location.State
	}

	record := h.resolver.Resolve(c.Request.Context(), query.City, query.State, query.Zipcode)
	c.JSON(http.StatusOK, record)
}

// GetMarketHistory returns persisted market intelligence rows.
func (h *Handler) GetMarketHistory(c *gin.Context) {
	state := c.Query("state")
	records, err := h.store.ListMarketRecords(state)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list market records")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list market records"})
		return
	}

	c.JSON(http.StatusOK, records)
}

// LookupZipcode resolves a zipcode to its location and nearest tracked
// metro.
func (h *Handler) LookupZipcode(c *gin.Context) {
	zip := c.Param("zipcode")

	location, err := h.zipcodes.Resolve(c.Request.Context(), zip)
	if errors.Is(err, zipcode.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown zipcode"})
		return
	}
	if err != nil {
		h.logger.WithError(err).WithField("zipcode", zip).Error("Zipcode lookup failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Zipcode lookup unavailable"})
		return
	}

	response := gin.H{
		"zipcode":  zip,
		"location": location,
	}
	if metro := config.GetMetroByName(location.City, location.State); metro != nil {
		response["nearest_metro"] = metro
		response["nearest_metro_distance_km"] = zipcode.MetroDistanceKm(metro, location.Latitude, location.Longitude)
	} else if metro, distanceKm := zipcode.NearestMetro(location.Latitude, location.Longitude); metro != nil {
		response["nearest_metro"] = metro
		response["nearest_metro_distance_km"] = distanceKm
	}
	if adj, ok := config.LookupZipcodeAdjustment(zip); ok {
		response["adjustment"] = gin.H{
			"price_multiplier":  adj.PriceMultiplier,
			"days_multiplier":   adj.DaysMultiplier,
			"description":       adj.Description,
			"neighborhood_type": adj.NeighborhoodType,
		}
	}

	c.JSON(http.StatusOK, response)
}
