package market

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketpulse/server/config"
	"marketpulse/server/internal/models"
)

const licensedTestBody = `{
	"city": "Manchester",
	"state": "nh",
	"medianSalePrice": 492000,
	"averageDaysOnMarket": 11,
	"priceChange": {"percentage": 6.4},
	"listingCount": 152,
	"pricePerSqft": 281,
	"salesToListings": 0.85
}`

func TestLicensedProviderResolveByCity(t *testing.T) {
	var gotKey, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Api-Key")
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(licensedTestBody))
	}))
	defer server.Close()

	provider := NewLicensedProvider(testLogger(), server.URL, "secret", 5*time.Second)
	record := provider.ResolveByCity(context.Background(), "Manchester", "NH")

	require.NotNil(t, record)
	assert.Equal(t, "secret", gotKey)
	assert.Contains(t, gotQuery, "city=Manchester")
	assert.Equal(t, "Manchester", record.City)
	assert.Equal(t, "NH", record.State)
	assert.Equal(t, 492000.0, record.MedianPrice)
	assert.Equal(t, 11, record.AverageDaysOnMarket)
	assert.InDelta(t, 6.4, record.PriceChangePercent, 0.0001)
	assert.Equal(t, 152, record.InventoryCount)
	assert.Equal(t, 281.0, record.PricePerSquareFoot)
	assert.InDelta(t, 0.85, record.SaleToListRatio, 0.0001)
	assert.Equal(t, models.ConditionHotSeller, record.MarketCondition)
	assert.Equal(t, models.CompetitionExtreme, record.CompetitionLevel)
}

func TestLicensedProviderResolveByZipcode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "03101", r.URL.Query().Get("zipcode"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(licensedTestBody))
	}))
	defer server.Close()

	provider := NewLicensedProvider(testLogger(), server.URL, "secret", 5*time.Second)
	record := provider.ResolveByZipcode(context.Background(), "03101")

	require.NotNil(t, record)
	assert.Equal(t, "03101", record.Zipcode)
}

func TestLicensedProviderBackfillsMissingFigures(t *testing.T) {
	// Payload carries the required figures but omits listing count and
	// price per square foot
	body := `{
		"city": "Manchester",
		"state": "NH",
		"medianSalePrice": 492000,
		"averageDaysOnMarket": 11,
		"priceChange": {"percentage": 6.4}
	}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	defer server.Close()

	provider := NewLicensedProvider(testLogger(), server.URL, "secret", 5*time.Second)
	record := provider.ResolveByCity(context.Background(), "Manchester", "NH")

	require.NotNil(t, record)
	assert.Equal(t, defaultInventoryCount, record.InventoryCount)

	base := config.StateEstimates["NH"]
	assert.InDelta(t, base.PricePerSquareFoot*(492000/base.MedianPrice), record.PricePerSquareFoot, 0.01)
	assert.Greater(t, record.PricePerSquareFoot, 0.0)
	assert.Greater(t, record.InventoryCount, 0)
}

func TestLicensedProviderAbsentWithoutAPIKey(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	provider := NewLicensedProvider(testLogger(), server.URL, "", 5*time.Second)
	record := provider.ResolveByCity(context.Background(), "Manchester", "NH")

	assert.Nil(t, record)
	assert.False(t, called, "provider must not call upstream without a key")
}

func TestLicensedProviderAbsentOnUpstreamError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"Server error", http.StatusInternalServerError, `{}`},
		{"Unauthorized", http.StatusUnauthorized, `{}`},
		{"Missing required fields", http.StatusOK, `{"city": "Manchester", "state": "NH"}`},
		{"Malformed body", http.StatusOK, `{"medianSalePrice": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			provider := NewLicensedProvider(testLogger(), server.URL, "secret", 5*time.Second)
			assert.Nil(t, provider.ResolveByCity(context.Background(), "Manchester", "NH"))
		})
	}
}

func TestLicensedProviderAbsentOnUnreachableUpstream(t *testing.T) {
	provider := NewLicensedProvider(testLogger(), "http://127.0.0.1:1", "secret", 500*time.Millisecond)
	assert.Nil(t, provider.ResolveByCity(context.Background(), "Manchester", "NH"))
}
