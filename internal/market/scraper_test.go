package market

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketpulse/server/internal/models"
)

func scrapePage(price, days string) string {
	return fmt.Sprintf(`<html><body>
		<div class="market-trends">
			<span data-testid="median-listing-price">%s</span>
			<span data-testid="median-days-on-market">%s</span>
			<span data-testid="price-change-yoy">+4.2%%</span>
			<span data-testid="total-listings">1,245 homes</span>
		</div>
	</body></html>`, price, days)
}

func TestScraperProviderResolveByCity(t *testing.T) {
	var gotPath, gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte(scrapePage("$485,000", "12 days")))
	}))
	defer server.Close()

	provider := NewScraperProvider(testLogger(), server.URL, 5*time.Second)
	record := provider.ResolveByCity(context.Background(), "Manchester", "NH")

	require.NotNil(t, record)
	assert.Equal(t, "/realestateandhomes-search/Manchester_NH", gotPath)
	assert.Contains(t, gotAgent, "Mozilla")
	assert.Equal(t, 485000.0, record.MedianPrice)
	assert.Equal(t, 12, record.AverageDaysOnMarket)
	assert.InDelta(t, 4.2, record.PriceChangePercent, 0.0001)
	assert.Equal(t, 1245, record.InventoryCount)
	assert.Equal(t, models.ConditionHotSeller, record.MarketCondition)
	assert.Equal(t, models.CompetitionExtreme, record.CompetitionLevel)
	assert.InDelta(t, 1.02, record.SaleToListRatio, 0.0001, "fast market sells above ask")
	assert.Greater(t, record.PricePerSquareFoot, 0.0)
}

func TestScraperProviderAbbreviatedPrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(scrapePage("$1.2M", "45 days")))
	}))
	defer server.Close()

	provider := NewScraperProvider(testLogger(), server.URL, 5*time.Second)
	record := provider.ResolveByCity(context.Background(), "San Francisco", "CA")

	require.NotNil(t, record)
	assert.Equal(t, 1200000.0, record.MedianPrice)
	assert.Equal(t, 45, record.AverageDaysOnMarket)
	assert.InDelta(t, 0.98, record.SaleToListRatio, 0.0001, "slow market sells below ask")
}

func TestScraperProviderFallsBackAcrossSelectors(t *testing.T) {
	// Only the legacy class-based markup is present
	page := `<html><body>
		<div class="median-price"><span class="value">$310,000</span></div>
		<div class="days-on-market"><span class="value">28</span></div>
	</body></html>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer server.Close()

	provider := NewScraperProvider(testLogger(), server.URL, 5*time.Second)
	record := provider.ResolveByCity(context.Background(), "Columbus", "OH")

	require.NotNil(t, record)
	assert.Equal(t, 310000.0, record.MedianPrice)
	assert.Equal(t, 28, record.AverageDaysOnMarket)
	assert.Equal(t, defaultInventoryCount, record.InventoryCount)
}

func TestScraperProviderAbsentCases(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"Empty page", `<html><body></body></html>`},
		{"Price out of range", scrapePage("$12,000", "12 days")},
		{"Price absurdly high", scrapePage("$9,000,000", "12 days")},
		{"Days out of range", scrapePage("$485,000", "900 days")},
		{"Price without days", `<html><body><span data-testid="median-listing-price">$485,000</span></body></html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			provider := NewScraperProvider(testLogger(), server.URL, 5*time.Second)
			assert.Nil(t, provider.ResolveByCity(context.Background(), "Manchester", "NH"))
		})
	}
}

func TestScraperProviderAbsentOnNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	provider := NewScraperProvider(testLogger(), server.URL, 5*time.Second)
	assert.Nil(t, provider.ResolveByCity(context.Background(), "Manchester", "NH"))
}

func TestParseAbbreviatedNumber(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
		ok       bool
	}{
		{"$485,000", 485000, true},
		{"1.2M", 1200000, true},
		{"425K", 425000, true},
		{"+4.2%", 4.2, true},
		{"-1.5%", -1.5, true},
		{"12 days", 12, true},
		{"no numbers here", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		value, ok := parseAbbreviatedNumber(tt.input)
		assert.Equal(t, tt.ok, ok, "input %q", tt.input)
		if tt.ok {
			assert.InDelta(t, tt.expected, value, 0.0001, "input %q", tt.input)
		}
	}
}
