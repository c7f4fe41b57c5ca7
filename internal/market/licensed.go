package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"marketpulse/server/config"
	"marketpulse/server/internal/models"
)

// LicensedProvider wraps the licensed property-data API. It is the most
// trusted source in the cascade and the only one that can be keyed by
// zipcode directly.
type LicensedProvider struct {
	logger  *logrus.Logger
	client  *http.Client
	baseURL string
	apiKey  string
}

// licensedResponse mirrors the upstream schema for a market stats call.
type licensedResponse struct {
	City                string  `json:"city"`
	State               string  `json:"state"`
	Zipcode             string  `json:"zipcode"`
	MedianSalePrice     float64 `json:"medianSalePrice"`
	AverageDaysOnMarket int     `json:"averageDaysOnMarket"`
	PriceChange         struct {
		Percentage float64 `json:"percentage"`
	} `json:"priceChange"`
	ListingCount    int     `json:"listingCount"`
	PricePerSqft    float64 `json:"pricePerSqft"`
	SalesToListings float64 `json:"salesToListings"`
}

func NewLicensedProvider(logger *logrus.Logger, baseURL, apiKey string, timeout time.Duration) *LicensedProvider {
	return &LicensedProvider{
		logger:  logger,
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

func (p *LicensedProvider) Name() string {
	return "licensed_api"
}

// ResolveByCity fetches market stats keyed by city/state. Nil means the
// provider cannot serve this location and the cascade should move on.
func (p *LicensedProvider) ResolveByCity(ctx context.Context, city, state string) *models.MarketRecord {
	params := url.Values{
		"city":  []string{city},
		"state": []string{state},
	}
	record := p.fetch(ctx, params, city, state)
	if record != nil {
		record.City = city
		record.State = strings.ToUpper(strings.TrimSpace(state))
	}
	return record
}

// ResolveByZipcode fetches market stats keyed by zipcode.
func (p *LicensedProvider) ResolveByZipcode(ctx context.Context, zipcode string) *models.MarketRecord {
	params := url.Values{
		"zipcode": []string{zipcode},
	}
	record := p.fetch(ctx, params, "", "")
	if record != nil && record.Zipcode == "" {
		record.Zipcode = zipcode
	}
	return record
}

func (p *LicensedProvider) fetch(ctx context.Context, params url.Values, city, state string) *models.MarketRecord {
	if p.apiKey == "" {
		p.logger.Debug("Licensed API key not configured, skipping provider")
		return nil
	}

	endpoint := fmt.Sprintf("%s/market/stats?%s", p.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		p.logger.WithError(err).Error("Failed to create licensed API request")
		return nil
	}
	req.Header.Set("X-Api-Key", p.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.WithError(err).WithField("params", params.Encode()).Warn("Licensed API request failed")
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.logger.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"params": params.Encode(),
		}).Warn("Licensed API returned non-success status")
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		p.logger.WithError(err).Warn("Failed to read licensed API response")
		return nil
	}

	var upstream licensedResponse
	if err := json.Unmarshal(body, &upstream); err != nil {
		p.logger.WithError(err).Warn("Failed to parse licensed API response")
		return nil
	}

	// Median price and days on market are required; a payload without
	// them cannot produce a valid record.
	if upstream.MedianSalePrice <= 0 || upstream.AverageDaysOnMarket <= 0 {
		p.logger.WithField("params", params.Encode()).Warn("Licensed API response missing required fields")
		return nil
	}

	condition, competition := GradeDaysOnMarket(upstream.AverageDaysOnMarket)

	ratio := upstream.SalesToListings
	if ratio <= 0 {
		ratio = SaleToListRatioForDays(upstream.AverageDaysOnMarket)
	}

	resolvedCity := upstream.City
	if resolvedCity == "" {
		resolvedCity = city
	}
	resolvedState := strings.ToUpper(strings.TrimSpace(upstream.State))
	if resolvedState == "" {
		resolvedState = strings.ToUpper(strings.TrimSpace(state))
	}

	// Payloads occasionally omit the secondary figures; backfill from the
	// baseline tables so a returned record never carries a zero.
	inventory := upstream.ListingCount
	if inventory <= 0 {
		inventory = defaultInventoryCount
	}
	pricePerSqft := upstream.PricePerSqft
	if pricePerSqft <= 0 {
		base := config.LookupEstimate(resolvedCity, resolvedState)
		pricePerSqft = base.PricePerSquareFoot
		if base.MedianPrice > 0 {
			pricePerSqft = base.PricePerSquareFoot * (upstream.MedianSalePrice / base.MedianPrice)
		}
	}

	record := &models.MarketRecord{
		City:                resolvedCity,
		State:               resolvedState,
		Zipcode:             upstream.Zipcode,
		MedianPrice:         upstream.MedianSalePrice,
		AverageDaysOnMarket: upstream.AverageDaysOnMarket,
		PriceChangePercent:  upstream.PriceChange.Percentage,
		InventoryCount:      inventory,
		MarketCondition:     condition,
		CompetitionLevel:    competition,
		PricePerSquareFoot:  pricePerSqft,
		SaleToListRatio:     ratio,
		LastUpdated:         time.Now(),
	}

	p.logger.WithFields(logrus.Fields{
		"source":         p.Name(),
		"median_price":   record.MedianPrice,
		"days_on_market": record.AverageDaysOnMarket,
	}).Info("Resolved market data from licensed API")

	return record
}
