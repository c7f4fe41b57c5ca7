package market

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"marketpulse/server/config"
	"marketpulse/server/internal/models"
)

const scraperUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Plausibility gates for scraped values. Anything outside these ranges is
// treated as a selector mismatch, not real data.
const (
	scrapeMinPrice = 50000
	scrapeMaxPrice = 5000000
	scrapeMinDays  = 1
	scrapeMaxDays  = 500
)

// ScraperProvider extracts market stats from a public listings site's city
// page. It is best-effort by design: site markup changes regularly, so any
// parse failure simply yields absent and the cascade moves on.
type ScraperProvider struct {
	logger  *logrus.Logger
	client  *http.Client
	baseURL string
}

var (
	priceSelectors = []string{
		`[data-testid="median-listing-price"]`,
		`[data-testid="median-price"]`,
		".median-price .value",
		".market-trends .price",
	}
	daysSelectors = []string{
		`[data-testid="median-days-on-market"]`,
		`[data-testid="days-on-market"]`,
		".days-on-market .value",
		".market-trends .dom",
	}
	changeSelectors = []string{
		`[data-testid="price-change-yoy"]`,
		".price-change .value",
		".market-trends .yoy",
	}
	inventorySelectors = []string{
		`[data-testid="total-listings"]`,
		".listing-count .value",
		".market-trends .inventory",
	}
)

var numberPattern = regexp.MustCompile(`[-+]?\d[\d,]*\.?\d*\s*[KkMm]?`)

func NewScraperProvider(logger *logrus.Logger, baseURL string, timeout time.Duration) *ScraperProvider {
	return &ScraperProvider{
		logger:  logger,
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (p *ScraperProvider) Name() string {
	return "web_scrape"
}

// ResolveByCity fetches and parses the city page. A record is only
// returned when both a plausible median price and plausible days on
// market were extracted.
func (p *ScraperProvider) ResolveByCity(ctx context.Context, city, state string) *models.MarketRecord {
	pageURL := fmt.Sprintf("%s/realestateandhomes-search/%s_%s",
		p.baseURL,
		strings.ReplaceAll(strings.TrimSpace(city), " ", "-"),
		strings.ToUpper(strings.TrimSpace(state)),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		p.logger.WithError(err).Error("Failed to create scrape request")
		return nil
	}
	req.Header.Set("User-Agent", scraperUserAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.WithError(err).WithFields(logrus.Fields{
			"city":  city,
			"state": state,
		}).Warn("Scrape request failed")
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.logger.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"city":   city,
			"state":  state,
		}).Warn("Listings site returned non-success status")
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		p.logger.WithError(err).Warn("Failed to parse listings page HTML")
		return nil
	}

	price := p.extractNumber(doc, priceSelectors, scrapeMinPrice, scrapeMaxPrice)
	days := p.extractNumber(doc, daysSelectors, scrapeMinDays, scrapeMaxDays)
	if price == 0 || days == 0 {
		p.logger.WithFields(logrus.Fields{
			"city":  city,
			"state": state,
			"price": price,
			"days":  days,
		}).Warn("Scrape did not yield plausible price and days on market")
		return nil
	}

	change := p.extractNumber(doc, changeSelectors, -50, 50)
	inventory := int(p.extractNumber(doc, inventorySelectors, 1, 100000))
	if inventory == 0 {
		inventory = defaultInventoryCount
	}

	daysOnMarket := int(days)
	condition, competition := GradeDaysOnMarket(daysOnMarket)

	// The page rarely exposes price per square foot; scale the statewide
	// baseline by how this market's price compares to its own baseline.
	base := config.LookupEstimate(city, state)
	pricePerSqft := base.PricePerSquareFoot
	if base.MedianPrice > 0 {
		pricePerSqft = base.PricePerSquareFoot * (price / base.MedianPrice)
	}

	record := &models.MarketRecord{
		City:                city,
		State:               strings.ToUpper(strings.TrimSpace(state)),
		MedianPrice:         price,
		AverageDaysOnMarket: daysOnMarket,
		PriceChangePercent:  change,
		InventoryCount:      inventory,
		MarketCondition:     condition,
		CompetitionLevel:    competition,
		PricePerSquareFoot:  pricePerSqft,
		SaleToListRatio:     SaleToListRatioForDays(daysOnMarket),
		LastUpdated:         time.Now(),
	}

	p.logger.WithFields(logrus.Fields{
		"source":         p.Name(),
		"city":           city,
		"median_price":   record.MedianPrice,
		"days_on_market": record.AverageDaysOnMarket,
	}).Info("Resolved market data from listings page")

	return record
}

// extractNumber tries each candidate selector in order and returns the
// first parsed value that falls inside [min, max]. Zero means no selector
// produced a usable value.
func (p *ScraperProvider) extractNumber(doc *goquery.Document, selectors []string, min, max float64) float64 {
	for _, selector := range selectors {
		text := strings.TrimSpace(doc.Find(selector).First().Text())
		if text == "" {
			continue
		}
		value, ok := parseAbbreviatedNumber(text)
		if !ok {
			continue
		}
		if value >= min && value <= max {
			return value
		}
	}
	return 0
}

// parseAbbreviatedNumber parses figures the way listing pages format them:
// "$485,000", "1.2M", "425K", "+4.2%".
func parseAbbreviatedNumber(text string) (float64, bool) {
	match := numberPattern.FindString(text)
	if match == "" {
		return 0, false
	}

	multiplier := 1.0
	trimmed := strings.TrimSpace(match)
	switch {
	case strings.HasSuffix(trimmed, "M"), strings.HasSuffix(trimmed, "m"):
		multiplier = 1000000
		trimmed = strings.TrimSpace(trimmed[:len(trimmed)-1])
	case strings.HasSuffix(trimmed, "K"), strings.HasSuffix(trimmed, "k"):
		multiplier = 1000
		trimmed = strings.TrimSpace(trimmed[:len(trimmed)-1])
	}

	trimmed = strings.ReplaceAll(trimmed, ",", "")
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, false
	}
	return value * multiplier, true
}
