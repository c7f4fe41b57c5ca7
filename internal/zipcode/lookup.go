package zipcode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/sirupsen/logrus"

	"marketpulse/server/config"
)

// ErrNotFound is the one caller-visible failure in this package: the
// zipcode does not correspond to any known location. Callers must handle
// it explicitly instead of receiving synthetic data for a nonexistent
// place.
var ErrNotFound = errors.New("zipcode not found")

// Location is the resolved city/state (and coordinates when known) for a
// zipcode.
type Location struct {
	City      string  `json:"city"`
	State     string  `json:"state"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// localZipcodes covers the zipcodes the service most commonly sees, so the
// usual path needs no network call.
var localZipcodes = map[string]Location{
	"03101": {City: "Manchester", State: "NH", Latitude: 42.9906, Longitude: -71.4621},
	"03102": {City: "Manchester", State: "NH", Latitude: 42.9932, Longitude: -71.4920},
	"03104": {City: "Manchester", State: "NH", Latitude: 43.0095, Longitude: -71.4450},
	"03060": {City: "Nashua", State: "NH", Latitude: 42.7500, Longitude: -71.4650},
	"03062": {City: "Nashua", State: "NH", Latitude: 42.7230, Longitude: -71.4940},
	"03301": {City: "Concord", State: "NH", Latitude: 43.2200, Longitude: -71.5400},
	"02108": {City: "Boston", State: "MA", Latitude: 42.3588, Longitude: -71.0638},
	"02116": {City: "Boston", State: "MA", Latitude: 42.3503, Longitude: -71.0810},
	"02124": {City: "Boston", State: "MA", Latitude: 42.2863, Longitude: -71.0713},
	"78701": {City: "Austin", State: "TX", Latitude: 30.2713, Longitude: -97.7426},
	"78745": {City: "Austin", State: "TX", Latitude: 30.2060, Longitude: -97.7964},
	"85004": {City: "Phoenix", State: "AZ", Latitude: 33.4539, Longitude: -112.0691},
	"85032": {City: "Phoenix", State: "AZ", Latitude: 33.6256, Longitude: -112.0031},
	"33139": {City: "Miami Beach", State: "FL", Latitude: 25.7852, Longitude: -80.1351},
	"33142": {City: "Miami", State: "FL", Latitude: 25.8125, Longitude: -80.2374},
	"98109": {City: "Seattle", State: "WA", Latitude: 47.6312, Longitude: -122.3444},
	"98118": {City: "Seattle", State: "WA", Latitude: 47.5413, Longitude: -122.2683},
}

// Remote lookups are spaced out to respect the lookup service's usage
// policy. Local and cached hits are not throttled.
const remoteMinInterval = time.Second

// Lookup resolves zipcodes to locations: the local table first, then an
// outbound lookup service, with successful remote answers cached on disk.
type Lookup struct {
	logger      *logrus.Logger
	client      *http.Client
	baseURL     string
	apiKey      string
	cacheDir    string
	cache       map[string]Location
	cacheLock   sync.RWMutex
	requestLock sync.Mutex
	lastRequest time.Time
}

func NewLookup(logger *logrus.Logger, baseURL, apiKey, cacheDir string) *Lookup {
	os.MkdirAll(cacheDir, 0755)

	l := &Lookup{
		logger:   logger,
		client:   &http.Client{Timeout: 10 * time.Second},
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		cacheDir: cacheDir,
		cache:    make(map[string]Location),
	}

	l.loadCache()

	return l
}

func (l *Lookup) loadCache() {
	cacheFile := filepath.Join(l.cacheDir, "zipcode_cache.json")
	data, err := os.ReadFile(cacheFile)
	if err != nil {
		l.logger.Debugf("Could not load zipcode cache: %v", err)
		return
	}

	if err := json.Unmarshal(data, &l.cache); err != nil {
		l.logger.Errorf("Failed to parse zipcode cache: %v", err)
		return
	}

	l.logger.Infof("Loaded %d cached zipcodes", len(l.cache))
}

func (l *Lookup) saveCache() {
	l.cacheLock.RLock()
	defer l.cacheLock.RUnlock()

	cacheFile := filepath.Join(l.cacheDir, "zipcode_cache.json")
	data, err := json.Marshal(l.cache)
	if err != nil {
		l.logger.Errorf("Failed to marshal zipcode cache: %v", err)
		return
	}

	if err := os.WriteFile(cacheFile, data, 0644); err != nil {
		l.logger.Errorf("Failed to save zipcode cache: %v", err)
	}
}

// lookupResponse mirrors the lookup service's schema.
type lookupResponse struct {
	PostCode string `json:"post code"`
	Places   []struct {
		PlaceName         string `json:"place name"`
		StateAbbreviation string `json:"state abbreviation"`
		Latitude          string `json:"latitude"`
		Longitude         string `json:"longitude"`
	} `json:"places"`
}

// Resolve returns the location for a 5-digit zipcode, or ErrNotFound.
func (l *Lookup) Resolve(ctx context.Context, zip string) (*Location, error) {
	zip = strings.TrimSpace(zip)
	if len(zip) != 5 {
		return nil, fmt.Errorf("invalid zipcode %q: %w", zip, ErrNotFound)
	}

	if loc, ok := localZipcodes[zip]; ok {
		return &loc, nil
	}

	l.cacheLock.RLock()
	if loc, ok := l.cache[zip]; ok {
		l.cacheLock.RUnlock()
		return &loc, nil
	}
	l.cacheLock.RUnlock()

	l.requestLock.Lock()
	if wait := remoteMinInterval - time.Since(l.lastRequest); wait > 0 {
		time.Sleep(wait)
	}
	l.lastRequest = time.Now()
	l.requestLock.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+"/"+zip, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create lookup request: %w", err)
	}
	req.Header.Set("User-Agent", "MarketPulse Agent Dashboard/1.0")
	if l.apiKey != "" {
		req.Header.Set("X-Api-Key", l.apiKey)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		l.logger.WithError(err).WithField("zipcode", zip).Error("Zipcode lookup request failed")
		return nil, fmt.Errorf("zipcode lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("zipcode lookup returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read lookup response: %w", err)
	}

	var result lookupResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse lookup response: %w", err)
	}

	if len(result.Places) == 0 {
		return nil, ErrNotFound
	}

	place := result.Places[0]
	lat, _ := strconv.ParseFloat(place.Latitude, 64)
	lng, _ := strconv.ParseFloat(place.Longitude, 64)
	loc := Location{
		City:      place.PlaceName,
		State:     strings.ToUpper(place.StateAbbreviation),
		Latitude:  lat,
		Longitude: lng,
	}

	l.cacheLock.Lock()
	l.cache[zip] = loc
	l.cacheLock.Unlock()

	go l.saveCache()

	l.logger.WithFields(logrus.Fields{
		"zipcode": zip,
		"city":    loc.City,
		"state":   loc.State,
	}).Info("Resolved zipcode via lookup service")

	return &loc, nil
}

// MetroDistanceKm returns the distance in kilometers between a coordinate
// and a metro's center.
func MetroDistanceKm(metro *config.Metro, lat, lng float64) float64 {
	if len(metro.Center) != 2 {
		return 0
	}
	return geo.DistanceHaversine(orb.Point{lng, lat}, orb.Point{metro.Center[1], metro.Center[0]}) / 1000
}

// NearestMetro returns the tracked metro closest to the given coordinates
// and the distance to it in kilometers.
func NearestMetro(lat, lng float64) (*config.Metro, float64) {
	var nearest *config.Metro
	best := 0.0
	for i := range config.TrackedMetros {
		metro := &config.TrackedMetros[i]
		if len(metro.Center) != 2 {
			continue
		}
		distance := MetroDistanceKm(metro, lat, lng)
		if nearest == nil || distance < best {
			nearest = metro
			best = distance
		}
	}

	return nearest, best
}
