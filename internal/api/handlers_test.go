package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"marketpulse/server/internal/models"
	"marketpulse/server/internal/zipcode"
)

type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) Resolve(ctx context.Context, city, state, zip string) *models.MarketRecord {
	args := m.Called(city, state, zip)
	return args.Get(0).(*models.MarketRecord)
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) GetMarketRecord(city, state, propertyType string) (*models.MarketIntelligence, error) {
	args := m.Called(city, state, propertyType)
	if row := args.Get(0); row != nil {
		return row.(*models.MarketIntelligence), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) ListMarketRecords(state string) ([]models.MarketIntelligence, error) {
	args := m.Called(state)
	return args.Get(0).([]models.MarketIntelligence), args.Error(1)
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func newTestRouter(t *testing.T, resolver MarketResolver, store RecordStore, lookupBaseURL string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	zipcodes := zipcode.NewLookup(testLogger(), lookupBaseURL, "", t.TempDir())

	router := gin.New()
	handler := NewHandler(resolver, store, zipcodes, testLogger())
	SetupRoutes(router, handler)
	return router
}

func TestGetMarketDataByCityState(t *testing.T) {
	resolver := &mockResolver{}
	resolver.On("Resolve", "Manchester", "NH", "").Return(&models.MarketRecord{
		City:            "Manchester",
		State:           "NH",
		MedianPrice:     485000,
		MarketCondition: models.ConditionHotSeller,
	})

	router := newTestRouter(t, resolver, &mockStore{}, "http://127.0.0.1:1")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/market?city=Manchester&state=NH", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var record models.MarketRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))
	assert.Equal(t, 485000.0, record.MedianPrice)
	resolver.AssertExpectations(t)
}

func TestGetMarketDataByZipcodeOnly(t *testing.T) {
	resolver := &mockResolver{}
	resolver.On("Resolve", "Manchester", "NH", "03101").Return(&models.MarketRecord{
		City:    "Manchester",
		State:   "NH",
		Zipcode: "03101",
	})

	// 03101 is in the local table, so no lookup call goes out
	router := newTestRouter(t, resolver, &mockStore{}, "http://127.0.0.1:1")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/market?zipcode=03101", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	resolver.AssertExpectations(t)
}

func TestGetMarketDataMissingParams(t *testing.T) {
	router := newTestRouter(t, &mockResolver{}, &mockStore{}, "http://127.0.0.1:1")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/market", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetMarketDataUnknownZipcode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	router := newTestRouter(t, &mockResolver{}, &mockStore{}, server.URL)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/market?zipcode=00000", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetMarketHistory(t *testing.T) {
	store := &mockStore{}
	store.On("ListMarketRecords", "NH").Return([]models.MarketIntelligence{
		{City: "Manchester", State: "NH", MedianPrice: 485000},
	}, nil)

	router := newTestRouter(t, &mockResolver{}, store, "http://127.0.0.1:1")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/market/history?state=NH", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var rows []models.MarketIntelligence
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Manchester", rows[0].City)
}

func TestLookupZipcodeLocal(t *testing.T) {
	router := newTestRouter(t, &mockResolver{}, &mockStore{}, "http://127.0.0.1:1")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/zipcode/03101", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	location := response["location"].(map[string]interface{})
	assert.Equal(t, "Manchester", location["city"])
	assert.Equal(t, "NH", location["state"])
	assert.NotNil(t, response["nearest_metro"])
	assert.NotNil(t, response["adjustment"])

	// Downtown Manchester is near, but not at, the metro center
	distance, ok := response["nearest_metro_distance_km"].(float64)
	require.True(t, ok)
	assert.Greater(t, distance, 0.0)
	assert.Less(t, distance, 2.0)
}

func TestLookupZipcodeNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	router := newTestRouter(t, &mockResolver{}, &mockStore{}, server.URL)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/zipcode/00000", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
