package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketpulse/server/internal/models"
)

func newTestDatabase(t *testing.T) *Database {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	db, err := NewDatabase(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })
	return db
}

func manchesterRecord() *models.MarketRecord {
	return &models.MarketRecord{
		City:                "Manchester",
		State:               "NH",
		MedianPrice:         485000,
		AverageDaysOnMarket: 12,
		PriceChangePercent:  6.8,
		InventoryCount:      145,
		MarketCondition:     models.ConditionHotSeller,
		CompetitionLevel:    models.CompetitionExtreme,
		PricePerSquareFoot:  275,
		SaleToListRatio:     1.02,
		LastUpdated:         time.Now().Add(-time.Hour),
	}
}

func TestUpsertMarketRecordOverwritesOnConflict(t *testing.T) {
	db := newTestDatabase(t)

	first := manchesterRecord()
	require.NoError(t, db.UpsertMarketRecord(first, "single_family", "licensed_api"))

	// Same (city, state, property_type), every scalar changed
	second := manchesterRecord()
	second.Zipcode = "03101"
	second.MedianPrice = 572300
	second.AverageDaysOnMarket = 10
	second.PriceChangePercent = 7.1
	second.InventoryCount = 160
	second.PricePerSquareFoot = 325
	second.SaleToListRatio = 1.02
	second.LastUpdated = time.Now()
	require.NoError(t, db.UpsertMarketRecord(second, "single_family", "static_fallback"))

	rows, err := db.ListMarketRecords("NH")
	require.NoError(t, err)
	require.Len(t, rows, 1, "conflicting upsert must overwrite, not insert")

	row := rows[0]
	assert.Equal(t, "03101", row.ZipCode)
	assert.Equal(t, 572300.0, row.MedianPrice)
	assert.Equal(t, 10, row.AverageDaysOnMarket)
	assert.InDelta(t, 7.1, row.PriceChangePercent, 0.0001)
	assert.Equal(t, 160, row.InventoryCount)
	assert.Equal(t, string(models.ConditionHotSeller), row.MarketCondition)
	assert.Equal(t, 325.0, row.PricePerSquareFoot)
	assert.Equal(t, "static_fallback", row.DataSource)
	assert.WithinDuration(t, second.LastUpdated, row.LastUpdated, time.Second)
}

func TestUpsertMarketRecordKeepsDistinctPropertyTypes(t *testing.T) {
	db := newTestDatabase(t)

	require.NoError(t, db.UpsertMarketRecord(manchesterRecord(), "single_family", "licensed_api"))
	require.NoError(t, db.UpsertMarketRecord(manchesterRecord(), "condo", "licensed_api"))

	rows, err := db.ListMarketRecords("NH")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestGetMarketRecord(t *testing.T) {
	db := newTestDatabase(t)
	require.NoError(t, db.UpsertMarketRecord(manchesterRecord(), "single_family", "licensed_api"))

	// City matching is case-insensitive
	row, err := db.GetMarketRecord("manchester", "NH", "single_family")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, 485000.0, row.MedianPrice)

	// Missing rows are nil, not an error
	row, err = db.GetMarketRecord("Nashua", "NH", "single_family")
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestListMarketRecordsFiltersByState(t *testing.T) {
	db := newTestDatabase(t)

	require.NoError(t, db.UpsertMarketRecord(manchesterRecord(), "single_family", "licensed_api"))

	boston := manchesterRecord()
	boston.City = "Boston"
	boston.State = "MA"
	require.NoError(t, db.UpsertMarketRecord(boston, "single_family", "licensed_api"))

	nh, err := db.ListMarketRecords("NH")
	require.NoError(t, err)
	require.Len(t, nh, 1)
	assert.Equal(t, "Manchester", nh[0].City)

	all, err := db.ListMarketRecords("")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
