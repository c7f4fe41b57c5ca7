package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"marketpulse/server/internal/models"
)

type Database struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewDatabase(dbPath string, logger *logrus.Logger) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Database{db: db, logger: logger}, nil
}

func (d *Database) RunMigrations() error {
	if err := d.db.AutoMigrate(&models.MarketIntelligence{}); err != nil {
		return fmt.Errorf("failed to migrate market_intelligence: %w", err)
	}
	return nil
}

// UpsertMarketRecord writes a resolved record keyed on
// (city, state, property_type). On conflict every scalar column is
// overwritten, never partially updated.
func (d *Database) UpsertMarketRecord(record *models.MarketRecord, propertyType, dataSource string) error {
	row := models.MarketIntelligence{
		City:                record.City,
		State:               record.State,
		PropertyType:        propertyType,
		ZipCode:             record.Zipcode,
		MedianPrice:         record.MedianPrice,
		AverageDaysOnMarket: record.AverageDaysOnMarket,
		PriceChangePercent:  record.PriceChangePercent,
		InventoryCount:      record.InventoryCount,
		MarketCondition:     string(record.MarketCondition),
		CompetitionLevel:    string(record.CompetitionLevel),
		PricePerSquareFoot:  record.PricePerSquareFoot,
		SaleToListRatio:     record.SaleToListRatio,
		DataSource:          dataSource,
		LastUpdated:         record.LastUpdated,
		CreatedAt:           time.Now(),
	}

	err := d.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "city"}, {Name: "state"}, {Name: "property_type"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"zip_code",
			"median_price",
			"average_days_on_market",
			"price_change_percent",
			"inventory_count",
			"market_condition",
			"competition_level",
			"price_per_square_foot",
			"sale_to_list_ratio",
			"data_source",
			"last_updated",
		}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to upsert market record: %w", err)
	}
	return nil
}

// GetMarketRecord returns the persisted record for a location, or nil when
// none exists.
func (d *Database) GetMarketRecord(city, state, propertyType string) (*models.MarketIntelligence, error) {
	var row models.MarketIntelligence
	err := d.db.
		Where("LOWER(city) = LOWER(?) AND state = ? AND property_type = ?", city, state, propertyType).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query market record: %w", err)
	}
	return &row, nil
}

// ListMarketRecords returns persisted records, optionally filtered by
// state, newest first.
func (d *Database) ListMarketRecords(state string) ([]models.MarketIntelligence, error) {
	query := d.db.Order("last_updated DESC")
	if state != "" {
		query = query.Where("state = ?", state)
	}

	var rows []models.MarketIntelligence
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list market records: %w", err)
	}
	return rows, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
