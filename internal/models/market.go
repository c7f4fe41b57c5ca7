package models

import "time"

// MarketCondition describes overall market heat for a location.
type MarketCondition string

const (
	ConditionExtremelyHotSeller MarketCondition = "extremely_hot_seller_market"
	ConditionHotSeller          MarketCondition = "hot_seller_market"
	ConditionSeller             MarketCondition = "seller_market"
	ConditionBalanced           MarketCondition = "balanced_market"
	ConditionBuyer              MarketCondition = "buyer_market"
)

// CompetitionLevel describes how contested listings are for buyers.
type CompetitionLevel string

const (
	CompetitionExtreme CompetitionLevel = "extreme"
	CompetitionHigh    CompetitionLevel = "high"
	CompetitionMedium  CompetitionLevel = "medium"
	CompetitionLow     CompetitionLevel = "low"
)

// MarketRecord is the normalized snapshot every data provider must emit.
type MarketRecord struct {
	City                string           `json:"city"`
	State               string           `json:"state"`
	Zipcode             string           `json:"zipcode,omitempty"`
	MedianPrice         float64          `json:"median_price"`
	AverageDaysOnMarket int              `json:"average_days_on_market"`
	PriceChangePercent  float64          `json:"price_change_percent"`
	InventoryCount      int              `json:"inventory_count"`
	MarketCondition     MarketCondition  `json:"market_condition"`
	CompetitionLevel    CompetitionLevel `json:"competition_level"`
	PricePerSquareFoot  float64          `json:"price_per_square_foot"`
	SaleToListRatio     float64          `json:"sale_to_list_ratio,omitempty"`
	LastUpdated         time.Time        `json:"last_updated"`
}

// MarketIntelligence is the persisted form of a resolved MarketRecord,
// upserted on (city, state, property_type).
type MarketIntelligence struct {
	ID                  int64     `gorm:"primaryKey" json:"id"`
	City                string    `gorm:"uniqueIndex:idx_market_location;size:100" json:"city"`
	State               string    `gorm:"uniqueIndex:idx_market_location;size:2" json:"state"`
	PropertyType        string    `gorm:"uniqueIndex:idx_market_location;size:50" json:"property_type"`
	ZipCode             string    `gorm:"size:10" json:"zip_code"`
	MedianPrice         float64   `json:"median_price"`
	AverageDaysOnMarket int       `json:"average_days_on_market"`
	PriceChangePercent  float64   `json:"price_change_percent"`
	InventoryCount      int       `json:"inventory_count"`
	MarketCondition     string    `json:"market_condition"`
	CompetitionLevel    string    `json:"competition_level"`
	PricePerSquareFoot  float64   `json:"price_per_square_foot"`
	SaleToListRatio     float64   `json:"sale_to_list_ratio"`
	DataSource          string    `gorm:"size:50" json:"data_source"`
	LastUpdated         time.Time `json:"last_updated"`
	CreatedAt           time.Time `json:"created_at"`
}

func (MarketIntelligence) TableName() string {
	return "market_intelligence"
}
