package market

import (
	"context"

	"marketpulse/server/internal/models"
)

// defaultInventoryCount stands in when a source reports no listing count.
const defaultInventoryCount = 120

// Provider wraps one upstream market-data source behind the normalized
// record contract. A nil result signals "absent": the provider could not
// serve this location and the cascade should try the next one. Providers
// catch and log their own transport and parse errors rather than
// propagating them.
type Provider interface {
	Name() string
	ResolveByCity(ctx context.Context, city, state string) *models.MarketRecord
}

// ZipcodeResolver is an optional provider capability for sources that can
// be queried by zipcode directly. The cascade prefers it when the caller
// supplied a zipcode.
type ZipcodeResolver interface {
	ResolveByZipcode(ctx context.Context, zipcode string) *models.MarketRecord
}

// Sink receives resolved records for persistence. Failures are logged and
// swallowed by the cascade; persistence never affects the resolved value.
type Sink interface {
	Store(record *models.MarketRecord, propertyType, dataSource string) error
}
