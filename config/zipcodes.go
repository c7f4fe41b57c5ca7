package config

// ZipcodeAdjustment scales a citywide baseline record to simulate
// neighborhood-level variation. Both multipliers are strictly positive.
type ZipcodeAdjustment struct {
	PriceMultiplier  float64
	DaysMultiplier   float64
	Description      string
	NeighborhoodType string
}

// ZipcodeAdjustments maps a 5-digit zipcode to its adjustment. A missing
// key means "no adjustment": the cascade passes the baseline record
// through unchanged.
var ZipcodeAdjustments = map[string]ZipcodeAdjustment{
	// Manchester, NH
	"03101": {PriceMultiplier: 1.18, DaysMultiplier: 0.80, Description: "Downtown Manchester, walkable urban core", NeighborhoodType: "urban"},
	"03102": {PriceMultiplier: 0.95, DaysMultiplier: 1.05, Description: "West Side Manchester, family neighborhoods", NeighborhoodType: "suburban"},
	"03104": {PriceMultiplier: 1.10, DaysMultiplier: 0.90, Description: "North End Manchester, established homes", NeighborhoodType: "suburban"},

	// Nashua, NH
	"03060": {PriceMultiplier: 1.05, DaysMultiplier: 0.95, Description: "Central Nashua", NeighborhoodType: "urban"},
	"03062": {PriceMultiplier: 1.15, DaysMultiplier: 0.85, Description: "South Nashua, near MA commuter corridor", NeighborhoodType: "suburban"},

	// Boston, MA
	"02108": {PriceMultiplier: 1.65, DaysMultiplier: 0.75, Description: "Beacon Hill", NeighborhoodType: "urban_luxury"},
	"02116": {PriceMultiplier: 1.55, DaysMultiplier: 0.80, Description: "Back Bay", NeighborhoodType: "urban_luxury"},
	"02124": {PriceMultiplier: 0.78, DaysMultiplier: 1.10, Description: "Dorchester", NeighborhoodType: "urban"},

	// Austin, TX
	"78701": {PriceMultiplier: 1.45, DaysMultiplier: 0.85, Description: "Downtown Austin condos and lofts", NeighborhoodType: "urban_luxury"},
	"78745": {PriceMultiplier: 0.90, DaysMultiplier: 1.00, Description: "South Austin, starter homes", NeighborhoodType: "suburban"},

	// Phoenix, AZ
	"85004": {PriceMultiplier: 1.20, DaysMultiplier: 0.90, Description: "Downtown Phoenix", NeighborhoodType: "urban"},
	"85032": {PriceMultiplier: 0.92, DaysMultiplier: 1.08, Description: "Paradise Valley Village", NeighborhoodType: "suburban"},

	// Miami, FL
	"33139": {PriceMultiplier: 1.70, DaysMultiplier: 0.95, Description: "South Beach", NeighborhoodType: "urban_luxury"},
	"33142": {PriceMultiplier: 0.70, DaysMultiplier: 1.15, Description: "West Little River", NeighborhoodType: "urban"},

	// Seattle, WA
	"98109": {PriceMultiplier: 1.35, DaysMultiplier: 0.80, Description: "South Lake Union / Queen Anne", NeighborhoodType: "urban"},
	"98118": {PriceMultiplier: 0.88, DaysMultiplier: 1.05, Description: "Rainier Valley", NeighborhoodType: "urban"},
}

// LookupZipcodeAdjustment returns the adjustment for a zipcode, if any.
func LookupZipcodeAdjustment(zipcode string) (ZipcodeAdjustment, bool) {
	adj, ok := ZipcodeAdjustments[zipcode]
	return adj, ok
}
