package config

import "strings"

// Metro is a curated metropolitan market tracked by the background
// refresh job and used for nearest-metro resolution.
type Metro struct {
	City   string    `json:"city"`
	State  string    `json:"state"`
	Center []float64 `json:"center"` // [lat, lng]
}

// TrackedMetros is the fixed list of well-known metros the service keeps
// warm market intelligence for.
var TrackedMetros = []Metro{
	{City: "Manchester", State: "NH", Center: []float64{42.9956, -71.4548}},
	{City: "Nashua", State: "NH", Center: []float64{42.7654, -71.4676}},
	{City: "Concord", State: "NH", Center: []float64{43.2081, -71.5376}},
	{City: "Boston", State: "MA", Center: []float64{42.3601, -71.0589}},
	{City: "Austin", State: "TX", Center: []float64{30.2672, -97.7431}},
	{City: "Phoenix", State: "AZ", Center: []float64{33.4484, -112.0740}},
	{City: "Miami", State: "FL", Center: []float64{25.7617, -80.1918}},
	{City: "Seattle", State: "WA", Center: []float64{47.6062, -122.3321}},
	{City: "Denver", State: "CO", Center: []float64{39.7392, -104.9903}},
	{City: "Nashville", State: "TN", Center: []float64{36.1627, -86.7816}},
	{City: "Charlotte", State: "NC", Center: []float64{35.2271, -80.8431}},
	{City: "Columbus", State: "OH", Center: []float64{39.9612, -82.9988}},
}

// GetMetroByName returns the tracked metro matching city/state, or nil.
func GetMetroByName(city, state string) *Metro {
	for i := range TrackedMetros {
		m := &TrackedMetros[i]
		if strings.EqualFold(m.City, city) && strings.EqualFold(m.State, state) {
			return m
		}
	}
	return nil
}
