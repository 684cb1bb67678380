package domain

// GeoPoint represents a geographic coordinate (WGS 84) with an optional
// altitude in meters AGL. A zero altitude is treated as "not provided" by
// the planner, which substitutes phase-appropriate defaults.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
	Alt float64 `json:"alt,omitempty"`
}

// AltOr returns the point's altitude, or def when none was provided.
func (p GeoPoint) AltOr(def float64) float64 {
	if p.Alt == 0 {
		return def
	}
	return p.Alt
}

// Valid reports whether lat/lng are inside WGS 84 bounds.
func (p GeoPoint) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// GeocodeResult is a single forward-geocoding hit.
type GeocodeResult struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}
