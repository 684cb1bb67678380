package geospatial

import "math"

const earthRadiusKm = 6371.0

// HaversineKm calculates the great-circle distance in kilometers between
// two points. Non-finite coordinates propagate as non-finite results;
// callers must guard.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// Lerp linearly interpolates lat/lng between two points at fraction t.
// Good enough for cruise-leg spacing at mission scale; no great-circle
// correction is applied.
func Lerp(lat1, lng1, lat2, lng2, t float64) (lat, lng float64) {
	return lat1 + (lat2-lat1)*t, lng1 + (lng2-lng1)*t
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
