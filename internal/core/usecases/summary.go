package usecases

import (
	"math"

	"github.com/vtolops/skyplan/internal/core/domain"
	"github.com/vtolops/skyplan/internal/pkg/geospatial"
)

// Summarize aggregates total distance and estimated flight time over a
// finalized waypoint sequence. The first waypoint contributes no distance.
func Summarize(wps []domain.Waypoint, env domain.VehicleEnvelope) domain.MissionSummary {
	var totalKm float64
	for i := 1; i < len(wps); i++ {
		totalKm += geospatial.HaversineKm(wps[i-1].Lat, wps[i-1].Lng, wps[i].Lat, wps[i].Lng)
	}
	totalKm = math.Round(totalKm*100) / 100

	var flightMin int
	if env.CruiseSpeedKmh > 0 {
		flightMin = int(math.Round(totalKm / (env.CruiseSpeedKmh / 60)))
	}

	return domain.MissionSummary{
		TotalWaypoints:         len(wps),
		TotalDistanceKm:        totalKm,
		EstimatedFlightTimeMin: flightMin,
		Vehicle:                env,
	}
}

// CheckRange verifies the direct mission distance fits inside the vehicle's
// safety-margined range. Returns *domain.RangeExceededError on failure.
func CheckRange(takeoff, mission, ret domain.GeoPoint, env domain.VehicleEnvelope) error {
	totalKm := geospatial.HaversineKm(takeoff.Lat, takeoff.Lng, mission.Lat, mission.Lng) +
		geospatial.HaversineKm(mission.Lat, mission.Lng, ret.Lat, ret.Lng)
	if totalKm > env.RangeKm*domain.RangeSafetyMargin {
		return &domain.RangeExceededError{TotalKm: totalKm, RangeKm: env.RangeKm}
	}
	return nil
}
