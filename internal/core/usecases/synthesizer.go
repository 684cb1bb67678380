package usecases

import (
	"fmt"
	"math"

	"github.com/vtolops/skyplan/internal/core/domain"
	"github.com/vtolops/skyplan/internal/pkg/geospatial"
)

// Target waypoint count bounds for deterministic synthesis.
const (
	MinTargetWaypoints = 8
	MaxTargetWaypoints = 24
)

// Synthesize produces the deterministic fallback mission: a fixed 8-phase
// skeleton (takeoff, transition, outbound cruise, mission, loiter, inbound
// cruise, transition, land) with linearly interpolated cruise legs. It is a
// pure function: identical inputs always yield identical output.
//
// targetCount is clamped to [MinTargetWaypoints, MaxTargetWaypoints]. The
// final length is a deterministic function of targetCount but is not
// guaranteed to equal it exactly.
func Synthesize(takeoff, mission, ret domain.GeoPoint, env domain.VehicleEnvelope, targetCount int) []domain.Waypoint {
	if targetCount < MinTargetWaypoints {
		targetCount = MinTargetWaypoints
	}
	if targetCount > MaxTargetWaypoints {
		targetCount = MaxTargetWaypoints
	}

	cruiseSpeed := math.Min(env.CruiseSpeedKmh, env.MaxSpeedKmh)
	transitionAlt := math.Min(env.CruiseAltitudeM, math.Max(80, takeoff.AltOr(50)+100))

	wps := make([]domain.Waypoint, 0, targetCount+2)

	wps = append(wps, domain.Waypoint{
		Lat:         takeoff.Lat,
		Lng:         takeoff.Lng,
		Alt:         geospatial.Clamp(takeoff.AltOr(50), 5, env.MaxAltitudeM),
		Speed:       cruiseSpeed,
		Action:      domain.ActionTakeoff,
		Description: "Vertical takeoff",
	})

	wps = append(wps, domain.Waypoint{
		Lat:         takeoff.Lat,
		Lng:         takeoff.Lng,
		Alt:         transitionAlt,
		Speed:       cruiseSpeed,
		Action:      domain.ActionVTOLTransition,
		Description: "Transition to forward flight",
	})

	// Outbound cruise leg: takeoff -> mission.
	leg1 := max(2, (targetCount-6)/2)
	for i := 1; i <= leg1; i++ {
		t := float64(i) / float64(leg1+1)
		lat, lng := geospatial.Lerp(takeoff.Lat, takeoff.Lng, mission.Lat, mission.Lng, t)
		wps = append(wps, domain.Waypoint{
			Lat:         lat,
			Lng:         lng,
			Alt:         transitionAlt,
			Speed:       env.CruiseSpeedKmh,
			Action:      domain.ActionWaypoint,
			Description: fmt.Sprintf("Outbound cruise %d/%d", i, leg1),
		})
	}

	missionAlt := math.Max(30, mission.AltOr(100))
	wps = append(wps, domain.Waypoint{
		Lat:         mission.Lat,
		Lng:         mission.Lng,
		Alt:         missionAlt,
		Speed:       0,
		Action:      domain.ActionMission,
		Description: "Mission point",
	})

	// Loiter before the return leg gives the airframe room to turn.
	wps = append(wps, domain.Waypoint{
		Lat:         mission.Lat,
		Lng:         mission.Lng,
		Alt:         missionAlt,
		Speed:       0,
		Action:      domain.ActionLoiterToAlt,
		Description: "Loiter before return",
	})

	// Inbound cruise leg: mission -> return.
	leg2 := max(2, targetCount-len(wps)-2)
	for i := 1; i <= leg2; i++ {
		t := float64(i) / float64(leg2+1)
		lat, lng := geospatial.Lerp(mission.Lat, mission.Lng, ret.Lat, ret.Lng, t)
		wps = append(wps, domain.Waypoint{
			Lat:         lat,
			Lng:         lng,
			Alt:         transitionAlt,
			Speed:       env.CruiseSpeedKmh,
			Action:      domain.ActionWaypoint,
			Description: fmt.Sprintf("Inbound cruise %d/%d", i, leg2),
		})
	}

	wps = append(wps, domain.Waypoint{
		Lat:         ret.Lat,
		Lng:         ret.Lng,
		Alt:         math.Max(10, ret.AltOr(20)),
		Speed:       math.Min(30, env.CruiseSpeedKmh),
		Action:      domain.ActionVTOLTransition,
		Description: "Transition to hover",
	})

	wps = append(wps, domain.Waypoint{
		Lat:         ret.Lat,
		Lng:         ret.Lng,
		Alt:         math.Max(2, ret.AltOr(10)),
		Speed:       0,
		Action:      domain.ActionLand,
		Description: "Vertical landing",
	})

	for i := range wps {
		wps[i].Seq = i + 1
		wps[i].Alt = geospatial.Clamp(wps[i].Alt, 0, env.MaxAltitudeM)
	}
	return wps
}
