package usecases_test

import (
	"reflect"
	"testing"

	"github.com/vtolops/skyplan/internal/core/domain"
	"github.com/vtolops/skyplan/internal/core/usecases"
)

func testEnvelope() domain.VehicleEnvelope {
	return domain.VehicleEnvelope{
		MaxAltitudeM:     3000,
		WeightKg:         24.5,
		CruiseSpeedKmh:   100,
		MaxSpeedKmh:      140,
		RangeKm:          50,
		ClimbRateMs:      5,
		DescentRateMs:    3,
		TurnRadiusM:      80,
		TakeoffAltitudeM: 50,
		CruiseAltitudeM:  120,
		LandingApproachM: 10,
		LoiterRadiusM:    60,
	}
}

var (
	takeoffPt = domain.GeoPoint{Lat: 37.50, Lng: 127.00, Alt: 50}
	missionPt = domain.GeoPoint{Lat: 37.60, Lng: 127.20, Alt: 120}
	returnPt  = domain.GeoPoint{Lat: 37.45, Lng: 127.10, Alt: 20}
)

func TestSynthesize_StructuralInvariants(t *testing.T) {
	env := testEnvelope()

	for target := 8; target <= 24; target++ {
		wps := usecases.Synthesize(takeoffPt, missionPt, returnPt, env, target)

		if len(wps) == 0 {
			t.Fatalf("target %d: empty sequence", target)
		}
		for i, wp := range wps {
			if wp.Seq != i+1 {
				t.Errorf("target %d: seq at index %d is %d, want %d", target, i, wp.Seq, i+1)
			}
			if wp.Alt < 0 || wp.Alt > env.MaxAltitudeM {
				t.Errorf("target %d: altitude %v out of [0,%v]", target, wp.Alt, env.MaxAltitudeM)
			}
			if wp.Speed < 0 || wp.Speed > env.MaxSpeedKmh {
				t.Errorf("target %d: speed %v out of [0,%v]", target, wp.Speed, env.MaxSpeedKmh)
			}
		}

		if wps[0].Action != domain.ActionTakeoff {
			t.Errorf("target %d: first action %s, want TAKEOFF", target, wps[0].Action)
		}
		if wps[len(wps)-1].Action != domain.ActionLand {
			t.Errorf("target %d: last action %s, want LAND", target, wps[len(wps)-1].Action)
		}

		missionIdx := -1
		missionCount := 0
		for i, wp := range wps {
			if wp.Action == domain.ActionMission {
				missionIdx = i
				missionCount++
			}
		}
		if missionCount != 1 {
			t.Errorf("target %d: %d MISSION waypoints, want exactly 1", target, missionCount)
		}
		if missionIdx >= 0 && wps[missionIdx+1].Action != domain.ActionLoiterToAlt {
			t.Errorf("target %d: waypoint after MISSION is %s, want LOITER_TO_ALT",
				target, wps[missionIdx+1].Action)
		}
	}
}

func TestSynthesize_Deterministic(t *testing.T) {
	env := testEnvelope()
	a := usecases.Synthesize(takeoffPt, missionPt, returnPt, env, 16)
	b := usecases.Synthesize(takeoffPt, missionPt, returnPt, env, 16)
	if !reflect.DeepEqual(a, b) {
		t.Error("two runs with identical inputs differ")
	}
}

func TestSynthesize_TargetSixteen(t *testing.T) {
	wps := usecases.Synthesize(takeoffPt, missionPt, returnPt, testEnvelope(), 16)
	// 2 departure phases + 5 outbound + mission + loiter + 5 inbound + 2 arrival.
	if len(wps) != 16 {
		t.Errorf("expected 16 waypoints for target 16, got %d", len(wps))
	}
}

func TestSynthesize_ClampsTargetCount(t *testing.T) {
	env := testEnvelope()
	low := usecases.Synthesize(takeoffPt, missionPt, returnPt, env, 1)
	atMin := usecases.Synthesize(takeoffPt, missionPt, returnPt, env, 8)
	if !reflect.DeepEqual(low, atMin) {
		t.Error("target below 8 should behave like target 8")
	}

	high := usecases.Synthesize(takeoffPt, missionPt, returnPt, env, 999)
	atMax := usecases.Synthesize(takeoffPt, missionPt, returnPt, env, 24)
	if !reflect.DeepEqual(high, atMax) {
		t.Error("target above 24 should behave like target 24")
	}
}

func TestSynthesize_EndpointCoordinates(t *testing.T) {
	wps := usecases.Synthesize(takeoffPt, missionPt, returnPt, testEnvelope(), 16)

	first := wps[0]
	if first.Lat != takeoffPt.Lat || first.Lng != takeoffPt.Lng {
		t.Errorf("first waypoint at (%v,%v), want takeoff (%v,%v)",
			first.Lat, first.Lng, takeoffPt.Lat, takeoffPt.Lng)
	}

	last := wps[len(wps)-1]
	if last.Lat != returnPt.Lat || last.Lng != returnPt.Lng {
		t.Errorf("last waypoint at (%v,%v), want return (%v,%v)",
			last.Lat, last.Lng, returnPt.Lat, returnPt.Lng)
	}

	if last.Speed != 0 {
		t.Errorf("LAND speed %v, want 0", last.Speed)
	}
}

func TestSynthesize_MissingAltitudesUseDefaults(t *testing.T) {
	env := testEnvelope()
	wps := usecases.Synthesize(
		domain.GeoPoint{Lat: 37.50, Lng: 127.00},
		domain.GeoPoint{Lat: 37.60, Lng: 127.20},
		domain.GeoPoint{Lat: 37.45, Lng: 127.10},
		env, 16)

	if wps[0].Alt != 50 {
		t.Errorf("takeoff altitude %v, want default 50", wps[0].Alt)
	}
	// transition altitude: min(cruise 120, max(80, 50+100)) = 120
	if wps[1].Alt != 120 {
		t.Errorf("transition altitude %v, want 120", wps[1].Alt)
	}
}
