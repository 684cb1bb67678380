package usecases_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/vtolops/skyplan/internal/core/domain"
	"github.com/vtolops/skyplan/internal/core/usecases"
)

func TestNormalizeWaypoints_NotJSON(t *testing.T) {
	_, err := usecases.NormalizeWaypoints("not json", testEnvelope())
	if !errors.Is(err, domain.ErrNormalization) {
		t.Errorf("expected ErrNormalization, got %v", err)
	}
}

func TestNormalizeWaypoints_EmptyArray(t *testing.T) {
	for _, payload := range []string{`[]`, `{"waypoints":[]}`} {
		_, err := usecases.NormalizeWaypoints(payload, testEnvelope())
		if !errors.Is(err, domain.ErrNormalization) {
			t.Errorf("payload %s: expected ErrNormalization, got %v", payload, err)
		}
	}
}

func TestNormalizeWaypoints_MinimalRecord(t *testing.T) {
	env := testEnvelope()
	wps, err := usecases.NormalizeWaypoints(`[{"lat":1,"lng":2}]`, env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(wps) != 1 {
		t.Fatalf("expected 1 waypoint, got %d", len(wps))
	}
	wp := wps[0]
	if wp.Seq != 1 {
		t.Errorf("seq %d, want 1", wp.Seq)
	}
	if wp.Lat != 1 || wp.Lng != 2 {
		t.Errorf("coordinates (%v,%v), want (1,2)", wp.Lat, wp.Lng)
	}
	if wp.Alt != env.TakeoffAltitudeM {
		t.Errorf("alt %v, want default %v", wp.Alt, env.TakeoffAltitudeM)
	}
	if wp.Speed != env.CruiseSpeedKmh {
		t.Errorf("speed %v, want default %v", wp.Speed, env.CruiseSpeedKmh)
	}
	if wp.Action != domain.ActionWaypoint {
		t.Errorf("action %s, want WAYPOINT", wp.Action)
	}
	if wp.Description != "WP 1" {
		t.Errorf("description %q, want %q", wp.Description, "WP 1")
	}
}

func TestNormalizeWaypoints_ObjectWithWaypointsField(t *testing.T) {
	wps, err := usecases.NormalizeWaypoints(
		`{"waypoints":[{"latitude":37.5,"longitude":127.0},{"lat":37.6,"lon":127.2}]}`,
		testEnvelope())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(wps) != 2 {
		t.Fatalf("expected 2 waypoints, got %d", len(wps))
	}
	if wps[0].Lat != 37.5 || wps[0].Lng != 127.0 {
		t.Errorf("alias latitude/longitude not decoded: (%v,%v)", wps[0].Lat, wps[0].Lng)
	}
	if wps[1].Lng != 127.2 {
		t.Errorf("alias lon not decoded: %v", wps[1].Lng)
	}
}

func TestNormalizeWaypoints_EmbeddedArray(t *testing.T) {
	payload := "Here is your mission:\n```json\n[{\"lat\":1,\"lng\":2,\"action\":\"takeoff\"}]\n```\nFly safe."
	wps, err := usecases.NormalizeWaypoints(payload, testEnvelope())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(wps) != 1 {
		t.Fatalf("expected 1 waypoint, got %d", len(wps))
	}
	if wps[0].Action != domain.ActionTakeoff {
		t.Errorf("action %s, want TAKEOFF (upper-cased)", wps[0].Action)
	}
}

func TestNormalizeWaypoints_Clamping(t *testing.T) {
	env := testEnvelope() // max alt 3000, max speed 140
	wps, err := usecases.NormalizeWaypoints(
		`[{"lat":1,"lng":2,"alt":999999,"speed":9000},{"lat":1,"lng":2,"alt":-50,"speed":-10}]`,
		env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wps[0].Alt != 3000 {
		t.Errorf("alt %v, want clamped to 3000", wps[0].Alt)
	}
	if wps[0].Speed != 140 {
		t.Errorf("speed %v, want clamped to 140", wps[0].Speed)
	}
	if wps[1].Alt != 0 || wps[1].Speed != 0 {
		t.Errorf("negative alt/speed not clamped to 0: %v / %v", wps[1].Alt, wps[1].Speed)
	}
}

func TestNormalizeWaypoints_AliasAndUnknownAction(t *testing.T) {
	wps, err := usecases.NormalizeWaypoints(
		`[{"lat":1,"lng":2,"cmd":"hover","note":"hold position"}]`, testEnvelope())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Unknown actions pass through upper-cased as an extension point.
	if wps[0].Action != domain.ActionKind("HOVER") {
		t.Errorf("action %s, want HOVER", wps[0].Action)
	}
	if wps[0].Description != "hold position" {
		t.Errorf("description %q, want note alias value", wps[0].Description)
	}
}

func TestNormalizeWaypoints_SeqReassigned(t *testing.T) {
	wps, err := usecases.NormalizeWaypoints(
		`[{"lat":1,"lng":2,"seq":99},{"lat":3,"lng":4,"seq":1}]`, testEnvelope())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, wp := range wps {
		if wp.Seq != i+1 {
			t.Errorf("seq %d at index %d, want %d", wp.Seq, i, i+1)
		}
	}
}

func TestNormalizeWaypoints_Idempotent(t *testing.T) {
	env := testEnvelope()
	first, err := usecases.NormalizeWaypoints(
		`[{"lat":37.5,"lng":127.0,"alt":100,"speed":90,"action":"TAKEOFF","description":"go"}]`, env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	second, err := usecases.NormalizeWaypoints(string(data), env)
	if err != nil {
		t.Fatalf("re-normalize: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("length changed: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("waypoint %d changed: %+v vs %+v", i, first[i], second[i])
		}
	}
}
