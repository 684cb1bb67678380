package usecases

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/vtolops/skyplan/internal/core/domain"
	"github.com/vtolops/skyplan/internal/pkg/geospatial"
)

// NormalizeWaypoints parses a semi-structured, untrusted waypoint payload
// into the canonical schema. Parsing is attempted in order, first success
// wins: full payload as a JSON array; JSON object with a "waypoints" array;
// the substring between the first '[' and the last ']' as a JSON array.
//
// On irrecoverable failure (nothing parses, or the array is empty) it
// returns domain.ErrNormalization and the caller must fall back to
// deterministic synthesis. Partial acceptance is never produced.
//
// Normalizing an already-canonical sequence yields an equivalent sequence.
func NormalizeWaypoints(payload string, env domain.VehicleEnvelope) ([]domain.Waypoint, error) {
	records, err := extractRecords(payload)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty waypoint array", domain.ErrNormalization)
	}

	wps := make([]domain.Waypoint, 0, len(records))
	for i, rec := range records {
		alt := finiteOr(pickNum(rec, env.TakeoffAltitudeM, "alt", "altitude"), env.TakeoffAltitudeM)
		speed := finiteOr(pickNum(rec, env.CruiseSpeedKmh, "speed"), env.CruiseSpeedKmh)

		// Unknown action strings are preserved upper-cased as an open
		// extension point rather than rejected.
		action := strings.ToUpper(pickStr(rec, string(domain.ActionWaypoint), "action", "cmd", "type"))

		wps = append(wps, domain.Waypoint{
			Seq:         i + 1,
			Lat:         pickNum(rec, 0, "lat", "latitude"),
			Lng:         pickNum(rec, 0, "lng", "longitude", "lon"),
			Alt:         geospatial.Clamp(alt, 0, env.MaxAltitudeM),
			Speed:       geospatial.Clamp(speed, 0, env.MaxSpeedKmh),
			Action:      domain.ActionKind(action),
			Description: pickStr(rec, fmt.Sprintf("WP %d", i+1), "description", "desc", "note"),
		})
	}
	return wps, nil
}

func extractRecords(payload string) ([]map[string]any, error) {
	var arr []map[string]any
	if err := json.Unmarshal([]byte(payload), &arr); err == nil {
		return arr, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &obj); err == nil {
		if raw, ok := obj["waypoints"]; ok {
			if err := json.Unmarshal(raw, &arr); err == nil {
				return arr, nil
			}
		}
	}

	// Models often wrap the array in prose or markdown fences.
	start := strings.Index(payload, "[")
	end := strings.LastIndex(payload, "]")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(payload[start:end+1]), &arr); err == nil {
			return arr, nil
		}
	}

	return nil, fmt.Errorf("%w: no JSON waypoint array found", domain.ErrNormalization)
}

// pickNum returns the first alias present in rec as a float64, tolerating
// JSON numbers, integer-typed values, and numeric strings.
func pickNum(rec map[string]any, def float64, aliases ...string) float64 {
	for _, key := range aliases {
		v, ok := rec[key]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return n
		case int:
			return float64(n)
		case json.Number:
			if f, err := n.Float64(); err == nil {
				return f
			}
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
				return f
			}
		}
	}
	return def
}

func pickStr(rec map[string]any, def string, aliases ...string) string {
	for _, key := range aliases {
		if v, ok := rec[key].(string); ok && v != "" {
			return v
		}
	}
	return def
}

func finiteOr(v, def float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}
