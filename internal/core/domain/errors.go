package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by lookups (e.g. geocoding) with no hit.
var ErrNotFound = errors.New("not found")

// ErrNormalization means the inference payload could not be turned into a
// usable waypoint sequence; the caller must use deterministic synthesis.
var ErrNormalization = errors.New("unusable inference payload")

// ErrInferenceUnavailable means no inference backend is configured.
var ErrInferenceUnavailable = errors.New("inference backend not configured")

// ValidationError rejects a request with missing or malformed fields.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request: %s %s", e.Field, e.Reason)
}

// RangeExceededError rejects a mission whose direct distance does not fit
// inside the vehicle's safety-margined range.
type RangeExceededError struct {
	TotalKm float64
	RangeKm float64
}

func (e *RangeExceededError) Error() string {
	return fmt.Sprintf("mission distance %.1f km exceeds safe vehicle range (%.1f km of %.1f km)",
		e.TotalKm, e.RangeKm*RangeSafetyMargin, e.RangeKm)
}

// RangeSafetyMargin is the fixed fraction of vehicle range a mission may
// use. Not configurable per request.
const RangeSafetyMargin = 0.98
