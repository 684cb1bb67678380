package usecases

import (
	"context"
	"log/slog"

	"github.com/vtolops/skyplan/internal/core/domain"
	"github.com/vtolops/skyplan/internal/core/ports"
	"github.com/vtolops/skyplan/internal/pkg/metrics"
)

// diagnosticCap bounds the raw inference payload carried in the plan for
// operator debugging.
const diagnosticCap = 2000

// PlannerService orchestrates one planning request: validate, range-check,
// attempt inference, normalize or fall back, summarize. It holds no
// per-request state; concurrent use is safe.
type PlannerService struct {
	env         domain.VehicleEnvelope
	inference   ports.MissionInference
	events      ports.EventPublisher
	targetCount int
}

// NewPlannerService creates a PlannerService. inference and events may be
// nil: without inference every plan uses deterministic synthesis, and
// without events no mission.planned messages are published.
func NewPlannerService(env domain.VehicleEnvelope, inference ports.MissionInference, events ports.EventPublisher, targetCount int) *PlannerService {
	if targetCount < MinTargetWaypoints || targetCount > MaxTargetWaypoints {
		targetCount = 16
	}
	return &PlannerService{env: env, inference: inference, events: events, targetCount: targetCount}
}

// Envelope returns the immutable vehicle constraint set.
func (s *PlannerService) Envelope() domain.VehicleEnvelope { return s.env }

// Plan produces a MissionPlan for the request, or a rejection error
// (*domain.ValidationError, *domain.RangeExceededError). Once validation
// and the range check pass, a plan is always returned: inference transport
// errors and unusable payloads degrade to deterministic synthesis instead
// of surfacing.
func (s *PlannerService) Plan(ctx context.Context, req domain.MissionRequest) (*domain.MissionPlan, error) {
	if err := validateRequest(req); err != nil {
		metrics.PlanRejections.WithLabelValues("validation").Inc()
		return nil, err
	}
	if err := CheckRange(req.Takeoff, req.Mission, req.Return, s.env); err != nil {
		metrics.PlanRejections.WithLabelValues("range").Inc()
		return nil, err
	}

	wps, diagnostic := s.inferWaypoints(ctx, req)
	fallback := wps == nil
	if fallback {
		wps = Synthesize(req.Takeoff, req.Mission, req.Return, s.env, s.targetCount)
	}

	plan := &domain.MissionPlan{
		Success:    true,
		Waypoints:  wps,
		Summary:    Summarize(wps, s.env),
		Fallback:   fallback,
		Diagnostic: diagnostic,
	}

	mode := "inference"
	if fallback {
		mode = "fallback"
	}
	metrics.PlansTotal.WithLabelValues(mode).Inc()

	if s.events != nil {
		if err := s.events.PublishMissionPlanned(ctx, plan); err != nil {
			slog.Warn("mission.planned publish failed", "error", err)
		}
	}

	return plan, nil
}

// inferWaypoints tries the external inference path once. It returns a nil
// slice when the fallback must be used, along with diagnostic text.
func (s *PlannerService) inferWaypoints(ctx context.Context, req domain.MissionRequest) ([]domain.Waypoint, string) {
	if s.inference == nil {
		return nil, ""
	}

	raw, err := s.inference.GenerateWaypoints(ctx, s.env, req)
	if err != nil {
		slog.Warn("inference call failed, using deterministic synthesis", "error", err)
		metrics.InferenceFailures.WithLabelValues("transport").Inc()
		return nil, truncate(err.Error(), diagnosticCap)
	}

	wps, err := NormalizeWaypoints(raw, s.env)
	if err != nil {
		slog.Warn("inference payload unusable, using deterministic synthesis", "error", err)
		metrics.InferenceFailures.WithLabelValues("normalization").Inc()
		return nil, truncate(raw, diagnosticCap)
	}
	return wps, ""
}

func validateRequest(req domain.MissionRequest) error {
	points := []struct {
		name string
		p    domain.GeoPoint
	}{
		{"takeoff", req.Takeoff},
		{"mission", req.Mission},
		{"return_point", req.Return},
	}
	for _, pt := range points {
		if !pt.p.Valid() {
			return &domain.ValidationError{Field: pt.name, Reason: "lat must be within [-90,90] and lng within [-180,180]"}
		}
	}
	if len(req.UserPrompt) > domain.MaxPromptLen {
		return &domain.ValidationError{Field: "user_prompt", Reason: "exceeds 1200 characters"}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
