package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	handler "github.com/vtolops/skyplan/internal/adapters/http"
	"github.com/vtolops/skyplan/internal/core/domain"
	"github.com/vtolops/skyplan/internal/core/usecases"
)

// ---- Mocks ----

type mockInference struct {
	generateFn func(ctx context.Context, env domain.VehicleEnvelope, req domain.MissionRequest) (string, error)
}

func (m *mockInference) GenerateWaypoints(ctx context.Context, env domain.VehicleEnvelope, req domain.MissionRequest) (string, error) {
	if m.generateFn != nil {
		return m.generateFn(ctx, env, req)
	}
	return "", errors.New("unavailable")
}

type mockGeocoder struct {
	searchFn func(ctx context.Context, query string) (*domain.GeocodeResult, error)
}

func (m *mockGeocoder) Search(ctx context.Context, query string) (*domain.GeocodeResult, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query)
	}
	return nil, domain.ErrNotFound
}

func testEnvelope() domain.VehicleEnvelope {
	return domain.VehicleEnvelope{
		MaxAltitudeM:     3000,
		CruiseSpeedKmh:   100,
		MaxSpeedKmh:      140,
		RangeKm:          50,
		TakeoffAltitudeM: 50,
		CruiseAltitudeM:  120,
	}
}

func newApp(deps *handler.Dependencies) *fiber.App {
	app := fiber.New()
	app.Post("/v1/missions/plan", handler.PlanMissionHandler(deps))
	app.Post("/v1/missions/plan/export", handler.ExportMissionHandler(deps))
	app.Get("/v1/vehicle", handler.VehicleHandler(deps))
	app.Get("/v1/geocode", handler.GeocodeHandler(deps))
	app.Get("/v1/health", handler.HealthHandler(deps))
	app.Get("/v1/ready", handler.ReadyHandler(deps))
	return app
}

func defaultDeps() *handler.Dependencies {
	return &handler.Dependencies{
		Planner: usecases.NewPlannerService(testEnvelope(), nil, nil, 16),
		Geocode: usecases.NewGeocodeService(&mockGeocoder{}, nil, 60),
	}
}

const validBody = `{
	"takeoff":      {"lat": 37.50, "lng": 127.00, "alt": 50},
	"mission":      {"lat": 37.60, "lng": 127.20, "alt": 120},
	"return_point": {"lat": 37.45, "lng": 127.10, "alt": 20},
	"user_prompt":  "survey the ridge line"
}`

// ---- Tests ----

func TestPlanMissionHandler_FallbackPlan(t *testing.T) {
	app := newApp(defaultDeps())

	req := httptest.NewRequest("POST", "/v1/missions/plan", strings.NewReader(validBody))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status %d, want 200", resp.StatusCode)
	}

	var plan domain.MissionPlan
	if err := json.NewDecoder(resp.Body).Decode(&plan); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !plan.Success || !plan.Fallback {
		t.Errorf("expected success+fallback, got %+v", plan)
	}
	if plan.Summary.TotalWaypoints != len(plan.Waypoints) {
		t.Errorf("summary count %d, want %d", plan.Summary.TotalWaypoints, len(plan.Waypoints))
	}
}

func TestPlanMissionHandler_InferencePlan(t *testing.T) {
	deps := defaultDeps()
	deps.Planner = usecases.NewPlannerService(testEnvelope(), &mockInference{
		generateFn: func(ctx context.Context, env domain.VehicleEnvelope, req domain.MissionRequest) (string, error) {
			return `{"waypoints":[{"lat":37.5,"lng":127.0},{"lat":37.45,"lng":127.1}]}`, nil
		},
	}, nil, 16)
	app := newApp(deps)

	req := httptest.NewRequest("POST", "/v1/missions/plan", strings.NewReader(validBody))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	var plan domain.MissionPlan
	if err := json.NewDecoder(resp.Body).Decode(&plan); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if plan.Fallback {
		t.Error("expected fallback=false")
	}
	if len(plan.Waypoints) != 2 {
		t.Errorf("expected 2 waypoints, got %d", len(plan.Waypoints))
	}
}

func TestPlanMissionHandler_MissingLatRejected(t *testing.T) {
	app := newApp(defaultDeps())

	body := `{"takeoff":{"lng":127.0},"mission":{"lat":37.6,"lng":127.2},"return_point":{"lat":37.45,"lng":127.1}}`
	req := httptest.NewRequest("POST", "/v1/missions/plan", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Errorf("status %d, want 400", resp.StatusCode)
	}

	var apiErr handler.APIError
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if apiErr.Code != "bad_request" {
		t.Errorf("code %q, want bad_request", apiErr.Code)
	}
}

func TestPlanMissionHandler_MissingPointRejected(t *testing.T) {
	app := newApp(defaultDeps())

	body := `{"takeoff":{"lat":37.5,"lng":127.0},"mission":{"lat":37.6,"lng":127.2}}`
	req := httptest.NewRequest("POST", "/v1/missions/plan", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Errorf("status %d, want 400", resp.StatusCode)
	}
}

func TestPlanMissionHandler_RangeExceeded(t *testing.T) {
	env := testEnvelope()
	env.RangeKm = 5
	deps := defaultDeps()
	deps.Planner = usecases.NewPlannerService(env, nil, nil, 16)
	app := newApp(deps)

	req := httptest.NewRequest("POST", "/v1/missions/plan", strings.NewReader(validBody))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 422 {
		t.Errorf("status %d, want 422", resp.StatusCode)
	}

	var apiErr handler.APIError
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if apiErr.Code != "range_exceeded" {
		t.Errorf("code %q, want range_exceeded", apiErr.Code)
	}
}

func TestExportMissionHandler_ReturnsWaypointFile(t *testing.T) {
	app := newApp(defaultDeps())

	req := httptest.NewRequest("POST", "/v1/missions/plan/export", strings.NewReader(validBody))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.HasPrefix(string(body), "QGC WPL 110\n") {
		t.Errorf("missing QGC WPL header, got %q", string(body)[:20])
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "mission.waypoints") {
		t.Errorf("Content-Disposition %q, want attachment filename", cd)
	}
}

func TestVehicleHandler(t *testing.T) {
	app := newApp(defaultDeps())

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/vehicle", nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	var env domain.VehicleEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.RangeKm != 50 {
		t.Errorf("range %v, want 50", env.RangeKm)
	}
}

func TestGeocodeHandler(t *testing.T) {
	deps := defaultDeps()
	deps.Geocode = usecases.NewGeocodeService(&mockGeocoder{
		searchFn: func(ctx context.Context, query string) (*domain.GeocodeResult, error) {
			if query == "seoul" {
				return &domain.GeocodeResult{Name: "Seoul", Lat: 37.56, Lng: 126.97}, nil
			}
			return nil, domain.ErrNotFound
		},
	}, nil, 60)
	app := newApp(deps)

	resp, _ := app.Test(httptest.NewRequest("GET", "/v1/geocode?q=seoul", nil), -1)
	if resp.StatusCode != 200 {
		t.Errorf("status %d, want 200", resp.StatusCode)
	}
	var hit domain.GeocodeResult
	if err := json.NewDecoder(resp.Body).Decode(&hit); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if hit.Lat != 37.56 {
		t.Errorf("lat %v, want 37.56", hit.Lat)
	}

	resp, _ = app.Test(httptest.NewRequest("GET", "/v1/geocode?q=nowhere", nil), -1)
	if resp.StatusCode != 404 {
		t.Errorf("status %d, want 404", resp.StatusCode)
	}

	resp, _ = app.Test(httptest.NewRequest("GET", "/v1/geocode", nil), -1)
	if resp.StatusCode != 400 {
		t.Errorf("status %d for missing q, want 400", resp.StatusCode)
	}
}

func TestHealthHandlers(t *testing.T) {
	app := newApp(defaultDeps())

	resp, _ := app.Test(httptest.NewRequest("GET", "/v1/health", nil), -1)
	if resp.StatusCode != 200 {
		t.Errorf("health status %d, want 200", resp.StatusCode)
	}

	resp, _ = app.Test(httptest.NewRequest("GET", "/v1/ready", nil), -1)
	if resp.StatusCode != 200 {
		t.Errorf("ready status %d, want 200", resp.StatusCode)
	}
	var ready struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ready); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ready.Checks["inference"] == "" {
		t.Error("ready response should report inference configuration")
	}
}
