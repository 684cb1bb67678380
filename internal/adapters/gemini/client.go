// Package gemini implements ports.MissionInference on the Gemini API.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	genai "google.golang.org/genai"

	"github.com/vtolops/skyplan/internal/core/domain"
	"github.com/vtolops/skyplan/internal/pkg/metrics"
)

const systemPrompt = `You are a VTOL mission planner. Given a vehicle envelope,
a takeoff point, a mission point and a return point, produce a flight plan as a
JSON array of waypoints. Each waypoint has: lat, lng, alt (meters AGL), speed
(km/h), action (TAKEOFF, VTOL_TRANSITION, LOITER_TO_ALT, WAYPOINT, MISSION,
LAND or RTL) and description. Respect the envelope's maximum altitude, maximum
speed and range. Start with TAKEOFF at the takeoff point and end with LAND at
the return point. Output only the JSON array.`

// Client is a thin wrapper around the official genai client. One attempt
// per request, bounded by the configured timeout. A failed call falls
// through to deterministic synthesis, so there is no retry loop here.
type Client struct {
	cli     *genai.Client
	model   string
	timeout time.Duration
}

// New creates a Gemini-backed inference client.
func New(ctx context.Context, apiKey, model string, timeout time.Duration) (*Client, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Client{cli: cli, model: model, timeout: timeout}, nil
}

// GenerateWaypoints asks the model for a waypoint array and returns the raw
// text. The payload is untrusted; the normalizer decides whether it is
// usable.
func (c *Client) GenerateWaypoints(ctx context.Context, env domain.VehicleEnvelope, req domain.MissionRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	input, _ := json.MarshalIndent(map[string]any{
		"vehicle":       env,
		"takeoff":       req.Takeoff,
		"mission":       req.Mission,
		"return_point":  req.Return,
		"operator_hint": req.UserPrompt,
	}, "", "  ")
	full := systemPrompt + "\n\n[INPUT JSON]\n" + string(input)

	start := time.Now()
	resp, err := c.cli.Models.GenerateContent(ctx, c.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: full}}}},
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	metrics.InferenceDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini generate: empty response")
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
