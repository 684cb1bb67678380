package ports

import (
	"context"

	"github.com/vtolops/skyplan/internal/core/domain"
)

// MissionInference turns a natural-language hint plus reference points into
// a raw waypoint payload. The returned text is untrusted and unreliable;
// it is expected (not guaranteed) to contain a JSON array or an object with
// a "waypoints" array.
type MissionInference interface {
	GenerateWaypoints(ctx context.Context, env domain.VehicleEnvelope, req domain.MissionRequest) (string, error)
}

// Geocoder resolves free text into a coordinate. Returns domain.ErrNotFound
// when the query has no hit.
type Geocoder interface {
	Search(ctx context.Context, query string) (*domain.GeocodeResult, error)
}

// CacheService provides read-through caching with bounded retention.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishMissionPlanned(ctx context.Context, plan *domain.MissionPlan) error
}
