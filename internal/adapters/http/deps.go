package http

import (
	"github.com/nats-io/nats.go"

	"github.com/vtolops/skyplan/internal/core/ports"
	"github.com/vtolops/skyplan/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Planner   *usecases.PlannerService
	Geocode   *usecases.GeocodeService
	NATS      *nats.Conn
	Cache     ports.CacheService
	Inference bool // inference backend configured
}
