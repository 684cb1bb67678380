package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "skyplan",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "skyplan",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"method", "path"})

	// Planner metrics
	PlansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "skyplan",
		Subsystem: "planner",
		Name:      "plans_total",
		Help:      "Mission plans produced, by generation mode",
	}, []string{"mode"}) // inference | fallback

	PlanRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "skyplan",
		Subsystem: "planner",
		Name:      "rejections_total",
		Help:      "Planning requests rejected before synthesis",
	}, []string{"reason"}) // validation | range

	InferenceFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "skyplan",
		Subsystem: "inference",
		Name:      "failures_total",
		Help:      "Inference attempts that degraded to deterministic synthesis",
	}, []string{"kind"}) // transport | normalization

	InferenceDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "skyplan",
		Subsystem: "inference",
		Name:      "duration_seconds",
		Help:      "Latency of external inference calls",
		Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16},
	})

	// Geocode cache metrics
	GeocodeCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "skyplan",
		Subsystem: "geocode",
		Name:      "cache_hits_total",
		Help:      "Geocode lookups served from cache",
	})

	GeocodeCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "skyplan",
		Subsystem: "geocode",
		Name:      "cache_misses_total",
		Help:      "Geocode lookups that reached the upstream service",
	})

	ActiveWebSockets = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "skyplan",
		Subsystem: "ws",
		Name:      "active_connections",
		Help:      "Current number of active WebSocket connections",
	})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)

		return err
	}
}

// Handler returns a Fiber handler serving the Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}
