package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/vtolops/skyplan/internal/adapters/gemini"
	"github.com/vtolops/skyplan/internal/adapters/geocode"
	"github.com/vtolops/skyplan/internal/adapters/http"
	"github.com/vtolops/skyplan/internal/adapters/memcache"
	natsadapter "github.com/vtolops/skyplan/internal/adapters/nats"
	"github.com/vtolops/skyplan/internal/adapters/valkey"
	"github.com/vtolops/skyplan/internal/core/ports"
	"github.com/vtolops/skyplan/internal/core/usecases"
	"github.com/vtolops/skyplan/internal/pkg/config"
	"github.com/vtolops/skyplan/internal/pkg/logging"
	"github.com/vtolops/skyplan/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("skyplan-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Geocode cache: Valkey when configured, bounded in-process LRU otherwise.
	var cache ports.CacheService
	if cfg.Valkey.Addr != "" {
		vk, err := valkey.New(cfg.Valkey.Addr)
		if err != nil {
			slog.Warn("valkey unavailable, using in-process cache", "error", err)
		} else {
			defer vk.Close()
			cache = vk
		}
	}
	if cache == nil {
		cache = memcache.New(cfg.Geocode.CacheSize, time.Duration(cfg.Geocode.CacheTTLSeconds)*time.Second)
	}

	// NATS
	var events ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		defer pub.Close()
		events = pub
	}

	// Raw NATS connection for the WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	}

	// Inference backend. A missing credential already failed config
	// validation, so reaching here with inference enabled means the key is
	// present.
	var inference ports.MissionInference
	if cfg.Inference.Enabled {
		gem, err := gemini.New(ctx, cfg.Inference.APIKey, cfg.Inference.Model,
			time.Duration(cfg.Inference.TimeoutSeconds)*time.Second)
		if err != nil {
			log.Fatalf("inference client: %v", err)
		}
		inference = gem
	} else {
		slog.Info("inference disabled, all plans will use deterministic synthesis")
	}

	// Services
	plannerSvc := usecases.NewPlannerService(cfg.Vehicle, inference, events, cfg.Inference.TargetWaypoints)
	geocodeSvc := usecases.NewGeocodeService(
		geocode.New(cfg.Geocode.URL, time.Duration(cfg.Geocode.TimeoutSeconds)*time.Second),
		cache,
		cfg.Geocode.CacheTTLSeconds,
	)

	deps := &http.Dependencies{
		Planner:   plannerSvc,
		Geocode:   geocodeSvc,
		NATS:      natsConn,
		Cache:     cache,
		Inference: inference != nil,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    256 * 1024, // plan requests are small
		AppName:      "SkyPlan API",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps, cfg.Server.StaticDir)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
