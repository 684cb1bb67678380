package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/vtolops/skyplan/internal/core/domain"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig           `mapstructure:"server"`
	Vehicle   domain.VehicleEnvelope `mapstructure:"vehicle"`
	Inference InferenceConfig        `mapstructure:"inference"`
	Geocode   GeocodeConfig          `mapstructure:"geocode"`
	NATS      NATSConfig             `mapstructure:"nats"`
	Valkey    ValkeyConfig           `mapstructure:"valkey"`
	Telemetry TelemetryConfig        `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
	StaticDir    string `mapstructure:"static_dir"`
}

type InferenceConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	Model           string `mapstructure:"model"`
	APIKey          string `mapstructure:"api_key"`
	TimeoutSeconds  int    `mapstructure:"timeout_seconds"`
	TargetWaypoints int    `mapstructure:"target_waypoints"`
}

type GeocodeConfig struct {
	URL             string `mapstructure:"url"`
	TimeoutSeconds  int    `mapstructure:"timeout_seconds"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds"`
	CacheSize       int    `mapstructure:"cache_size"`
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	OTLPAddr    string `mapstructure:"otlp_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.static_dir", "")

	// VTOL envelope defaults; adjust per airframe in config.yaml.
	v.SetDefault("vehicle.max_altitude_m", 3000.0)
	v.SetDefault("vehicle.weight_kg", 24.5)
	v.SetDefault("vehicle.cruise_speed_kmh", 100.0)
	v.SetDefault("vehicle.max_speed_kmh", 140.0)
	v.SetDefault("vehicle.range_km", 50.0)
	v.SetDefault("vehicle.climb_rate_ms", 5.0)
	v.SetDefault("vehicle.descent_rate_ms", 3.0)
	v.SetDefault("vehicle.turn_radius_m", 80.0)
	v.SetDefault("vehicle.takeoff_altitude_m", 50.0)
	v.SetDefault("vehicle.cruise_altitude_m", 120.0)
	v.SetDefault("vehicle.landing_approach_m", 10.0)
	v.SetDefault("vehicle.loiter_radius_m", 60.0)

	v.SetDefault("inference.enabled", false)
	v.SetDefault("inference.model", "gemini-2.5-flash")
	v.SetDefault("inference.api_key", "")
	v.SetDefault("inference.timeout_seconds", 8)
	v.SetDefault("inference.target_waypoints", 16)

	v.SetDefault("geocode.url", "https://nominatim.openstreetmap.org/search")
	v.SetDefault("geocode.timeout_seconds", 5)
	v.SetDefault("geocode.cache_ttl_seconds", 86400)
	v.SetDefault("geocode.cache_size", 4096)

	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.addr", "")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.otlp_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", false)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: SKYPLAN_VEHICLE_RANGE_KM → vehicle.range_km
	v.SetEnvPrefix("SKYPLAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// The key usually arrives via the provider's conventional variable.
	if cfg.Inference.APIKey == "" {
		cfg.Inference.APIKey = os.Getenv("GEMINI_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
// A missing inference credential fails here, at startup, rather than on
// every request.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}

	if c.Vehicle.MaxAltitudeM <= 0 {
		errs = append(errs, "vehicle.max_altitude_m must be positive")
	}
	if c.Vehicle.CruiseSpeedKmh <= 0 {
		errs = append(errs, "vehicle.cruise_speed_kmh must be positive")
	}
	if c.Vehicle.MaxSpeedKmh < c.Vehicle.CruiseSpeedKmh {
		errs = append(errs, "vehicle.max_speed_kmh must be at least vehicle.cruise_speed_kmh")
	}
	if c.Vehicle.RangeKm <= 0 {
		errs = append(errs, "vehicle.range_km must be positive")
	}

	if c.Inference.Enabled {
		if c.Inference.APIKey == "" {
			errs = append(errs, "inference.api_key (or GEMINI_API_KEY) is required when inference is enabled")
		}
		if c.Inference.Model == "" {
			errs = append(errs, "inference.model is required when inference is enabled")
		}
		if c.Inference.TimeoutSeconds <= 0 {
			errs = append(errs, "inference.timeout_seconds must be positive")
		}
	}
	if c.Inference.TargetWaypoints < 8 || c.Inference.TargetWaypoints > 24 {
		errs = append(errs, fmt.Sprintf("inference.target_waypoints must be 8-24, got %d", c.Inference.TargetWaypoints))
	}

	if c.Geocode.URL == "" {
		errs = append(errs, "geocode.url is required")
	}
	if c.Geocode.CacheSize <= 0 {
		errs = append(errs, "geocode.cache_size must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
