package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix every configuration variable carries.
// Nested keys are separated by a double underscore, e.g. TUTORIAL_LOG__LEVEL.
const EnvPrefix = "TUTORIAL_"

// LogConfig controls the zerolog output.
type LogConfig struct {
	Level    string `koanf:"level" validate:"required,oneof=trace debug info warn error"`
	Timezone string `koanf:"timezone" validate:"required"`
}

// HTTPConfig holds Fiber server limits.
type HTTPConfig struct {
	BodyLimit       int `koanf:"body_limit" validate:"gt=0"`
	ReadTimeoutSec  int `koanf:"read_timeout_sec" validate:"gte=0"`
	WriteTimeoutSec int `koanf:"write_timeout_sec" validate:"gte=0"`
}

// MetricsConfig toggles the Prometheus middleware and /metrics endpoint.
type MetricsConfig struct {
	Enabled bool `koanf:"enabled"`
}

// TracingConfig toggles OpenTelemetry tracing. Exporter settings come from the
// standard OTEL_* variables.
type TracingConfig struct {
	Enabled     bool   `koanf:"enabled"`
	ServiceName string `koanf:"service_name" validate:"required"`
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables on top of built-in defaults.
type AppConfig struct {
	AppHost string        `koanf:"app_host" validate:"required"`
	Port    string        `koanf:"port" validate:"required,numeric"`
	Log     LogConfig     `koanf:"log"`
	HTTP    HTTPConfig    `koanf:"http"`
	Metrics MetricsConfig `koanf:"metrics"`
	Tracing TracingConfig `koanf:"tracing"`
}

// Default returns the configuration used when no variables are set.
func Default() *AppConfig {
	return &AppConfig{
		AppHost: "localhost:8080",
		Port:    "8080",
		Log: LogConfig{
			Level:    "info",
			Timezone: "UTC",
		},
		HTTP: HTTPConfig{
			BodyLimit:       4 * 1024 * 1024,
			ReadTimeoutSec:  10,
			WriteTimeoutSec: 10,
		},
		Metrics: MetricsConfig{Enabled: true},
		Tracing: TracingConfig{Enabled: false, ServiceName: "tutorialapi"},
	}
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// Only variables present in the environment override the defaults.
func Load() (*AppConfig, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil)
	if err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// envKey maps TUTORIAL_HTTP__BODY_LIMIT to http.body_limit.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}
