// Package config loads tool settings from environment variables. Command-line
// flags take precedence over the environment; the environment takes
// precedence over the defaults here.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// DefaultServiceURL is the published GA LISST classified image service.
const DefaultServiceURL = "https://tiledimageservices.arcgis.com/F7DSX1DSNSiWmOqh/arcgis/rest/services/OverallPref_Nov2023_createhostedimagery/ImageServer"

// Config holds all tool settings, populated from environment variables.
type Config struct {
	ServiceURL     string        `env:"LISST_SERVICE_URL"`
	ServiceTimeout time.Duration `env:"LISST_SERVICE_TIMEOUT" envDefault:"30s"`

	// MaxSamplesPerRequest caps the pixel count of a single getSamples
	// call; larger windows are fetched in row bands.
	MaxSamplesPerRequest int `env:"LISST_MAX_SAMPLES_PER_REQUEST" envDefault:"1000"`

	// BufferFeet pads the raster fetch window around the boundary.
	BufferFeet float64 `env:"LISST_BUFFER_FEET" envDefault:"100"`

	StylePath  string `env:"LISST_STYLE_PATH" envDefault:"symb/ga_lisst.style.yaml"`
	OutputName string `env:"LISST_OUTPUT_NAME" envDefault:"lisst_polygon"`

	LogLevel  string `env:"LISST_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LISST_LOG_FORMAT" envDefault:"text"`

	// MetricsAddr, when set, serves /healthz, /readyz, and /metrics for
	// the duration of the run.
	MetricsAddr string `env:"LISST_METRICS_ADDR"`
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.ServiceURL == "" {
		cfg.ServiceURL = DefaultServiceURL
	}

	if cfg.ServiceTimeout <= 0 {
		return nil, errors.New("LISST_SERVICE_TIMEOUT must be positive")
	}
	if cfg.MaxSamplesPerRequest <= 0 {
		return nil, errors.New("LISST_MAX_SAMPLES_PER_REQUEST must be positive")
	}
	if cfg.BufferFeet < 0 {
		return nil, errors.New("LISST_BUFFER_FEET must not be negative")
	}
	if cfg.OutputName == "" {
		return nil, errors.New("LISST_OUTPUT_NAME must not be empty")
	}

	return cfg, nil
}
