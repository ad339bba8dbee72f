// Package config defines service configuration and its loading order.
//
// Conventions:
// - New returns a Config holding the defaults.
// - Load layers an optional YAML file and ACTIVITIES_* env vars on top.
// - Loading and validation errors wrap this package's sentinel kinds.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// SeedFile optionally points at a YAML activity catalog that replaces
	// the built-in one.
	SeedFile string `koanf:"seed_file"`

	// EnforceCapacity rejects signups into activities that reached
	// max_participants.
	EnforceCapacity bool `koanf:"enforce_capacity"`

	// MetricsIntervalMS sets how often runtime gauges are refreshed.
	MetricsIntervalMS int `koanf:"metrics_interval_ms"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":8000",
		SeedFile:          "",
		EnforceCapacity:   false,
		MetricsIntervalMS: 10_000,
	}
}

// MetricsInterval returns MetricsIntervalMS as a duration.
func (c *Config) MetricsInterval() time.Duration {
	return time.Duration(c.MetricsIntervalMS) * time.Millisecond
}

// Validate checks field values that the loader cannot type-check.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch strings.ToLower(strings.TrimSpace(c.LogFormat)) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	}
	if c.MetricsIntervalMS <= 0 {
		return fmt.Errorf("%w: metrics_interval_ms must be positive", ErrInvalidConfig)
	}
	if c.SeedFile != "" {
		info, err := os.Stat(c.SeedFile)
		if err != nil {
			return fmt.Errorf("%w: %w: %w", ErrInvalidConfig, ErrSeedFile, err)
		}
		if info.IsDir() {
			return fmt.Errorf("%w: %w: %s is a directory", ErrInvalidConfig, ErrSeedFile, c.SeedFile)
		}
	}
	return nil
}
