// Package config defines service configuration and its loading hooks.
//
// Conventions:
//   - New returns a Config populated with defaults.
//   - Load layers a YAML file and environment variables on top of New.
//   - Validation errors wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"regexp"
	"runtime"
	"slices"
	"strings"
	"time"
)

// metricNamePattern matches Prometheus name segments and label names.
var metricNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// Timezone is an IANA zone used to interpret bedtimes and activity days.
	// Empty keeps each timestamp's own location.
	Timezone string `koanf:"timezone"`

	// ReadinessWindowDays is the number of trailing history entries that
	// form a readiness baseline.
	ReadinessWindowDays int `koanf:"readiness_window_days"`

	// ReadinessMinSamples is the minimum number of baseline samples needed
	// before a metric is scored.
	ReadinessMinSamples int `koanf:"readiness_min_samples"`

	// TemperatureThresholdC flags a temperature deviation as elevated.
	TemperatureThresholdC float64 `koanf:"temperature_threshold_c"`

	// RespiratoryThresholdBPM flags a respiratory rise over baseline as elevated.
	RespiratoryThresholdBPM float64 `koanf:"respiratory_threshold_bpm"`

	// WorkerCount bounds concurrent day computations in a readiness series.
	WorkerCount int `koanf:"worker_count"`

	// MaxSeriesDays caps the number of days a series request may score.
	MaxSeriesDays int `koanf:"max_series_days"`

	// MetricsEnabled turns Prometheus recording on or off.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// MetricsNamespace and MetricsSubsystem prefix every metric name.
	MetricsNamespace string `koanf:"metrics_namespace"`
	MetricsSubsystem string `koanf:"metrics_subsystem"`

	// MetricsBuckets overrides the latency histogram buckets (milliseconds).
	// Empty keeps the Prometheus defaults.
	MetricsBuckets []float64 `koanf:"metrics_buckets"`

	// MetricsLabels are constant labels attached to every metric.
	MetricsLabels map[string]string `koanf:"metrics_labels"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:                "info",
		LogFormat:               "text",
		Addr:                    ":9080",
		Timezone:                "",
		ReadinessWindowDays:     30,
		ReadinessMinSamples:     3,
		TemperatureThresholdC:   0.8,
		RespiratoryThresholdBPM: 1.5,
		WorkerCount:             runtime.NumCPU(),
		MaxSeriesDays:           90,
		MetricsEnabled:          true,
		MetricsNamespace:        "vitals",
		MetricsSubsystem:        "engine",
	}
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.ReadinessWindowDays < 1:
		return fmt.Errorf("%w: readiness_window_days must be positive", ErrInvalidConfig)
	case c.ReadinessMinSamples < 1:
		return fmt.Errorf("%w: readiness_min_samples must be positive", ErrInvalidConfig)
	case c.ReadinessMinSamples > c.ReadinessWindowDays:
		return fmt.Errorf("%w: readiness_min_samples exceeds readiness_window_days", ErrInvalidConfig)
	case c.TemperatureThresholdC <= 0:
		return fmt.Errorf("%w: temperature_threshold_c must be positive", ErrInvalidConfig)
	case c.RespiratoryThresholdBPM <= 0:
		return fmt.Errorf("%w: respiratory_threshold_bpm must be positive", ErrInvalidConfig)
	case c.WorkerCount < 1:
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	case c.MaxSeriesDays < 1:
		return fmt.Errorf("%w: max_series_days must be positive", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return c.validateMetrics()
}

func (c *Config) validateMetrics() error {
	if !metricNamePattern.MatchString(c.MetricsNamespace) {
		return fmt.Errorf("%w: metrics_namespace %q", ErrInvalidConfig, c.MetricsNamespace)
	}
	if c.MetricsSubsystem != "" && !metricNamePattern.MatchString(c.MetricsSubsystem) {
		return fmt.Errorf("%w: metrics_subsystem %q", ErrInvalidConfig, c.MetricsSubsystem)
	}
	for i := 1; i < len(c.MetricsBuckets); i++ {
		if c.MetricsBuckets[i] <= c.MetricsBuckets[i-1] {
			return fmt.Errorf("%w: metrics_buckets must be strictly increasing", ErrInvalidConfig)
		}
	}
	for name := range c.MetricsLabels {
		if !metricNamePattern.MatchString(name) || strings.HasPrefix(name, "__") || slices.Contains(reservedLabels, name) {
			return fmt.Errorf("%w: metrics_labels key %q", ErrInvalidConfig, name)
		}
	}
	return nil
}

// reservedLabels are the variable labels used by the metrics package; a
// constant label with the same name cannot be registered.
var reservedLabels = []string{
	"calculator", "component", "metric", "endpoint", "method",
	"status_code", "error_type", "severity", "status",
}

// Location resolves Timezone. A nil location means timestamps keep their
// own zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return nil, nil //nolint:nilnil // nil location is meaningful
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %w", ErrInvalidConfig, c.Timezone, err)
	}
	return loc, nil
}
