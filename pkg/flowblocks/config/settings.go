package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Defaults applied when a key is missing.
const (
	DefaultMaxIterations = 1000
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
	DefaultBusyTimeout   = 5 * time.Second
)

// ErrInvalidSettings indicates a settings value outside its allowed range.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings configures the resolver, logging, telemetry and the snapshot
// database used by the flowblocks CLI.
type Settings struct {
	// MaxIterations caps traversal steps per merge lookup.
	MaxIterations int

	// LogLevel is one of debug, info, warn, error.
	LogLevel string
	// LogFormat is text or json.
	LogFormat string

	// Metrics enables OpenTelemetry metrics.
	Metrics bool
	// Tracing enables OpenTelemetry spans.
	Tracing bool

	// Database is the SQLite snapshot database path. Empty means none.
	Database string
	// BusyTimeout is how long SQLite waits on a locked database.
	BusyTimeout time.Duration
}

// Default returns the settings used when no configuration file is given.
func Default() Settings {
	return Settings{
		MaxIterations: DefaultMaxIterations,
		LogLevel:      DefaultLogLevel,
		LogFormat:     DefaultLogFormat,
		BusyTimeout:   DefaultBusyTimeout,
	}
}

// FromValues reads settings from a decoded document:
//
//	max_iterations: 500
//	log:
//	  level: debug
//	  format: json
//	telemetry:
//	  metrics: true
//	  tracing: false
//	database:
//	  path: flows.db
//	  busy_timeout: 5s
//
// Missing or mistyped values keep their defaults.
func FromValues(v Values) Settings {
	def := Default()

	log := v.Section("log")
	telemetry := v.Section("telemetry")
	db := v.Section("database")

	return Settings{
		MaxIterations: v.Int("max_iterations", def.MaxIterations),
		LogLevel:      strings.ToLower(log.String("level", def.LogLevel)),
		LogFormat:     strings.ToLower(log.String("format", def.LogFormat)),
		Metrics:       telemetry.Bool("metrics", def.Metrics),
		Tracing:       telemetry.Bool("tracing", def.Tracing),
		Database:      db.String("path", def.Database),
		BusyTimeout:   db.Duration("busy_timeout", def.BusyTimeout),
	}
}

// Validate checks value ranges. Multiple errors are joined together.
func (s Settings) Validate() error {
	var errs []error

	if s.MaxIterations <= 0 {
		errs = append(errs, fmt.Errorf("%w: max_iterations must be positive, got %d", ErrInvalidSettings, s.MaxIterations))
	}

	switch s.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("%w: unknown log level %q", ErrInvalidSettings, s.LogLevel))
	}

	switch s.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("%w: unknown log format %q", ErrInvalidSettings, s.LogFormat))
	}

	if s.BusyTimeout < 0 {
		errs = append(errs, fmt.Errorf("%w: busy_timeout cannot be negative", ErrInvalidSettings))
	}

	return errors.Join(errs...)
}
