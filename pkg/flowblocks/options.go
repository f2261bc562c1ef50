package flowblocks

import (
	"log/slog"

	"github.com/randalmurphal/flowblocks/pkg/flowblocks/observability"
)

// DefaultMaxIterations bounds the number of stack pops a single resolution
// may perform.
const DefaultMaxIterations = 1000

// resolveConfig holds configuration for merge resolution.
type resolveConfig struct {
	maxIterations int
	logger        *slog.Logger
	metrics       observability.MetricsRecorder
	spans         observability.SpanManager
}

// defaultResolveConfig returns the default resolution configuration.
func defaultResolveConfig() resolveConfig {
	return resolveConfig{
		maxIterations: DefaultMaxIterations,
		metrics:       observability.NoopMetrics{},
		spans:         observability.NoopSpanManager{},
	}
}

func newResolveConfig(opts []ResolveOption) resolveConfig {
	cfg := defaultResolveConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// ResolveOption configures merge resolution.
type ResolveOption func(*resolveConfig)

// WithMaxIterations sets the maximum number of traversal steps.
// Default: 1000
//
// This keeps malformed or cyclic graphs from costing unbounded work. When
// the limit is reached the resolver reports no merge node.
//
// Example:
//
//	r := flowblocks.NewResolver(g, flowblocks.WithMaxIterations(200))
func WithMaxIterations(n int) ResolveOption {
	return func(c *resolveConfig) {
		if n > 0 {
			c.maxIterations = n
		}
	}
}

// WithLogger enables structured logging of resolutions.
// A nil logger disables logging.
func WithLogger(logger *slog.Logger) ResolveOption {
	return func(c *resolveConfig) {
		c.logger = logger
	}
}

// WithMetrics records resolution metrics through the given recorder.
// A nil recorder disables metrics.
func WithMetrics(m observability.MetricsRecorder) ResolveOption {
	return func(c *resolveConfig) {
		if m == nil {
			m = observability.NoopMetrics{}
		}
		c.metrics = m
	}
}

// WithSpans traces resolutions through the given span manager.
// A nil manager disables tracing.
func WithSpans(s observability.SpanManager) ResolveOption {
	return func(c *resolveConfig) {
		if s == nil {
			s = observability.NoopSpanManager{}
		}
		c.spans = s
	}
}
