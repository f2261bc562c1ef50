package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records flowblocks metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordResolution records one merge lookup with its outcome, the number
	// of traversal steps and its duration.
	RecordResolution(ctx context.Context, outcome string, iterations int, duration time.Duration)

	// RecordMutation records a graph edit.
	RecordMutation(ctx context.Context, op string, err error)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	resolveCalls      metric.Int64Counter
	resolveIterations metric.Int64Histogram
	resolveLatency    metric.Float64Histogram
	mutations         metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("flowblocks")

	resolveCalls, err := meter.Int64Counter("flowblocks.resolve.calls",
		metric.WithDescription("Number of merge node lookups"),
	)
	if err != nil {
		return nil, err
	}

	resolveIterations, err := meter.Int64Histogram("flowblocks.resolve.iterations",
		metric.WithDescription("Traversal steps per merge node lookup"),
	)
	if err != nil {
		return nil, err
	}

	resolveLatency, err := meter.Float64Histogram("flowblocks.resolve.latency_ms",
		metric.WithDescription("Merge node lookup latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	mutations, err := meter.Int64Counter("flowblocks.mutation.count",
		metric.WithDescription("Number of graph edits"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		resolveCalls:      resolveCalls,
		resolveIterations: resolveIterations,
		resolveLatency:    resolveLatency,
		mutations:         mutations,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordResolution records a merge lookup.
func (m *otelMetrics) RecordResolution(ctx context.Context, outcome string, iterations int, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))

	m.resolveCalls.Add(ctx, 1, attrs)
	m.resolveIterations.Record(ctx, int64(iterations), attrs)
	m.resolveLatency.Record(ctx, float64(duration.Microseconds())/1000, attrs)
}

// RecordMutation records a graph edit.
func (m *otelMetrics) RecordMutation(ctx context.Context, op string, err error) {
	m.mutations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("op", op),
		attribute.Bool("success", err == nil),
	))
}
