package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracer is the flowblocks tracer instance.
// Uses the global OTel tracer provider.
var tracer = otel.Tracer("flowblocks")

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartResolveSpan starts a span for one merge lookup.
	StartResolveSpan(ctx context.Context, startID string) (context.Context, trace.Span)

	// EndResolveSpan records the lookup result on the span and ends it.
	EndResolveSpan(span trace.Span, mergeID, outcome string, iterations int)

	// StartMutationSpan starts a span for a graph edit.
	StartMutationSpan(ctx context.Context, op, nodeID string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// StartResolveSpan starts a span for one merge lookup.
func (m *otelSpanManager) StartResolveSpan(ctx context.Context, startID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "flowblocks.resolve",
		trace.WithAttributes(
			attribute.String("node.id", startID),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndResolveSpan records the lookup result and ends the span.
// A lookup without an answer is not an error; the span status stays Ok.
func (m *otelSpanManager) EndResolveSpan(span trace.Span, mergeID, outcome string, iterations int) {
	if span == nil {
		return
	}
	span.SetAttributes(
		attribute.String("merge.id", mergeID),
		attribute.String("resolve.outcome", outcome),
		attribute.Int("resolve.iterations", iterations),
	)
	span.SetStatus(codes.Ok, "")
	span.End()
}

// StartMutationSpan starts a span for a graph edit.
func (m *otelSpanManager) StartMutationSpan(ctx context.Context, op, nodeID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "flowblocks.mutation."+op,
		trace.WithAttributes(
			attribute.String("mutation.op", op),
			attribute.String("node.id", nodeID),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
