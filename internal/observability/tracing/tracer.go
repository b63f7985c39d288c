package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// tracer is the global tracer instance for the digest pipeline.
var tracer = otel.Tracer("digest-pipeline")

// InitTracerProvider installs an SDK-backed TracerProvider as the global
// tracer provider so spans created via GetTracer/StartRunSpan/StartStepSpan
// are actually sampled and recorded instead of going through the otel
// no-op default. No exporter is registered: the worker runs without a
// collector endpoint configured, so spans are recorded in-process for
// local inspection (e.g. via a debugging SpanProcessor attached later)
// rather than shipped anywhere. Returns a shutdown func for graceful exit.
func InitTracerProvider() func(context.Context) error {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown
}

// GetTracer returns the global tracer for creating spans.
// This tracer can be used throughout the application to create new spans.
//
// Example usage:
//
//	ctx, span := tracing.GetTracer().Start(ctx, "operation-name")
//	defer span.End()
func GetTracer() trace.Tracer {
	return tracer
}

// StartRunSpan starts the root span for one orchestrator run, tagging it
// with the user ID so a trace backend can group every activity step under
// a single run.
func StartRunSpan(ctx context.Context, userID string) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, "digest_run", trace.WithSpanKind(trace.SpanKindInternal))
	span.SetAttributes(attribute.String("user_id", userID))
	return ctx, span
}

// StartStepSpan starts a child span for a single named activity step within
// an already-started run span.
func StartStepSpan(ctx context.Context, step string) (context.Context, trace.Span) {
	return tracer.Start(ctx, step)
}
