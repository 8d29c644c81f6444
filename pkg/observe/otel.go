package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for the routing engine.
const defaultTracerName = "trellis.router"

// TracingConfig configures the OpenTelemetry recorder.
type TracingConfig struct {
	// TracerName is the name of the tracer (default: "trellis.router").
	TracerName string

	// IncludePath includes the request path on match spans.
	// Enabled by default; disable when paths may carry sensitive data.
	IncludePath bool

	// tracer is the resolved tracer instance.
	tracer trace.Tracer
}

// TracingOption configures the OpenTelemetry recorder.
type TracingOption func(*TracingConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracingOption {
	return func(c *TracingConfig) {
		c.TracerName = name
	}
}

// WithIncludePath enables or disables the request path attribute.
func WithIncludePath(include bool) TracingOption {
	return func(c *TracingConfig) {
		c.IncludePath = include
	}
}

// TraceRecorder records builds and matches as OpenTelemetry spans.
type TraceRecorder struct {
	config TracingConfig
}

// Tracing creates an OpenTelemetry recorder.
//
// Spans emitted:
//   - router.build: one per rebuild, with the declaration count; failed
//     builds record the error and an error span status
//   - router.match: one per match, with the outcome and, on a hit, the
//     matched pattern
//
// The tracer uses the global OpenTelemetry tracer provider. Configure it
// in your main() before routing starts:
//
//	tp := sdktrace.NewTracerProvider(
//	    sdktrace.WithBatcher(exporter),
//	)
//	otel.SetTracerProvider(tp)
func Tracing(opts ...TracingOption) *TraceRecorder {
	config := TracingConfig{
		TracerName:  defaultTracerName,
		IncludePath: true,
	}
	for _, opt := range opts {
		opt(&config)
	}
	config.tracer = otel.Tracer(config.TracerName)
	return &TraceRecorder{config: config}
}

// RecordBuild implements router.Recorder.
func (t *TraceRecorder) RecordBuild(routes int, dur time.Duration, err error) {
	end := time.Now()
	_, span := t.config.tracer.Start(
		context.Background(),
		"router.build",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithTimestamp(end.Add(-dur)),
		trace.WithAttributes(attribute.Int("trellis.routes", routes)),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End(trace.WithTimestamp(end))
}

// RecordMatch implements router.Recorder.
func (t *TraceRecorder) RecordMatch(path, pattern string, matched bool, dur time.Duration) {
	end := time.Now()
	attrs := []attribute.KeyValue{
		attribute.Bool("trellis.matched", matched),
	}
	if matched {
		attrs = append(attrs, attribute.String("trellis.pattern", pattern))
	}
	if t.config.IncludePath {
		attrs = append(attrs, attribute.String("trellis.path", path))
	}

	_, span := t.config.tracer.Start(
		context.Background(),
		"router.match",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithTimestamp(end.Add(-dur)),
		trace.WithAttributes(attrs...),
	)
	span.End(trace.WithTimestamp(end))
}
