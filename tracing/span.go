// Package tracing carries the opaque span handle a PendingRequest captures
// at submission time and threads through every retry, per spec.md §9
// ("Tracing span carriage"): retries must not re-read the ambient context,
// or a retry after the original context is gone would lose its trace.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Span is the handle a PendingRequest holds from submission until it
// resolves; it is not handed to the request builder, so built requests
// carry no trace context. It is deliberately narrow: "end this trace"
// and "record that this attempt failed".
type Span interface {
	// End finishes the span. Safe to call multiple times; only the first
	// call has an effect.
	End()
	// RecordAttempt annotates the span with a retry attempt and, if
	// non-nil, the error that triggered it.
	RecordAttempt(attempt int, err error)
}

type otelSpan struct {
	span trace.Span
}

func (s otelSpan) End() {
	s.span.End()
}

func (s otelSpan) RecordAttempt(attempt int, err error) {
	if err != nil {
		s.span.RecordError(err)
	}
	s.span.AddEvent("attempt", trace.WithAttributes(
		attribute.Int("attempt", attempt),
	))
}

// noopSpan is returned when there is no active span; every operation is a
// deliberate no-op rather than a nil check at every call site.
type noopSpan struct{}

func (noopSpan) End()                     {}
func (noopSpan) RecordAttempt(int, error) {}

// Noop is the span used when there is nothing to trace.
var Noop Span = noopSpan{}

// FromContext wraps the span active on ctx, or Noop if tracing is
// disabled or no span is recording.
func FromContext(ctx context.Context) Span {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return Noop
	}
	return otelSpan{span: span}
}

// Tracer adapts an otel tracer into the client.Tracer collaborator
// contract (client.Tracer.ActiveSpan).
type Tracer struct {
	Name string
}

// ActiveSpan returns the span active on ctx, wrapped for carriage through
// retries.
func (t Tracer) ActiveSpan(ctx context.Context) Span {
	return FromContext(ctx)
}
