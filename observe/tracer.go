package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jonwraymond/toolsafe/safe"
)

// SpanName returns the deterministic span name for a guarded call.
// Format: safe.<policy>
func SpanName(o safe.Outcome) string {
	return "safe." + o.Policy.String()
}

// Tracer turns finished guarded calls into spans.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: RecordOutcome must be best-effort and must not panic.
type Tracer interface {
	// RecordOutcome emits one span covering the call's start and duration.
	RecordOutcome(ctx context.Context, o safe.Outcome)
}

// tracerImpl is the concrete implementation of Tracer.
type tracerImpl struct {
	tracer trace.Tracer
}

// newTracer creates a new Tracer wrapping the given OpenTelemetry tracer.
func newTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// RecordOutcome starts a span back-dated to the call's start and ends it at
// start plus duration.
func (t *tracerImpl) RecordOutcome(ctx context.Context, o safe.Outcome) {
	attrs := outcomeAttrs(o)
	attrs = append(attrs, attribute.Bool("safe.failed", o.Failed()))
	if !o.Site.IsZero() {
		attrs = append(attrs,
			attribute.String("safe.function", o.Site.Function),
			attribute.String("code.filepath", o.Site.File),
			attribute.Int("code.lineno", o.Site.Line),
		)
	}
	if o.Problem != "" {
		attrs = append(attrs, attribute.String("safe.problem", o.Problem))
	}

	_, span := t.tracer.Start(ctx, SpanName(o),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithTimestamp(o.Start),
	)

	if o.Err != nil {
		span.SetStatus(codes.Error, o.Err.Error())
		span.RecordError(o.Err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End(trace.WithTimestamp(o.Start.Add(o.Duration)))
}

// outcomeAttrs holds the low-cardinality attributes shared by spans and
// metrics.
func outcomeAttrs(o safe.Outcome) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("safe.policy", o.Policy.String()),
	}
	if o.Name != "" {
		attrs = append(attrs, attribute.String("safe.name", o.Name))
	}
	return attrs
}

// noopTracer is a tracer that does nothing.
type noopTracer struct{}

func (t *noopTracer) RecordOutcome(ctx context.Context, o safe.Outcome) {}
