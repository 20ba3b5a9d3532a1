package observe

import (
	"context"

	"github.com/jonwraymond/toolsafe/safe"
)

// Recorder is a safe.Recorder that reports every guarded call as a span,
// call and failure counters, a duration sample and a log entry.
//
// Successful calls log at debug. Failures the policy absorbs log at warn and
// failures handed back to the caller log at error.
type Recorder struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

var _ safe.Recorder = (*Recorder)(nil)

// NewRecorder creates a Recorder. Nil arguments are replaced with no-ops.
func NewRecorder(tracer Tracer, metrics Metrics, logger Logger) *Recorder {
	if tracer == nil {
		tracer = &noopTracer{}
	}
	if metrics == nil {
		metrics = &noopMetrics{}
	}
	if logger == nil {
		logger = &noopLogger{}
	}
	return &Recorder{tracer: tracer, metrics: metrics, logger: logger}
}

// RecorderFromObserver builds a Recorder from an Observer's tracer, meter and
// logger.
func RecorderFromObserver(obs Observer) (*Recorder, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}
	m, err := newMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}
	return NewRecorder(newTracer(obs.Tracer()), m, obs.Logger()), nil
}

// Record implements safe.Recorder.
func (r *Recorder) Record(o safe.Outcome) {
	ctx := context.Background()
	r.tracer.RecordOutcome(ctx, o)
	r.metrics.RecordOutcome(ctx, o)

	fields := []Field{
		{Key: "policy", Value: o.Policy.String()},
		{Key: "duration_ms", Value: o.Duration.Milliseconds()},
	}
	if o.Name != "" {
		fields = append(fields, Field{Key: "name", Value: o.Name})
	}

	if !o.Failed() {
		r.logger.Debug(ctx, "guarded call succeeded", fields...)
		return
	}

	fields = append(fields,
		Field{Key: "error", Value: o.Err},
		Field{Key: "site", Value: o.Site.String()},
	)
	if o.Policy.Absorbs() {
		r.logger.Warn(ctx, "guarded call failed", fields...)
		return
	}
	r.logger.Error(ctx, "guarded call failed", fields...)
}
