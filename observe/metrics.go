package observe

import (
	"context"

	"go.opentelemetry.io/otel/metric"

	"github.com/jonwraymond/toolsafe/safe"
)

// Metric names.
const (
	MetricCalls    = "safe.calls.total"
	MetricFailures = "safe.calls.failures"
	MetricDuration = "safe.calls.duration_ms"
)

// Metrics records counters and durations for guarded calls.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines and return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordOutcome records one guarded call.
	RecordOutcome(ctx context.Context, o safe.Outcome)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	totalCount   metric.Int64Counter
	failureCount metric.Int64Counter
	durationHist metric.Float64Histogram
}

// newMetrics creates a new Metrics instance with the given meter.
func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	totalCount, err := meter.Int64Counter(
		MetricCalls,
		metric.WithDescription("Total number of guarded calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	failureCount, err := meter.Int64Counter(
		MetricFailures,
		metric.WithDescription("Total number of guarded calls that failed"),
		metric.WithUnit("{failure}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		MetricDuration,
		metric.WithDescription("Guarded call duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		totalCount:   totalCount,
		failureCount: failureCount,
		durationHist: durationHist,
	}, nil
}

func (m *metricsImpl) RecordOutcome(ctx context.Context, o safe.Outcome) {
	opt := metric.WithAttributes(outcomeAttrs(o)...)

	m.totalCount.Add(ctx, 1, opt)
	if o.Failed() {
		m.failureCount.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(o.Duration.Microseconds())/1000, opt)
}

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

func (m *noopMetrics) RecordOutcome(ctx context.Context, o safe.Outcome) {}
