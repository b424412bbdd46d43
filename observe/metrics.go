package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Eviction reasons reported to Metrics.RecordEviction.
const (
	EvictExpired = "expired"
	EvictSize    = "size"
)

// Metrics records cache activity.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordLookup counts one call classified as outcome
	// (hit, miss, expired or disabled).
	RecordLookup(ctx context.Context, op OpMeta, outcome string)

	// RecordEviction counts n entries removed from op's table for reason.
	RecordEviction(ctx context.Context, op OpMeta, reason string, n int)

	// RecordCompute records one execution of the underlying operation.
	RecordCompute(ctx context.Context, op OpMeta, duration time.Duration, err error)
}

type otelMetrics struct {
	lookups   metric.Int64Counter
	evictions metric.Int64Counter
	errors    metric.Int64Counter
	duration  metric.Float64Histogram
}

// NewMetrics creates Metrics backed by meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	lookups, err := meter.Int64Counter(
		"cache.lookups",
		metric.WithDescription("Cached calls by lookup outcome"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	evictions, err := meter.Int64Counter(
		"cache.evictions",
		metric.WithDescription("Entries removed by TTL sweep or size eviction"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	errs, err := meter.Int64Counter(
		"cache.compute.errors",
		metric.WithDescription("Failed executions of the underlying operation"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"cache.compute.duration_ms",
		metric.WithDescription("Execution time of the underlying operation in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		lookups:   lookups,
		evictions: evictions,
		errors:    errs,
		duration:  duration,
	}, nil
}

func opAttrs(op OpMeta, extra ...attribute.KeyValue) metric.MeasurementOption {
	attrs := make([]attribute.KeyValue, 0, 3+len(extra))
	attrs = append(attrs,
		attribute.String("op.id", op.ID()),
		attribute.String("op.name", op.Name),
	)
	if op.Namespace != "" {
		attrs = append(attrs, attribute.String("op.namespace", op.Namespace))
	}
	attrs = append(attrs, extra...)
	return metric.WithAttributes(attrs...)
}

func (m *otelMetrics) RecordLookup(ctx context.Context, op OpMeta, outcome string) {
	m.lookups.Add(ctx, 1, opAttrs(op, attribute.String("outcome", outcome)))
}

func (m *otelMetrics) RecordEviction(ctx context.Context, op OpMeta, reason string, n int) {
	if n <= 0 {
		return
	}
	m.evictions.Add(ctx, int64(n), opAttrs(op, attribute.String("reason", reason)))
}

func (m *otelMetrics) RecordCompute(ctx context.Context, op OpMeta, duration time.Duration, err error) {
	opt := opAttrs(op)
	if err != nil {
		m.errors.Add(ctx, 1, opt)
	}
	m.duration.Record(ctx, float64(duration.Microseconds())/1000, opt)
}

// NopMetrics returns Metrics that record nothing.
func NopMetrics() Metrics {
	return nopMetrics{}
}

type nopMetrics struct{}

func (nopMetrics) RecordLookup(context.Context, OpMeta, string)                 {}
func (nopMetrics) RecordEviction(context.Context, OpMeta, string, int)          {}
func (nopMetrics) RecordCompute(context.Context, OpMeta, time.Duration, error) {}
