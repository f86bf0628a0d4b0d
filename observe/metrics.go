package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records cache lookup and remote fetch metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: must honor cancellation/deadlines and return quickly.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordLookup records a cache lookup and whether it was a hit.
	RecordLookup(ctx context.Context, meta FetchMeta, hit bool)

	// RecordFetch records a remote fetch with duration, outcome and error status.
	RecordFetch(ctx context.Context, meta FetchMeta, duration time.Duration, found bool, err error)
}

type metricsImpl struct {
	lookups      metric.Int64Counter
	fetches      metric.Int64Counter
	fetchErrors  metric.Int64Counter
	notFound     metric.Int64Counter
	durationHist metric.Float64Histogram
}

// NewMetrics creates a Metrics instance with the given meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	lookups, err := meter.Int64Counter(
		"cache.lookups",
		metric.WithDescription("Total number of cache lookups by result"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	fetches, err := meter.Int64Counter(
		"cache.fetch.total",
		metric.WithDescription("Total number of remote fetches issued on cache misses"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	fetchErrors, err := meter.Int64Counter(
		"cache.fetch.errors",
		metric.WithDescription("Total number of remote fetches that failed"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	notFound, err := meter.Int64Counter(
		"cache.fetch.not_found",
		metric.WithDescription("Total number of remote fetches that returned no value"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"cache.fetch.duration_ms",
		metric.WithDescription("Remote fetch duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		lookups:      lookups,
		fetches:      fetches,
		fetchErrors:  fetchErrors,
		notFound:     notFound,
		durationHist: durationHist,
	}, nil
}

func (m *metricsImpl) RecordLookup(ctx context.Context, meta FetchMeta, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	attrs := append(meta.attributes(), attribute.String("cache.result", result))
	m.lookups.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *metricsImpl) RecordFetch(ctx context.Context, meta FetchMeta, duration time.Duration, found bool, err error) {
	opt := metric.WithAttributes(meta.attributes()...)

	m.fetches.Add(ctx, 1, opt)
	switch {
	case err != nil:
		m.fetchErrors.Add(ctx, 1, opt)
	case !found:
		m.notFound.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

type noopMetrics struct{}

func (noopMetrics) RecordLookup(context.Context, FetchMeta, bool) {}

func (noopMetrics) RecordFetch(context.Context, FetchMeta, time.Duration, bool, error) {}
