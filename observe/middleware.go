package observe

import (
	"context"
	"time"
)

// Middleware wraps cache lookups and remote fetches with tracing, metrics
// and logging.
//
// Contract:
//   - Concurrency: safe for concurrent use.
//   - Context: the context passed to the wrapped fetch carries the fetch span.
//   - Errors: errors from the wrapped fetch are recorded and returned unchanged.
//   - Ownership: fetched values never pass through the middleware.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a Middleware. Nil components are replaced by no-ops.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	if tracer == nil {
		tracer = newNoopTracer()
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if logger == nil {
		logger = NopLogger()
	}
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// NopMiddleware returns a Middleware that records nothing.
func NopMiddleware() *Middleware {
	return NewMiddleware(nil, nil, nil)
}

// MiddlewareFromObserver creates a Middleware from an Observer.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	if obs == nil {
		return nil, ErrNilObserver
	}

	metrics, err := NewMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewMiddleware(NewTracer(obs.Tracer()), metrics, obs.Logger()), nil
}

// Logger returns the middleware's logger.
func (m *Middleware) Logger() Logger {
	return m.logger
}

// Lookup records the outcome of a cache lookup.
func (m *Middleware) Lookup(ctx context.Context, meta FetchMeta, hit bool) {
	m.metrics.RecordLookup(ctx, meta, hit)
	if hit {
		m.logger.Debug(ctx, "cache hit", meta.fields()...)
	}
}

// Fetch runs fn inside a span and records its duration and outcome.
// fn reports whether the remote returned a usable value.
func (m *Middleware) Fetch(ctx context.Context, meta FetchMeta, fn func(context.Context) (bool, error)) (bool, error) {
	ctx, span := m.tracer.StartSpan(ctx, meta)

	start := time.Now()
	found, err := fn(ctx)
	duration := time.Since(start)

	m.tracer.EndSpan(span, err)
	m.metrics.RecordFetch(ctx, meta, duration, found, err)

	fields := append(meta.fields(), F("duration_ms", float64(duration.Milliseconds())))
	switch {
	case err != nil:
		m.logger.Error(ctx, "remote fetch failed", append(fields, F("error", err))...)
	case !found:
		m.logger.Warn(ctx, "remote fetch returned no value", fields...)
	default:
		m.logger.Info(ctx, "remote fetch completed", fields...)
	}

	return found, err
}
