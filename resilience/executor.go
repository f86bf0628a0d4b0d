package resilience

import (
	"context"
	"sync"
	"time"
)

// Executor composes a circuit breaker, retry and per-attempt timeout.
type Executor struct {
	circuitBreaker *CircuitBreaker
	retry          *Retry
	timeout        *Timeout
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// NewExecutor creates an executor. With no options it runs operations directly.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithCircuitBreaker adds a circuit breaker.
func WithCircuitBreaker(cb *CircuitBreaker) ExecutorOption {
	return func(e *Executor) {
		e.circuitBreaker = cb
	}
}

// WithRetry adds retries.
func WithRetry(r *Retry) ExecutorOption {
	return func(e *Executor) {
		e.retry = r
	}
}

// WithTimeout bounds every attempt by d.
func WithTimeout(d time.Duration) ExecutorOption {
	return func(e *Executor) {
		e.timeout = NewTimeout(d)
	}
}

// Execute runs op through the configured patterns. The order, outermost
// first, is circuit breaker, retry, timeout, so a rejected call is never
// retried and each attempt gets its own deadline.
func (e *Executor) Execute(ctx context.Context, op func(context.Context) error) error {
	execute := op

	if e.timeout != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.timeout.Execute(ctx, inner)
		}
	}

	if e.retry != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.retry.Execute(ctx, inner)
		}
	}

	if e.circuitBreaker != nil {
		inner := execute
		execute = func(ctx context.Context) error {
			return e.circuitBreaker.Execute(ctx, inner)
		}
	}

	return execute(ctx)
}

// Run executes op through e and returns its result. A nil executor calls op
// directly.
func Run[T any](ctx context.Context, e *Executor, op func(context.Context) (T, error)) (T, error) {
	if e == nil {
		return op(ctx)
	}

	// Attempts run one after another, so the attempt that succeeds is the
	// latest one started. An attempt abandoned by the timeout may still finish
	// later; its result is dropped once a newer attempt has begun.
	var (
		mu     sync.Mutex
		latest uint64
		out    T
	)
	err := e.Execute(ctx, func(ctx context.Context) error {
		mu.Lock()
		latest++
		attempt := latest
		mu.Unlock()

		v, err := op(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		if attempt == latest {
			out = v
		}
		mu.Unlock()
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	mu.Lock()
	defer mu.Unlock()
	return out, nil
}
