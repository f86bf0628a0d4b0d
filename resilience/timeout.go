package resilience

import (
	"context"
	"errors"
	"time"
)

// DefaultTimeout bounds an attempt when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// Timeout bounds each call to an operation.
type Timeout struct {
	d time.Duration
}

// NewTimeout creates a Timeout. A non-positive d uses DefaultTimeout.
func NewTimeout(d time.Duration) *Timeout {
	if d <= 0 {
		d = DefaultTimeout
	}
	return &Timeout{d: d}
}

// Execute runs op with a derived deadline. When the deadline passes before op
// returns, ErrTimeout is returned; op keeps running until it observes ctx.
func (t *Timeout) Execute(ctx context.Context, op func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- op(ctx)
	}()

	select {
	case err := <-done:
		if errors.Is(err, context.DeadlineExceeded) && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ErrTimeout
		}
		return err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ErrTimeout
		}
		return ctx.Err()
	}
}

// Duration returns the configured timeout.
func (t *Timeout) Duration() time.Duration {
	return t.d
}
