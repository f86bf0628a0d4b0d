// Package resilience provides opt-in resilience patterns for remote fetches.
//
// The cache layer itself never retries: errors from a fetch reach the caller
// unmodified. Fetchers that talk to AWS can instead be given an [Executor],
// which composes these patterns around each SDK call:
//
//   - Circuit Breaker: stops calling a backend after repeated failures. Built
//     on github.com/sony/gobreaker.
//
//   - Retry: retries throttling errors with exponential, linear or constant
//     backoff. AWS errors are classified by their smithy error code.
//
//   - Timeout: bounds each attempt.
//
// # Usage
//
//	executor := resilience.NewExecutor(
//	    resilience.WithCircuitBreaker(resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
//	        Name: "ssm",
//	    })),
//	    resilience.WithRetry(resilience.NewRetry(resilience.RetryConfig{
//	        MaxAttempts:  5,
//	        InitialDelay: 100 * time.Millisecond,
//	        Jitter:       true,
//	    })),
//	    resilience.WithTimeout(5*time.Second),
//	)
//
//	out, err := resilience.Run(ctx, executor, func(ctx context.Context) (*ssm.GetParameterOutput, error) {
//	    return client.GetParameter(ctx, input)
//	})
package resilience
