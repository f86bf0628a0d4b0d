// Package health reports whether the caching stack can serve reads.
//
// A Checker reports one component as Healthy, Degraded or Unhealthy. The
// package ships checkers for the shared cache store, the entry count of an
// in-process store, fetcher circuit breakers and remote fetch probes.
//
// # Basic Usage
//
//	agg := health.NewAggregator()
//	agg.Register("store", health.NewStoreChecker(store, health.StoreCheckerConfig{}))
//	agg.Register("ssm", health.NewProbeChecker("ssm", func(ctx context.Context) error {
//	    _, err := params.GetParameter(ctx, ssmcache.GetParameterRequest{Name: "/health/canary"})
//	    return err
//	}))
//
//	report := agg.Report(ctx)
//	if report.Status == health.StatusUnhealthy {
//	    log.Printf("cache stack unhealthy: %v", report.Checks)
//	}
//
// # HTTP Endpoints
//
//	health.RegisterHandlers(mux, agg) // /healthz, /readyz, /health
package health
