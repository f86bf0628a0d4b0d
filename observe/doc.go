// Package observe provides observability primitives for cache lookups and
// remote fetches.
//
// It is a pure instrumentation library: no caching, no transport, no I/O
// beyond exporter setup. Consumers attach a Middleware to a cache.Client so
// that every lookup and every remote fetch is traced, counted and logged.
//
// Cached values are never passed to this package. Field keys that commonly
// carry secrets are redacted before they reach the log sink.
package observe
