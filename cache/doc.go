// Package cache implements get-or-populate caching in front of remote
// configuration sources.
//
// A [Client] carries the per-resource configuration (region and default TTL)
// and a shared [Store]. [GetAndCache] looks a key up in the store and, on a
// miss, calls a fetch function exactly once, rejects absent results with a
// [*NotFoundError] and stores everything else under the resolved TTL.
//
// Two stores are provided: [MemoryStore], a process-wide expiring map, and
// [RedisStore], which keeps JSON-encoded values in Redis. A TTL of zero means
// the entry never expires.
//
// Stores may be shared between clients of different resources. Keys are not
// namespaced per resource, so two clients that use the same key read each
// other's entries.
package cache
