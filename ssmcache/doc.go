// Package ssmcache caches AWS Systems Manager Parameter Store lookups.
//
// Parameters are fetched with decryption enabled and cached under their name
// unless a request supplies an explicit cache key. Listings by path can be
// cached one page at a time ([Cache.GetParametersByPath]) or walked to the
// end and cached as a single list of values ([Cache.GetAllParametersByPath]).
package ssmcache
