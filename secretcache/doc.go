// Package secretcache caches AWS Secrets Manager secret strings.
//
// Secrets are cached under their identifier unless a request supplies an
// explicit cache key. Only SecretString is returned; a secret that has no
// string value is reported as not found.
package secretcache
