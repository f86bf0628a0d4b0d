// Package kmscache caches AWS KMS decrypt results.
//
// The default cache key is the ciphertext itself. Ciphertext is binary, so
// the key is normally hashed by the client keyer; pass an explicit cache key
// to control identity directly.
package kmscache
