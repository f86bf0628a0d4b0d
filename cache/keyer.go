package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"
)

// HashedKeyPrefix marks keys the DefaultKeyer replaced with a digest.
const HashedKeyPrefix = "sha256:"

// Keyer turns a derived key (parameter name, secret id, ciphertext) into the
// string used in the store. Explicit cache keys bypass the Keyer.
//
// Contract:
// - Determinism: the same input always yields the same key.
// - Concurrency: implementations must be safe for concurrent use.
// - The empty string maps to the empty string.
type Keyer interface {
	Key(raw string) string
}

// DefaultKeyer keeps short printable keys verbatim and hashes the rest.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a new default keyer.
func NewDefaultKeyer() *DefaultKeyer {
	return &DefaultKeyer{}
}

// Key returns raw unchanged unless it is longer than MaxKeyLength or contains
// control characters, in which case it returns "sha256:" followed by the hex
// digest of raw.
func (k *DefaultKeyer) Key(raw string) string {
	if len(raw) <= MaxKeyLength && !strings.ContainsFunc(raw, unicode.IsControl) {
		return raw
	}
	sum := sha256.Sum256([]byte(raw))
	return HashedKeyPrefix + hex.EncodeToString(sum[:])
}

var _ Keyer = (*DefaultKeyer)(nil)
