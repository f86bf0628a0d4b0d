package cache

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultCleanupInterval is how often the default store purges expired entries.
const DefaultCleanupInterval = time.Minute

// MemoryStore is an in-process Store backed by go-cache.
type MemoryStore struct {
	items *gocache.Cache
}

// NewMemoryStore creates an empty store. A cleanupInterval <= 0 disables the
// background janitor; expired entries are still hidden from Get.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	return &MemoryStore{
		items: gocache.New(gocache.NoExpiration, cleanupInterval),
	}
}

var defaultStore = sync.OnceValue(func() *MemoryStore {
	return NewMemoryStore(DefaultCleanupInterval)
})

// DefaultStore returns the process-wide store used by clients that are not
// given one explicitly.
func DefaultStore() *MemoryStore {
	return defaultStore()
}

// Get retrieves a value. Returns (nil, false) on miss or expiry.
func (s *MemoryStore) Get(_ context.Context, key string) (any, bool) {
	return s.items.Get(key)
}

// Set stores value for ttl. A ttl of 0 keeps the entry until it is deleted.
func (s *MemoryStore) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	if ttl < 0 {
		return ErrInvalidTTL
	}
	if ttl == 0 {
		ttl = gocache.NoExpiration
	}
	s.items.Set(key, value, ttl)
	return nil
}

// Delete removes a value. Idempotent - no error on miss.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.items.Delete(key)
	return nil
}

// Flush removes every entry.
func (s *MemoryStore) Flush() {
	s.items.Flush()
}

// Len returns the number of entries, including expired ones not yet purged.
func (s *MemoryStore) Len() int {
	return s.items.ItemCount()
}

var _ Store = (*MemoryStore)(nil)
