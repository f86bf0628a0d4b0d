package cache

import "errors"

// Sentinel errors for cache operations.
var (
	ErrNilStore      = errors.New("cache: store is nil")
	ErrNilClient     = errors.New("cache: client is nil")
	ErrNilFetch      = errors.New("cache: fetch function is nil")
	ErrInvalidKey    = errors.New("cache: key is invalid")
	ErrInvalidTTL    = errors.New("cache: ttl must not be negative")
	ErrValueNotFound = errors.New("cache: value not found")
)

// NotFoundError is returned when a fetch succeeded but produced no usable
// value. It matches ErrValueNotFound with errors.Is.
type NotFoundError struct {
	// Message is the caller supplied description, e.g. "No value found for parameter".
	Message string
	// Key is the cache key that was looked up.
	Key string
}

func (e *NotFoundError) Error() string {
	if e.Message == "" {
		return ErrValueNotFound.Error()
	}
	return e.Message
}

// Is reports whether target is ErrValueNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrValueNotFound
}
