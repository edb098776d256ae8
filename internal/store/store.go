// Package store provides a small TTL key-value cache with memory and Redis
// backends, used to cache resolved version lookups.
package store

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a key does not exist or has expired.
var ErrNotFound = errors.New("store: key not found")

// Store is the interface for the cache backends.
type Store interface {
	// Set stores a value with an optional TTL. A zero TTL means no expiry.
	Set(key string, value []byte, ttl time.Duration) error

	// Get retrieves a value. Returns ErrNotFound if missing or expired.
	Get(key string) ([]byte, error)

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(key string) error

	// Clear removes all keys.
	Clear() error

	// Close releases backend resources.
	Close() error
}
