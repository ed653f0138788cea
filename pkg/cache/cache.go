// Package cache provides the generic, thread-safe in-memory result store
// used by the processing engine.
//
// The store has no eviction policy: entries live until explicitly deleted or
// cleared. That unbounded growth is a deliberate property of this core, not
// an oversight; the eviction-callback hook exists so a policy can be layered
// on later without changing callers. Statistics are always collected, and
// can optionally be exported as Prometheus metrics via functional options.
package cache

import (
	"github.com/c360/flowproc/errors"
)

// Cache represents a generic cache interface, parameterized by value type V.
type Cache[V any] interface {
	// Get retrieves a value by key. Returns the value and true if found,
	// zero value and false otherwise.
	Get(key string) (V, bool)

	// Set stores a value under key, overwriting unconditionally.
	// Returns true if a new entry was created.
	Set(key string, value V) (bool, error)

	// Delete removes an entry by key. Returns true if an entry was removed.
	Delete(key string) (bool, error)

	// Clear removes all entries. Subsequent lookups miss; executions already
	// committed to writing their result still write after the clear.
	Clear() error

	// Size returns the current number of entries.
	Size() int

	// Keys returns all keys currently stored.
	Keys() []string

	// Stats returns the always-on statistics tracker.
	Stats() *Statistics

	// Close releases any resources held by the cache.
	Close() error
}

// EvictCallback is invoked with the key and value of every removed entry.
type EvictCallback[V any] func(key string, value V)

// validateKey validates a cache key for basic requirements.
// Keys derive from record id + timestamp, so an empty key means a bug upstream.
func validateKey(key string) error {
	if key == "" {
		return errors.WrapInvalid(errors.ErrEmptyKey, "cache", "validateKey", "check key")
	}
	return nil
}
