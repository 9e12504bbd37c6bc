// Package cache provides translation cache stores.
package cache

// Store is the interface for translation caching.
type Store interface {
	// Get retrieves a cached translation. Returns empty string and
	// false if not found.
	Get(key string) (string, bool)

	// Set stores a translation in the cache.
	Set(key string, value string) error

	// Clear removes all entries.
	Clear()

	// Len returns the number of entries.
	Len() int
}
