// Package cache provides an explicit, caller-owned snapshot cache. Loads
// for the same key are collapsed so concurrent callers share one
// computation, and invalidation is an explicit Clear rather than a hidden
// process-wide reset.
package cache

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache memoizes values by key. The zero value is not usable; construct
// with New.
type Cache[T any] struct {
	mu      sync.RWMutex
	entries map[string]T
	group   singleflight.Group
}

// New creates an empty cache
func New[T any]() *Cache[T] {
	return &Cache[T]{entries: make(map[string]T)}
}

// GetOrLoad returns the cached value for key, invoking load on a miss.
// Concurrent callers for the same key share a single load; the loaded
// value is cached only on success.
func (c *Cache[T]) GetOrLoad(ctx context.Context, key string, load func(ctx context.Context) (T, error)) (T, error) {
	c.mu.RLock()
	v, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return v, nil
	}

	result, err, _ := c.group.Do(key, func() (interface{}, error) {
		// Re-check under the group: a concurrent load may have filled the
		// entry between the read above and this call.
		c.mu.RLock()
		v, ok := c.entries[key]
		c.mu.RUnlock()
		if ok {
			return v, nil
		}

		loaded, err := load(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[key] = loaded
		c.mu.Unlock()
		return loaded, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}

// Get returns the cached value without loading
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

// Clear removes the entry for key, forcing the next GetOrLoad to recompute
func (c *Cache[T]) Clear(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Len returns the number of cached entries
func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
