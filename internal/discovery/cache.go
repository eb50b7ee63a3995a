package discovery

import (
	"sync"
	"time"
)

// resultCache memoizes scored result sets by filter signature for a fixed
// TTL. Entries are immutable once written and replaced wholesale on
// recomputation, so a single mutex over the map is sufficient. Expiry is
// checked lazily at read time; there is no background sweeper.
type resultCache[T any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry[T]
}

type cacheEntry[T any] struct {
	results []SearchResult[T]
	written time.Time
}

func newResultCache[T any](ttl time.Duration, now func() time.Time) *resultCache[T] {
	return &resultCache[T]{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]cacheEntry[T]),
	}
}

// get returns the cached results for key, or nil when the key is absent or
// the entry has outlived the TTL. Expired entries are evicted on the spot.
func (c *resultCache[T]) get(key string) []SearchResult[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil
	}
	if c.now().Sub(entry.written) >= c.ttl {
		delete(c.entries, key)
		return nil
	}
	return entry.results
}

// set stores results under key with the current timestamp, replacing any
// previous entry.
func (c *resultCache[T]) set(key string, results []SearchResult[T]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry[T]{results: results, written: c.now()}
}

// clear drops every cached entry.
func (c *resultCache[T]) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry[T])
}
