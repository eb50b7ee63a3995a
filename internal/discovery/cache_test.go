package discovery

import (
	"testing"
	"time"
)

// fakeClock is a manually advanced clock for cache expiry tests.
type fakeClock struct {
	current time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{current: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time {
	return c.current
}

func (c *fakeClock) advance(d time.Duration) {
	c.current = c.current.Add(d)
}

func TestResultCacheHit(t *testing.T) {
	clock := newFakeClock()
	cache := newResultCache[Circle](5*time.Minute, clock.now)

	results := []SearchResult[Circle]{{Item: Circle{ID: "c1"}, Score: 42}}
	cache.set("k", results)

	got := cache.get("k")
	if len(got) != 1 || got[0].Item.ID != "c1" {
		t.Fatalf("get returned %v, want the stored results", got)
	}
}

func TestResultCacheMissOnUnknownKey(t *testing.T) {
	cache := newResultCache[Circle](5*time.Minute, newFakeClock().now)
	if got := cache.get("absent"); got != nil {
		t.Errorf("get = %v, want nil", got)
	}
}

func TestResultCacheExpiry(t *testing.T) {
	clock := newFakeClock()
	cache := newResultCache[Circle](5*time.Minute, clock.now)
	cache.set("k", []SearchResult[Circle]{{Item: Circle{ID: "c1"}}})

	clock.advance(5*time.Minute - time.Second)
	if cache.get("k") == nil {
		t.Fatal("entry expired before the TTL elapsed")
	}

	clock.advance(time.Second)
	if got := cache.get("k"); got != nil {
		t.Fatalf("get = %v, want nil after the TTL", got)
	}
}

func TestResultCacheEmptyResultsAreCached(t *testing.T) {
	clock := newFakeClock()
	cache := newResultCache[Circle](5*time.Minute, clock.now)

	cache.set("k", []SearchResult[Circle]{})
	if got := cache.get("k"); got == nil {
		t.Error("empty result set was not cached")
	}
}

func TestResultCacheSetReplaces(t *testing.T) {
	clock := newFakeClock()
	cache := newResultCache[Circle](5*time.Minute, clock.now)

	cache.set("k", []SearchResult[Circle]{{Item: Circle{ID: "old"}}})
	clock.advance(4 * time.Minute)
	cache.set("k", []SearchResult[Circle]{{Item: Circle{ID: "new"}}})

	// The rewrite refreshed the timestamp, so the entry survives past the
	// original write's expiry.
	clock.advance(4 * time.Minute)
	got := cache.get("k")
	if len(got) != 1 || got[0].Item.ID != "new" {
		t.Fatalf("get = %v, want the replacement entry", got)
	}
}

func TestResultCacheClear(t *testing.T) {
	cache := newResultCache[Circle](5*time.Minute, newFakeClock().now)
	cache.set("a", []SearchResult[Circle]{{Item: Circle{ID: "c1"}}})
	cache.set("b", []SearchResult[Circle]{{Item: Circle{ID: "c2"}}})

	cache.clear()

	if cache.get("a") != nil || cache.get("b") != nil {
		t.Error("entries survived clear")
	}
}
