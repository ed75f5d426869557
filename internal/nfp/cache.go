package nfp

import (
	"sync"
	"sync/atomic"

	"github.com/piwi3910/deepnest-go/internal/geom"
)

// Cache is a concurrent keyed store from Key to a computed NFP (a list of
// polygons). Readers proceed in parallel; writers are exclusive. A miss
// does not block concurrent recomputation of the same key by another
// goroutine — both may compute, and insert is idempotent (last writer
// wins, wasted work is simply discarded).
type Cache struct {
	mu      sync.RWMutex
	entries map[Key][]geom.Polygon

	hits   atomic.Int64
	misses atomic.Int64
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[Key][]geom.Polygon)}
}

// Has is a non-mutating probe that does not affect hit/miss counters.
func (c *Cache) Has(key Key) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[key]
	return ok
}

// Find looks up key, incrementing the hit or miss counter accordingly.
func (c *Cache) Find(key Key) ([]geom.Polygon, bool) {
	c.mu.RLock()
	value, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return value, ok
}

// Insert stores value for key. Idempotent: a concurrent duplicate
// computation for the same key simply overwrites, last writer wins.
func (c *Cache) Insert(key Key, value []geom.Polygon) {
	c.mu.Lock()
	c.entries[key] = value
	c.mu.Unlock()
}

// Clear wipes all entries and resets the hit/miss counters.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[Key][]geom.Polygon)
	c.mu.Unlock()
	c.hits.Store(0)
	c.misses.Store(0)
}

// Size returns the current entry count.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats is a snapshot of cache hit/miss/size counters.
type Stats struct {
	Hits, Misses int64
	Size         int
}

// CacheStats returns a snapshot of the cache's hit/miss/size counters.
func (c *Cache) CacheStats() Stats {
	return Stats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Size:   c.Size(),
	}
}

// HitRate returns hits/(hits+misses), or 0 when no lookups have occurred.
func (c *Cache) HitRate() float64 {
	h := c.hits.Load()
	m := c.misses.Load()
	if h+m == 0 {
		return 0
	}
	return float64(h) / float64(h+m)
}

// ResetStatistics zeroes the hit/miss counters without clearing entries.
func (c *Cache) ResetStatistics() {
	c.hits.Store(0)
	c.misses.Store(0)
}
