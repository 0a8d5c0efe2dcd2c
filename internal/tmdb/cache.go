package tmdb

import (
	"sync"
	"time"
)

type cacheEntry struct {
	cert    string
	fetched time.Time
}

// cache holds certification lookups keyed by kind:title:year. Ratings do not
// change between runs, so a long TTL is safe.
type cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
}

func newCache(ttl time.Duration) *cache {
	return &cache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
	}
}

func (c *cache) get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || time.Since(entry.fetched) > c.ttl {
		return "", false
	}
	return entry.cert, true
}

func (c *cache) set(key, cert string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{cert: cert, fetched: time.Now()}
}
