package node

import (
	"sync"
	"time"
)

// cache is a process-wide time-bounded response cache keyed by request path.
// Entries are considered stale after their TTL and silently replaced on the
// next fetch. Callers tolerate staleness of this magnitude.
type cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	body    []byte
	expires time.Time
}

func newCache() *cache {
	return &cache{
		entries: make(map[string]cacheEntry),
	}
}

func (c *cache) get(key string, now time.Time) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || now.After(e.expires) {
		return nil, false
	}

	return e.body, true
}

func (c *cache) set(key string, body []byte, ttl time.Duration, now time.Time) {
	if ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Drop anything already stale so the map stays bounded by the working
	// set of endpoints instead of growing with every unique detail URL.
	for k, e := range c.entries {
		if now.After(e.expires) {
			delete(c.entries, k)
		}
	}

	c.entries[key] = cacheEntry{body: body, expires: now.Add(ttl)}
}
