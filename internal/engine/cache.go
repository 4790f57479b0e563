// cache.go provides an in-memory cache for processed article bodies.
// This is the L1 cache: it avoids re-running Markdown, the content
// pipeline and card hydration on every request. Bodies are keyed by post
// ID and version, so an update automatically produces a cache miss.
package engine

import (
	"log/slog"
	"sync"
)

// cacheKey uniquely identifies a processed body version.
type cacheKey struct {
	id      string // post UUID as string
	version int
}

// bodyCache is a concurrency-safe in-memory cache of processed bodies.
type bodyCache struct {
	mu      sync.RWMutex
	entries map[cacheKey]string
}

// newBodyCache creates an empty body cache.
func newBodyCache() *bodyCache {
	return &bodyCache{
		entries: make(map[cacheKey]string),
	}
}

// get retrieves a processed body. The bool is false on miss.
func (c *bodyCache) get(id string, version int) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	body, ok := c.entries[cacheKey{id: id, version: version}]
	return body, ok
}

// put stores a processed body, dropping older versions of the same post.
func (c *bodyCache) put(id string, version int, body string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.id == id && k.version != version {
			delete(c.entries, k)
		}
	}
	c.entries[cacheKey{id: id, version: version}] = body
	slog.Debug("article body cached", "id", id, "version", version, "size", len(c.entries))
}

// size returns the number of cached bodies.
func (c *bodyCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
