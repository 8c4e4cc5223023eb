// Package cache remembers resolved companion paths between filesystem
// changes. The resolver core stays stateless; the host layer owns this cache
// and flushes it whenever the watcher reports a change.
package cache

import "sync"

// Cache is a flat query→result map guarded by a RWMutex.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]string
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{entries: make(map[string]string)}
}

// Get returns the cached result for a query key.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, ok := c.entries[key]
	return value, ok
}

// Put stores a result for a query key.
func (c *Cache) Put(key string, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

// Flush drops every entry. Called when the watched tree changes.
func (c *Cache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]string)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
