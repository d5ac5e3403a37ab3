package rowangate

import (
	"fmt"
	"hash/fnv"
	"sync"
	"time"
)

// InMemoryCache is a mutex-guarded in-memory cache implementation. Entries
// with a zero ExpiresAt live for the life of the process; expired entries are
// removed lazily on lookup.
type InMemoryCache struct {
	mu    sync.Mutex
	store map[string]*CacheEntry
}

// NewInMemoryCache creates an empty in-memory cache.
func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{
		store: make(map[string]*CacheEntry),
	}
}

// Get retrieves a cached entry. Expired entries are deleted and reported as
// misses.
func (c *InMemoryCache) Get(key string) (*CacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.store[key]
	if !exists {
		return nil, false
	}

	if !entry.ExpiresAt.IsZero() && time.Now().After(entry.ExpiresAt) {
		delete(c.store, key)
		return nil, false
	}

	return entry, true
}

// Set stores an entry, overwriting any previous value for the key. A ttl of
// zero means the entry never expires.
func (c *InMemoryCache) Set(key string, entry *CacheEntry, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ttl > 0 {
		entry.ExpiresAt = time.Now().Add(ttl)
	}
	c.store[key] = entry
}

// Delete removes an entry.
func (c *InMemoryCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.store, key)
}

// Clear removes all entries.
func (c *InMemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store = make(map[string]*CacheEntry)
}

// Len returns the number of stored entries, counting expired but not yet
// collected ones.
func (c *InMemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.store)
}

// DefaultCacheKeyFunc hashes the request's semantic fields into a canonical
// key. Fields are separated by NUL bytes so distinct field splits cannot
// collide.
func DefaultCacheKeyFunc(req Request) string {
	h := fnv.New64a()
	h.Write([]byte(req.Message))
	h.Write([]byte{0})
	h.Write([]byte(req.ContextType))
	h.Write([]byte{0})
	h.Write([]byte(req.Source))
	return fmt.Sprintf("%x", h.Sum64())
}
