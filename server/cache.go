package server

import (
	"sync"
	"time"

	"publicsuffix/engine"
)

// CacheEntry represents a cached resolve result.
type CacheEntry struct {
	Result    engine.Result
	ExpiresAt time.Time
}

// TTLCache is a thread-safe result cache with TTL support. Resolving is
// cheap, but IDNA normalization of repeated lookups is not, and cached
// entries outlive an index swap for at most one TTL.
type TTLCache struct {
	items map[string]CacheEntry
	mu    sync.RWMutex
	stop  chan struct{}
}

// NewTTLCache creates a new cache and starts the cleanup goroutine.
func NewTTLCache() *TTLCache {
	c := &TTLCache{
		items: make(map[string]CacheEntry),
		stop:  make(chan struct{}),
	}
	go c.cleanupLoop()
	return c
}

// Set adds a result to the cache with a specific TTL.
func (c *TTLCache) Set(key string, res engine.Result, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = CacheEntry{
		Result:    res,
		ExpiresAt: time.Now().Add(ttl),
	}
}

// Get retrieves a result if it exists and hasn't expired.
func (c *TTLCache) Get(key string) (engine.Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.items[key]
	if !ok || time.Now().After(entry.ExpiresAt) {
		return engine.Result{}, false
	}
	return entry.Result, true
}

// Stop stops the background cleanup goroutine.
func (c *TTLCache) Stop() {
	close(c.stop)
}

func (c *TTLCache) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stop:
			return
		}
	}
}

func (c *TTLCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, entry := range c.items {
		if now.After(entry.ExpiresAt) {
			delete(c.items, key)
		}
	}
}
