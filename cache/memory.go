package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryConfig configures a MemoryCache.
type MemoryConfig struct {
	// MaxEntries bounds the number of documents held. When full, the entry
	// closest to expiry is evicted.
	// Default: 0 (unbounded)
	MaxEntries int
}

// MemoryCache is an in-memory cache implementation.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	config  MemoryConfig
	now     func() time.Time
}

type cacheEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryCache creates a new in-memory cache.
func NewMemoryCache(config MemoryConfig) *MemoryCache {
	if config.MaxEntries < 0 {
		config.MaxEntries = 0
	}
	return &MemoryCache{
		entries: make(map[string]*cacheEntry),
		config:  config,
		now:     time.Now,
	}
}

// Get retrieves a document. Returns (nil, false) on miss, expiry or an invalid key.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	if ValidateKey(key) != nil {
		return nil, false
	}

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		if cur, still := c.entries[key]; still && cur == entry {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	return clone(entry.value), true
}

// Set stores a document with the given TTL. TTL<=0 means no caching and
// drops any existing entry for key.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if ttl <= 0 {
		delete(c.entries, key)
		return nil
	}

	if _, exists := c.entries[key]; !exists && c.config.MaxEntries > 0 && len(c.entries) >= c.config.MaxEntries {
		c.evictLocked()
	}

	c.entries[key] = &cacheEntry{
		value:     clone(value),
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

// Delete removes a document. Idempotent - no error on miss.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

// Len returns the number of entries, including expired ones not yet collected.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// evictLocked drops expired entries, or the one expiring soonest if none are.
func (c *MemoryCache) evictLocked() {
	now := c.now()
	var (
		victim string
		oldest time.Time
	)
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
			continue
		}
		if victim == "" || e.expiresAt.Before(oldest) {
			victim, oldest = k, e.expiresAt
		}
	}
	if len(c.entries) >= c.config.MaxEntries && victim != "" {
		delete(c.entries, victim)
	}
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// Ensure MemoryCache implements Cache
var _ Cache = (*MemoryCache)(nil)
