package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/ppiankov/liarlens/internal/model"
)

// MemoryCache implements in-memory expiring caching
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates a new memory cache
func NewMemoryCache(defaultTTL time.Duration, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get returns a copy of the cached listing so callers cannot alias the entry
func (c *MemoryCache) Get(key string) ([]model.Choice, bool) {
	val, found := c.cache.Get(key)
	if !found {
		return nil, false
	}
	choices, ok := val.([]model.Choice)
	if !ok {
		return nil, false
	}
	out := make([]model.Choice, len(choices))
	copy(out, choices)
	return out, true
}

// Set stores a copy of value; a zero ttl uses the cache default
func (c *MemoryCache) Set(key string, value []model.Choice, ttl time.Duration) {
	stored := make([]model.Choice, len(value))
	copy(stored, value)
	c.cache.Set(key, stored, ttl)
}

// Delete removes a value from the cache
func (c *MemoryCache) Delete(key string) {
	c.cache.Delete(key)
}

// Clear removes all values from the cache
func (c *MemoryCache) Clear() {
	c.cache.Flush()
}

// ItemCount reports how many listings are cached
func (c *MemoryCache) ItemCount() int {
	return c.cache.ItemCount()
}
