package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache keeps documents in process memory with expiry
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates a new memory cache
func NewMemoryCache(defaultTTL time.Duration, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get returns a copy of the cached document
func (c *MemoryCache) Get(key string) (*Document, bool) {
	val, found := c.cache.Get(key)
	if !found {
		return nil, false
	}
	doc, ok := val.(*Document)
	if !ok {
		return nil, false
	}
	clone := *doc
	return &clone, true
}

// Set stores a copy of doc
func (c *MemoryCache) Set(key string, doc *Document, ttl time.Duration) error {
	if ttl == 0 {
		ttl = gocache.DefaultExpiration
	}
	clone := *doc
	c.cache.Set(key, &clone, ttl)
	return nil
}

// Delete removes a document
func (c *MemoryCache) Delete(key string) error {
	c.cache.Delete(key)
	return nil
}

// Clear removes every document
func (c *MemoryCache) Clear() error {
	c.cache.Flush()
	return nil
}
