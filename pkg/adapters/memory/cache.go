package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/textkit/pkg/domain"
	"github.com/golang/groupcache/lru"
)

// DefaultCacheSize bounds the entries kept by NewCache(0).
const DefaultCacheSize = 1024

type entry struct {
	value   string
	expires time.Time
}

// Cache implements ports.ResultCache in memory with LRU eviction and
// per-entry TTL. Safe for concurrent use.
type Cache struct {
	mu  sync.Mutex
	lru *lru.Cache
	now func() time.Time
}

// NewCache creates a cache holding at most size entries.
func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &Cache{
		lru: lru.New(size),
		now: time.Now,
	}
}

// Get returns the cached value, or domain.ErrCacheMiss.
func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.lru.Get(key)
	if !ok {
		return "", domain.ErrCacheMiss
	}
	e := v.(entry)
	if !e.expires.IsZero() && !c.now().Before(e.expires) {
		c.lru.Remove(key)
		return "", domain.ErrCacheMiss
	}
	return e.value, nil
}

// Set stores value. A ttl of zero keeps it until evicted.
func (c *Cache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	e := entry{value: value}
	if ttl > 0 {
		e.expires = c.now().Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(key, e)
	return nil
}

// Delete removes the key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Remove(key)
	return nil
}

// Len reports the number of entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
