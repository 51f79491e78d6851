package cache

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// LRUCache keeps entries in memory. Entries share one TTL, so the ttl passed
// to Set is ignored; SetTTL swaps in a fresh LRU with the new TTL.
type LRUCache struct {
	mu   sync.RWMutex
	lru  *expirable.LRU[string, []byte]
	size int
	ttl  time.Duration
}

func NewLRUCache(size int, ttl time.Duration) *LRUCache {
	if size <= 0 {
		size = 128
	}
	return &LRUCache{
		lru:  expirable.NewLRU[string, []byte](size, nil, ttl),
		size: size,
		ttl:  ttl,
	}
}

// SetTTL drops the cached entries when the TTL changes.
func (c *LRUCache) SetTTL(ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ttl == c.ttl {
		return
	}
	c.lru = expirable.NewLRU[string, []byte](c.size, nil, ttl)
	c.ttl = ttl
}

func (c *LRUCache) TTL() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ttl
}

func (c *LRUCache) current() *expirable.LRU[string, []byte] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lru
}

func (c *LRUCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := c.current().Get(key)
	return v, ok, nil
}

func (c *LRUCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.current().Add(key, value)
	return nil
}

func (c *LRUCache) Delete(_ context.Context, keys ...string) error {
	lru := c.current()
	for _, k := range keys {
		lru.Remove(k)
	}
	return nil
}
