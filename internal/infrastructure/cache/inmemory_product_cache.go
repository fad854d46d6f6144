package cache

import (
	"context"
	"sync"

	"github.com/stocksync/backend/internal/domain/stocksync"
)

// InMemoryProductCache implements stocksync.ProductCache with a plain map.
// Suitable for single-instance deployments without Redis, and for tests.
type InMemoryProductCache struct {
	mu      sync.RWMutex
	entries map[string]stocksync.CachedProduct
}

// NewInMemoryProductCache creates an empty in-memory product cache.
func NewInMemoryProductCache() *InMemoryProductCache {
	return &InMemoryProductCache{
		entries: make(map[string]stocksync.CachedProduct),
	}
}

func cacheKey(siteID, sku string) string {
	return siteID + ":" + sku
}

// Get returns the cached entry, or ok=false on a miss.
func (c *InMemoryProductCache) Get(_ context.Context, siteID string, sku string) (stocksync.CachedProduct, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[cacheKey(siteID, sku)]
	return entry, ok
}

// Put stores or replaces the entry.
func (c *InMemoryProductCache) Put(_ context.Context, siteID string, sku string, product stocksync.CachedProduct) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(siteID, sku)] = product
}

// Invalidate drops the entry.
func (c *InMemoryProductCache) Invalidate(_ context.Context, siteID string, sku string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, cacheKey(siteID, sku))
}

// Ensure InMemoryProductCache implements the ProductCache port
var _ stocksync.ProductCache = (*InMemoryProductCache)(nil)
