package cache

import (
	"context"
	"sync"
	"time"

	"github.com/dermalens/backend/internal/domain"
)

// cacheItem represents a single cached search result with expiration
type cacheItem struct {
	Value      *domain.SearchResult
	Expiration time.Time
}

// MemoryCache is a thread-safe in-memory search result cache with TTL support
type MemoryCache struct {
	data  map[string]cacheItem
	mutex sync.RWMutex
}

// NewMemoryCache creates a new in-memory cache
func NewMemoryCache() *MemoryCache {
	cache := &MemoryCache{
		data: make(map[string]cacheItem),
	}

	// Start cleanup goroutine to remove expired entries every 10 minutes
	go cache.cleanupExpired()

	return cache
}

// Get retrieves a search result from the cache
func (c *MemoryCache) Get(ctx context.Context, key string) (*domain.SearchResult, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[key]
	if !exists {
		return nil, domain.ErrCacheMiss
	}

	// Check if expired
	if time.Now().After(item.Expiration) {
		return nil, domain.ErrCacheMiss
	}

	// Return a shallow copy so callers mutating Source don't affect the
	// cached entry
	result := *item.Value
	return &result, nil
}

// Set stores a search result in the cache with TTL
func (c *MemoryCache) Set(ctx context.Context, key string, value *domain.SearchResult, ttl time.Duration) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	stored := *value
	c.data[key] = cacheItem{
		Value:      &stored,
		Expiration: time.Now().Add(ttl),
	}

	return nil
}

// Delete removes a search result from the cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
	return nil
}

// Exists checks if a key exists in the cache and is not expired
func (c *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[key]
	if !exists {
		return false, nil
	}

	// Check if expired
	if time.Now().After(item.Expiration) {
		return false, nil
	}

	return true, nil
}

// cleanupExpired removes expired entries from the cache periodically
func (c *MemoryCache) cleanupExpired() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mutex.Lock()
		now := time.Now()
		for key, item := range c.data {
			if now.After(item.Expiration) {
				delete(c.data, key)
			}
		}
		c.mutex.Unlock()
	}
}

// Size returns the current number of items in the cache (for debugging/monitoring)
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// Clear removes all items from the cache
func (c *MemoryCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[string]cacheItem)
}
