package metadata

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/gabriel/bmh/internal/models"
)

const DefaultCacheTTL = 7 * 24 * time.Hour

type CacheStatus string

const (
	CacheFound    CacheStatus = "found"
	CacheNotFound CacheStatus = "not_found"
)

type CacheEntry struct {
	Status    CacheStatus              `json:"status"`
	Data      *models.ExternalMetadata `json:"data,omitempty"`
	Timestamp time.Time                `json:"timestamp"`
}

func (e CacheEntry) Fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.Timestamp) < ttl
}

func CacheKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// MemoryCache is a process-local Cache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]CacheEntry
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: map[string]CacheEntry{}}
}

func memoryKey(provider string, key string) string {
	return provider + "\x00" + key
}

func (c *MemoryCache) Get(_ context.Context, provider string, key string) (*CacheEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[memoryKey(provider, key)]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

func (c *MemoryCache) Put(_ context.Context, provider string, key string, entry CacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[memoryKey(provider, key)] = entry
	return nil
}

func (c *MemoryCache) DeleteExpired(_ context.Context, provider string, olderThan time.Time) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var removed int64
	prefix := provider + "\x00"
	for key, entry := range c.entries {
		if strings.HasPrefix(key, prefix) && entry.Timestamp.Before(olderThan) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed, nil
}
