package cache

import (
	"context"
	"sync"
	"time"
)

// memoryCache is an in-process Cache used for local development and tests
type memoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

// NewMemoryCache creates an in-memory cache with per-key TTLs
func NewMemoryCache() Cache {
	return &memoryCache{
		entries: make(map[string]memoryEntry),
	}
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		return nil, nil
	}

	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, nil
	}

	return entry.value, nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	entry := memoryEntry{value: value}
	if expiration > 0 {
		entry.expiresAt = time.Now().Add(expiration)
	}

	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

func (c *memoryCache) Exists(ctx context.Context, key string) (bool, error) {
	value, err := c.Get(ctx, key)
	if err != nil {
		return false, err
	}
	return value != nil, nil
}

func (c *memoryCache) Close() error {
	c.mu.Lock()
	c.entries = make(map[string]memoryEntry)
	c.mu.Unlock()
	return nil
}

func (c *memoryCache) Health(ctx context.Context) error {
	return nil
}
