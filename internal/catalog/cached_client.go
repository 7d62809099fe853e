package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"tunebridge/internal/cache"
	"tunebridge/internal/models"
)

// Search results are stable enough to cache aggressively; song matching
// fans out many near-identical queries during a conversion.
const searchCacheTTL = 2 * time.Hour

// cachedClient decorates a Client with a read-through cache on Search.
// Playlist writes always go straight to the catalog.
type cachedClient struct {
	Client
	cache cache.Cache
}

// NewCachedClient wraps a catalog client with a search-result cache
func NewCachedClient(inner Client, c cache.Cache) Client {
	return &cachedClient{Client: inner, cache: c}
}

// Search returns cached results when available, falling back to the catalog
func (c *cachedClient) Search(ctx context.Context, query string, limit int) ([]*models.Song, error) {
	key := fmt.Sprintf("search:%s:%s:limit:%d", c.CatalogName(), query, limit)

	if cached, err := c.cache.Get(ctx, key); err == nil && cached != nil {
		var songs []*models.Song
		if err := json.Unmarshal(cached, &songs); err == nil {
			return songs, nil
		}
	}

	songs, err := c.Client.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(songs); err == nil {
		if err := c.cache.Set(ctx, key, data, searchCacheTTL); err != nil {
			slog.Warn("Failed to cache search results",
				"catalog", c.CatalogName(),
				"query", query,
				"error", err)
		}
	}

	return songs, nil
}
