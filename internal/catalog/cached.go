package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/b1ack-panther/jikan-journeys/internal/storage"
)

// CachedClient serves detail and character lookups from a TTL cache before
// falling back to the network. Search and Top always hit the network.
type CachedClient struct {
	*Client
	cache  storage.Cache
	ttl    time.Duration
	logger *slog.Logger
}

// NewCached wraps c. A ttl <= 0 disables caching.
func NewCached(c *Client, cache storage.Cache, ttl time.Duration, logger *slog.Logger) *CachedClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedClient{Client: c, cache: cache, ttl: ttl, logger: logger}
}

// GetByID returns a cached detail record when fresh, else fetches and caches it.
func (c *CachedClient) GetByID(ctx context.Context, id int) (AnimeDetail, error) {
	key := "anime:" + strconv.Itoa(id)
	var out AnimeDetail
	if c.lookup(ctx, key, &out) {
		return out, nil
	}
	out, err := c.Client.GetByID(ctx, id)
	if err != nil {
		return AnimeDetail{}, err
	}
	c.store(ctx, key, "detail", out)
	return out, nil
}

// GetCharacters returns cached characters when fresh, else fetches and caches them.
func (c *CachedClient) GetCharacters(ctx context.Context, id int) ([]CharacterRef, error) {
	key := "anime:" + strconv.Itoa(id) + ":characters"
	var out []CharacterRef
	if c.lookup(ctx, key, &out) {
		return out, nil
	}
	out, err := c.Client.GetCharacters(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, "characters", out)
	return out, nil
}

func (c *CachedClient) lookup(ctx context.Context, key string, out any) bool {
	if c.cache == nil || c.ttl <= 0 {
		return false
	}
	entry, err := c.cache.GetCached(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrCacheNotFound) {
			c.logger.Warn("catalog cache read failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal([]byte(entry.ResponseJSON), out); err != nil {
		c.logger.Warn("catalog cache entry unreadable", "key", key, "error", err)
		return false
	}
	return true
}

func (c *CachedClient) store(ctx context.Context, key, source string, v any) {
	if c.cache == nil || c.ttl <= 0 {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	now := time.Now()
	err = c.cache.SetCached(ctx, &storage.CacheEntry{
		CacheKey:        key,
		ResponseJSON:    string(b),
		Source:          source,
		CreatedAtUnixMs: now.UnixMilli(),
		ExpiresAtUnixMs: now.Add(c.ttl).UnixMilli(),
	})
	if err != nil {
		c.logger.Warn("catalog cache write failed", "key", key, "error", err)
	}
}
