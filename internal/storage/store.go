// Package storage provides SQLite-based persistent storage for jikan-journeys.
// It holds small key-value records (favorites, the last shared URL) and a TTL
// cache of catalog responses.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when a key has never been written.
var ErrNotFound = errors.New("key not found")

// KV is a string key-value surface. Writes are synchronous.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Cache stores serialized catalog responses with an expiry.
type Cache interface {
	GetCached(ctx context.Context, key string) (*CacheEntry, error)
	SetCached(ctx context.Context, entry *CacheEntry) error
	PruneExpiredCache(ctx context.Context) (int64, error)
}

// Store is everything the SQLite backend offers.
type Store interface {
	KV
	Cache
	Close() error
}

// CacheEntry is one cached catalog response.
type CacheEntry struct {
	CacheKey        string
	ResponseJSON    string
	Source          string // which endpoint produced the entry, e.g. "detail"
	CreatedAtUnixMs int64
	ExpiresAtUnixMs int64
	HitCount        int64
}

// Compile-time checks.
var (
	_ Store = (*SQLiteStore)(nil)
	_ KV    = (*MemoryKV)(nil)
)
