package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrCacheNotFound is returned for keys that are absent or expired.
var ErrCacheNotFound = errors.New("cache entry not found")

// DefaultCacheTTL applies when an entry carries no expiry.
const DefaultCacheTTL = time.Hour

func (e *CacheEntry) validate() error {
	switch {
	case e == nil:
		return errors.New("cache entry cannot be nil")
	case e.CacheKey == "":
		return errors.New("cache_key is required")
	case e.ResponseJSON == "":
		return errors.New("response_json is required")
	case e.Source == "":
		return errors.New("source is required")
	}
	return nil
}

// GetCached returns the live entry for key and counts the hit. The returned
// HitCount includes this read.
func (s *SQLiteStore) GetCached(ctx context.Context, key string) (*CacheEntry, error) {
	if key == "" {
		return nil, errors.New("cache key is required")
	}

	e := CacheEntry{CacheKey: key}
	err := s.db.QueryRowContext(ctx, `
		UPDATE catalog_cache SET hit_count = hit_count + 1
		WHERE cache_key = ? AND expires_at_unix_ms > ?
		RETURNING response_json, source, created_at_unix_ms, expires_at_unix_ms, hit_count
	`, key, time.Now().UnixMilli()).Scan(
		&e.ResponseJSON, &e.Source, &e.CreatedAtUnixMs, &e.ExpiresAtUnixMs, &e.HitCount)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, ErrCacheNotFound
	case err != nil:
		return nil, fmt.Errorf("read cache %q: %w", key, err)
	}
	return &e, nil
}

// SetCached upserts entry. Zero timestamps are filled in place: created
// defaults to now and expiry to created+DefaultCacheTTL.
func (s *SQLiteStore) SetCached(ctx context.Context, entry *CacheEntry) error {
	if err := entry.validate(); err != nil {
		return err
	}
	if entry.CreatedAtUnixMs == 0 {
		entry.CreatedAtUnixMs = time.Now().UnixMilli()
	}
	if entry.ExpiresAtUnixMs == 0 {
		entry.ExpiresAtUnixMs = entry.CreatedAtUnixMs + DefaultCacheTTL.Milliseconds()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO catalog_cache
			(cache_key, response_json, source, created_at_unix_ms, expires_at_unix_ms, hit_count)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET
			response_json = excluded.response_json,
			source = excluded.source,
			created_at_unix_ms = excluded.created_at_unix_ms,
			expires_at_unix_ms = excluded.expires_at_unix_ms,
			hit_count = excluded.hit_count
	`, entry.CacheKey, entry.ResponseJSON, entry.Source,
		entry.CreatedAtUnixMs, entry.ExpiresAtUnixMs, entry.HitCount)
	if err != nil {
		return fmt.Errorf("write cache %q: %w", entry.CacheKey, err)
	}
	return nil
}

// PruneExpiredCache deletes expired entries and reports how many went.
func (s *SQLiteStore) PruneExpiredCache(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM catalog_cache WHERE expires_at_unix_ms <= ?`, time.Now().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("prune cache: %w", err)
	}
	return res.RowsAffected()
}
