package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/b1ack-panther/jikan-journeys/internal/catalog"
	"github.com/b1ack-panther/jikan-journeys/internal/config"
	"github.com/b1ack-panther/jikan-journeys/internal/favorites"
	jlog "github.com/b1ack-panther/jikan-journeys/internal/log"
	"github.com/b1ack-panther/jikan-journeys/internal/storage"
)

// app holds the collaborators shared by every command.
type app struct {
	cfg    *config.Config
	paths  *config.Paths
	logger *slog.Logger

	store storage.Store // nil when the database could not be opened
	kv    storage.KV

	catalog *catalog.CachedClient
	favs    *favorites.Store

	closeLog func() error
}

// openApp loads configuration and opens storage. A database that cannot be
// opened degrades to in-memory state so the catalog stays usable.
func openApp(ctx context.Context) (*app, error) {
	paths := config.DefaultPaths()
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	logger, closeLog := jlog.NewFile(cfg.LogPath(paths), jlog.ParseLevel(cfg.Log.Level))
	a := &app{
		cfg:      cfg,
		paths:    paths,
		logger:   logger,
		closeLog: closeLog,
	}

	schema := 0
	dbPath := cfg.DBPath(paths)
	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		jlog.LogStorageError(logger, "open", err)
		a.kv = storage.NewMemoryKV()
	} else {
		a.store = store
		a.kv = store
		if v, err := store.SchemaVersion(ctx); err == nil {
			schema = v
		}
	}

	client := catalog.New(catalog.Options{
		BaseURL:   cfg.Catalog.BaseURL,
		PageSize:  cfg.Catalog.PageSize,
		Timeout:   cfg.RequestTimeout(),
		RateLimit: cfg.Catalog.RateLimitRPS,
		RateBurst: cfg.Catalog.RateLimitBurst,
	})
	var cache storage.Cache
	if a.store != nil {
		cache = a.store
	}
	a.catalog = catalog.NewCached(client, cache, cfg.CacheTTL(), logger)
	a.favs = favorites.Load(ctx, a.kv, logger)

	jlog.LogStartup(logger, jlog.StartupInfo{
		Version:       resolvedVersion(),
		ConfigPath:    paths.ConfigFile(),
		DatabasePath:  dbPath,
		SchemaVersion: schema,
		APIBaseURL:    cfg.Catalog.BaseURL,
		PID:           os.Getpid(),
	})
	return a, nil
}

// Close prunes expired cache entries and releases storage and the log file.
func (a *app) Close() {
	if a.store != nil {
		if n, err := a.store.PruneExpiredCache(context.Background()); err != nil {
			jlog.LogStorageError(a.logger, "cache.prune", err)
		} else if n > 0 {
			a.logger.Debug("pruned cache entries", "count", n)
		}
		if err := a.store.Close(); err != nil {
			jlog.LogStorageError(a.logger, "close", err)
		}
	}
	if a.closeLog != nil {
		_ = a.closeLog()
	}
}

// commandContext returns the command's context, or Background when the
// command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
