package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// newTestStore opens a fresh database in a temp dir. Close is registered as
// cleanup; tests that close early rely on Close being idempotent.
func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestNewSQLiteStore_NestedPath(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "a", "b", "state.db")
	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("database file missing: %v", err)
	}
	if got := store.Path(); got != dbPath {
		t.Errorf("Path() = %q, want %q", got, dbPath)
	}
}

func TestNewSQLiteStore_RejectsEmptyPath(t *testing.T) {
	t.Parallel()

	if _, err := NewSQLiteStore(""); err == nil {
		t.Fatal("NewSQLiteStore(\"\") succeeded")
	}
}

func TestSQLiteStore_SchemaApplied(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	for _, table := range []string{"schema_meta", "kv", "catalog_cache"} {
		var name string
		err := store.DB().QueryRowContext(ctx,
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}

	v, err := store.SchemaVersion(ctx)
	if err != nil {
		t.Fatalf("SchemaVersion: %v", err)
	}
	if v != len(schema) {
		t.Errorf("SchemaVersion() = %d, want %d", v, len(schema))
	}
}

func TestSQLiteStore_ReopenSkipsAppliedSteps(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "state.db")
	ctx := context.Background()

	first, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := first.Set(ctx, "favorites", "[1,2]"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()

	if got, err := second.Get(ctx, "favorites"); err != nil || got != "[1,2]" {
		t.Errorf("Get() = %q, %v; want [1,2]", got, err)
	}

	var rows int
	if err := second.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_meta`).Scan(&rows); err != nil {
		t.Fatalf("count schema_meta: %v", err)
	}
	if rows != len(schema) {
		t.Errorf("schema_meta has %d rows after reopen, want %d", rows, len(schema))
	}
}

func TestSQLiteStore_UsesWAL(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	var mode string
	if err := store.DB().QueryRow(`PRAGMA journal_mode`).Scan(&mode); err != nil {
		t.Fatalf("PRAGMA journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
}

func TestSQLiteStore_CloseTwice(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	for i := range 2 {
		if err := store.Close(); err != nil {
			t.Fatalf("Close #%d: %v", i+1, err)
		}
	}
}
