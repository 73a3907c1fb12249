// Package favorites keeps the user's set of favorite anime ids and persists
// it through a key-value store.
package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	jlog "github.com/b1ack-panther/jikan-journeys/internal/log"
	"github.com/b1ack-panther/jikan-journeys/internal/storage"
)

// StorageKey is the key the set is persisted under.
const StorageKey = "favorites"

// StorageError reports a failed write. The in-memory set has already been
// updated when it is returned.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("favorites: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Store is an ordered set of anime ids. It is loaded once and written back in
// full after every mutation.
type Store struct {
	mu     sync.Mutex
	ids    []int
	kv     storage.KV
	logger *slog.Logger
}

// Load reads the persisted set. It never fails: a missing key, a read error
// or malformed content all yield an empty set.
func Load(ctx context.Context, kv storage.KV, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{kv: kv, logger: logger}

	raw, err := kv.Get(ctx, StorageKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			jlog.LogStorageError(logger, "favorites.load", err)
		}
		return s
	}

	var ids []int
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		logger.Warn("favorites entry malformed, starting empty", "error", err)
		return s
	}

	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if id <= 0 || seen[id] {
			continue
		}
		seen[id] = true
		s.ids = append(s.ids, id)
	}
	return s
}

// Contains reports whether id is a favorite.
func (s *Store) Contains(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Contains(s.ids, id)
}

// List returns the favorites in the order they were added.
func (s *Store) List() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.ids)
}

// Len returns the number of favorites.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// Toggle adds id when absent and removes it when present, then persists the
// whole set. added reports the new membership.
func (s *Store) Toggle(ctx context.Context, id int) (added bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := slices.Index(s.ids, id); i >= 0 {
		s.ids = slices.Delete(s.ids, i, i+1)
	} else {
		s.ids = append(s.ids, id)
		added = true
	}
	return added, s.persistLocked(ctx, "toggle")
}

// Clear removes every favorite.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ids = nil
	return s.persistLocked(ctx, "clear")
}

func (s *Store) persistLocked(ctx context.Context, op string) error {
	ids := s.ids
	if ids == nil {
		ids = []int{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return &StorageError{Op: op, Err: err}
	}
	if err := s.kv.Set(ctx, StorageKey, string(b)); err != nil {
		jlog.LogStorageError(s.logger, "favorites."+op, err)
		return &StorageError{Op: op, Err: err}
	}
	return nil
}
