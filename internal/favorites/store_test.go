package favorites

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b1ack-panther/jikan-journeys/internal/storage"
)

// failingKV reads from an inner KV and fails writes on demand.
type failingKV struct {
	storage.KV
	getErr   error
	setErr   error
	setCalls int
}

func (f *failingKV) Get(ctx context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	return f.KV.Get(ctx, key)
}

func (f *failingKV) Set(ctx context.Context, key, value string) error {
	f.setCalls++
	if f.setErr != nil {
		return f.setErr
	}
	return f.KV.Set(ctx, key, value)
}

func TestLoad_MissingKeyIsEmpty(t *testing.T) {
	s := Load(context.Background(), storage.NewMemoryKV(), nil)
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.List())
}

func TestLoad_MalformedIsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	require.NoError(t, kv.Set(ctx, StorageKey, `{"not":"a list"`))

	s := Load(ctx, kv, nil)
	assert.Equal(t, 0, s.Len())
}

func TestLoad_ReadErrorIsEmpty(t *testing.T) {
	kv := &failingKV{KV: storage.NewMemoryKV(), getErr: errors.New("io")}
	s := Load(context.Background(), kv, nil)
	assert.Equal(t, 0, s.Len())
}

func TestLoad_DropsDuplicatesAndInvalidIDs(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	require.NoError(t, kv.Set(ctx, StorageKey, `[5, 1, 5, -2, 0, 9]`))

	s := Load(ctx, kv, nil)
	assert.Equal(t, []int{5, 1, 9}, s.List())
}

func TestToggle_AddRemovePersists(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	s := Load(ctx, kv, nil)

	added, err := s.Toggle(ctx, 21)
	require.NoError(t, err)
	assert.True(t, added)
	assert.True(t, s.Contains(21))

	raw, err := kv.Get(ctx, StorageKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[21]`, raw)

	added, err = s.Toggle(ctx, 21)
	require.NoError(t, err)
	assert.False(t, added)
	assert.False(t, s.Contains(21))

	raw, err = kv.Get(ctx, StorageKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, raw)
}

func TestToggle_TwiceRestoresMembership(t *testing.T) {
	ctx := context.Background()
	s := Load(ctx, storage.NewMemoryKV(), nil)
	_, _ = s.Toggle(ctx, 1)
	_, _ = s.Toggle(ctx, 2)

	before := s.List()
	_, _ = s.Toggle(ctx, 3)
	_, _ = s.Toggle(ctx, 3)
	assert.Equal(t, before, s.List())
}

func TestToggle_KeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := Load(ctx, storage.NewMemoryKV(), nil)
	for _, id := range []int{30, 10, 20} {
		_, err := s.Toggle(ctx, id)
		require.NoError(t, err)
	}
	_, _ = s.Toggle(ctx, 10)
	assert.Equal(t, []int{30, 20}, s.List())
}

func TestToggle_PersistFailureKeepsMemoryChange(t *testing.T) {
	ctx := context.Background()
	kv := &failingKV{KV: storage.NewMemoryKV(), setErr: errors.New("disk full")}
	s := Load(ctx, kv, nil)

	added, err := s.Toggle(ctx, 7)
	assert.True(t, added)
	assert.True(t, s.Contains(7))

	var sErr *StorageError
	require.ErrorAs(t, err, &sErr)
	assert.Equal(t, "toggle", sErr.Op)
	assert.EqualError(t, errors.Unwrap(err), "disk full")
	assert.Equal(t, 1, kv.setCalls)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	s := Load(ctx, kv, nil)
	_, _ = s.Toggle(ctx, 1)
	_, _ = s.Toggle(ctx, 2)

	require.NoError(t, s.Clear(ctx))
	assert.Equal(t, 0, s.Len())

	reloaded := Load(ctx, kv, nil)
	assert.Equal(t, 0, reloaded.Len())
}

func TestReloadFromSQLite(t *testing.T) {
	ctx := context.Background()
	db, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	defer db.Close()

	s := Load(ctx, db, nil)
	_, err = s.Toggle(ctx, 5114)
	require.NoError(t, err)
	_, err = s.Toggle(ctx, 9253)
	require.NoError(t, err)

	reloaded := Load(ctx, db, nil)
	assert.Equal(t, []int{5114, 9253}, reloaded.List())
}
