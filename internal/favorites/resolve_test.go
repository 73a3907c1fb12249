package favorites

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b1ack-panther/jikan-journeys/internal/catalog"
)

type mapFetcher struct {
	mu    sync.Mutex
	calls []int
	fail  map[int]error
}

func (m *mapFetcher) GetByID(ctx context.Context, id int) (catalog.AnimeDetail, error) {
	m.mu.Lock()
	m.calls = append(m.calls, id)
	m.mu.Unlock()
	if err := m.fail[id]; err != nil {
		return catalog.AnimeDetail{}, err
	}
	var d catalog.AnimeDetail
	d.MalID = id
	d.Title = "anime"
	return d, nil
}

func TestResolve_PreservesOrder(t *testing.T) {
	f := &mapFetcher{}
	ids := []int{9, 3, 7, 1}

	got, err := Resolve(context.Background(), ids, f, 2)
	require.NoError(t, err)
	require.Len(t, got, 4)
	for i, id := range ids {
		assert.Equal(t, id, got[i].MalID)
	}
	assert.ElementsMatch(t, ids, f.calls)
}

func TestResolve_AnyFailureFailsWhole(t *testing.T) {
	f := &mapFetcher{fail: map[int]error{3: errors.New("boom")}}

	got, err := Resolve(context.Background(), []int{1, 3, 5}, f, 0)
	assert.Nil(t, got)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolve favorite 3")
}

func TestResolve_Empty(t *testing.T) {
	got, err := Resolve(context.Background(), nil, &mapFetcher{}, 0)
	assert.NoError(t, err)
	assert.Nil(t, got)
}
