package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b1ack-panther/jikan-journeys/internal/catalog"
)

func TestResults_ApplyCopiesItems(t *testing.T) {
	var r Results
	items := []catalog.AnimeSummary{{MalID: 1, Title: "Cowboy Bebop"}}
	r.Apply(catalog.ResultPage{Items: items, CurrentPage: 1, LastPage: 2})

	items[0].Title = "mutated"
	p := r.Page()
	require.NotNil(t, p)
	assert.Equal(t, "Cowboy Bebop", p.Items[0].Title)

	p.Items[0].Title = "mutated again"
	assert.Equal(t, "Cowboy Bebop", r.Page().Items[0].Title)
}

func TestResults_ValidPage(t *testing.T) {
	var r Results
	assert.False(t, r.ValidPage(1))
	assert.Equal(t, 0, r.CurrentPage())

	r.Apply(catalog.ResultPage{CurrentPage: 2, LastPage: 3})
	assert.True(t, r.ValidPage(1))
	assert.True(t, r.ValidPage(3))
	assert.False(t, r.ValidPage(0))
	assert.False(t, r.ValidPage(4))
	assert.Equal(t, 2, r.CurrentPage())
	assert.Equal(t, 3, r.LastPage())

	r.Clear()
	assert.Nil(t, r.Page())
	assert.False(t, r.ValidPage(1))
}
