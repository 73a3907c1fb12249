package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b1ack-panther/jikan-journeys/internal/config"
	"github.com/b1ack-panther/jikan-journeys/internal/storage"
	"github.com/b1ack-panther/jikan-journeys/internal/urlsync"
)

func withUIFlags(t *testing.T, query, rawURL string, resume bool) {
	t.Helper()
	oldQuery, oldURL, oldResume := uiQuery, uiURL, uiResume
	uiQuery, uiURL, uiResume = query, rawURL, resume
	t.Cleanup(func() { uiQuery, uiURL, uiResume = oldQuery, oldURL, oldResume })
}

func testApp() *app {
	return &app{cfg: config.DefaultConfig(), kv: storage.NewMemoryKV()}
}

func TestStartLocation_Default(t *testing.T) {
	withUIFlags(t, "", "", false)

	u, query, err := startLocation(context.Background(), testApp(), nil)
	require.NoError(t, err)
	assert.Equal(t, "https://jikan-journeys.app/search", u.String())
	assert.Equal(t, "", query)
}

func TestStartLocation_SharedURL(t *testing.T) {
	withUIFlags(t, "", "https://jikan-journeys.app/search?search=%20cowboy%20bebop%20", false)

	u, query, err := startLocation(context.Background(), testApp(), nil)
	require.NoError(t, err)
	assert.Equal(t, "jikan-journeys.app", u.Host)
	assert.Equal(t, "cowboy bebop", query)
}

func TestStartLocation_ArgumentWins(t *testing.T) {
	withUIFlags(t, "", "https://jikan-journeys.app/search?search=naruto", false)

	_, query, err := startLocation(context.Background(), testApp(), []string{"bleach"})
	require.NoError(t, err)
	assert.Equal(t, "bleach", query)

	withUIFlags(t, "one  piece", "", false)
	_, query, err = startLocation(context.Background(), testApp(), nil)
	require.NoError(t, err)
	assert.Equal(t, "one piece", query)
}

func TestStartLocation_Resume(t *testing.T) {
	withUIFlags(t, "", "", true)
	a := testApp()
	require.NoError(t, a.kv.Set(context.Background(), urlsync.LastURLKey, "https://jikan-journeys.app/search?search=monster"))

	u, query, err := startLocation(context.Background(), a, nil)
	require.NoError(t, err)
	assert.Equal(t, "monster", query)
	assert.Equal(t, "monster", u.Query().Get(urlsync.Param))
}

func TestStartLocation_ResumeWithoutHistory(t *testing.T) {
	withUIFlags(t, "", "", true)

	u, query, err := startLocation(context.Background(), testApp(), nil)
	require.NoError(t, err)
	assert.Equal(t, "https://jikan-journeys.app/search", u.String())
	assert.Equal(t, "", query)
}

func TestStartLocation_BadURL(t *testing.T) {
	withUIFlags(t, "", "http://[::1", false)

	_, _, err := startLocation(context.Background(), testApp(), nil)
	require.Error(t, err)
}

func TestRunUI_RejectsQueryTwice(t *testing.T) {
	withUIFlags(t, "a", "", false)
	err := runUI(rootCmd, []string{"b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "either as an argument or with --query")
}
