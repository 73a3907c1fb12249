package cmd

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() failed: %v", err)
	}
	os.Stdout = w

	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	fn()
	_ = w.Close()
	os.Stdout = old
	out := <-outC
	_ = r.Close()
	return out
}

// fakeJikan serves a small fixed catalog and records request URIs.
type fakeJikan struct {
	mu       sync.Mutex
	requests []string
	status   int // when non-zero every request fails with it
}

func (f *fakeJikan) uris() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func (f *fakeJikan) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.URL.RequestURI())
	status := f.status
	f.mu.Unlock()

	if status != 0 {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/anime":
		if r.URL.Query().Get("q") == "nothing" {
			_, _ = io.WriteString(w, `{"data": [], "pagination": {"current_page": 1, "last_visible_page": 1}}`)
			return
		}
		fmt.Fprintf(w, `{"data": [
			{"mal_id": 1, "title": "Cowboy Bebop", "type": "TV", "episodes": 26, "score": 8.75, "year": 1998},
			{"mal_id": 5, "title": "Cowboy Bebop: Tengoku no Tobira", "type": "Movie", "episodes": 1, "score": 8.38, "year": 2001}
		], "pagination": {"current_page": %s, "last_visible_page": 2}}`, r.URL.Query().Get("page"))
	case "/top/anime":
		fmt.Fprintf(w, `{"data": [
			{"mal_id": 5114, "title": "Fullmetal Alchemist: Brotherhood", "type": "TV", "episodes": 64, "score": 9.1, "year": 2009}
		], "pagination": {"current_page": %s, "last_visible_page": 40}}`, r.URL.Query().Get("page"))
	case "/anime/1":
		_, _ = io.WriteString(w, `{"data": {"mal_id": 1, "title": "Cowboy Bebop", "type": "TV", "episodes": 26, "score": 8.75,
			"synopsis": "In the year 2071, humanity has colonized several of the planets.",
			"genres": [{"mal_id": 1, "name": "Action"}]}}`)
	case "/anime/1/characters":
		w.WriteHeader(http.StatusInternalServerError)
	case "/anime/5114":
		_, _ = io.WriteString(w, `{"data": {"mal_id": 5114, "title": "Fullmetal Alchemist: Brotherhood", "type": "TV", "episodes": 64, "score": 9.1}}`)
	case "/anime/5114/characters":
		_, _ = io.WriteString(w, `{"data": [
			{"character": {"mal_id": 11, "name": "Elric, Edward"}, "role": "Main",
			 "voice_actors": [{"language": "Japanese", "person": {"mal_id": 1, "name": "Park, Romi"}}]},
			{"character": {"mal_id": 12, "name": "Hughes, Maes"}, "role": "Supporting"}
		]}`)
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"status": 404, "message": "Resource does not exist"}`)
	}
}

// setupTestEnv points configuration, storage and the catalog at temporary
// locations and a fake catalog server.
func setupTestEnv(t *testing.T) *fakeJikan {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("JOURNEYS_DB_PATH", "")
	t.Setenv("JOURNEYS_LOG_LEVEL", "")
	t.Setenv("JOURNEYS_DEBUG", "")
	t.Setenv("NO_COLOR", "1")
	t.Setenv("COLUMNS", "120")

	cfgDir := filepath.Join(dir, "config", "journeys")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	cfg := "catalog:\n  rate_limit_rps: 0\n"
	if err := os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte(cfg), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	fake := &fakeJikan{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	t.Setenv("JOURNEYS_API_URL", srv.URL)
	return fake
}
