// Package urlsync mirrors the committed search query into a shareable URL.
package urlsync

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	jlog "github.com/b1ack-panther/jikan-journeys/internal/log"
	"github.com/b1ack-panther/jikan-journeys/internal/storage"
)

// Param is the query parameter holding the search text.
const Param = "search"

// LastURLKey is the KV key the most recent shareable URL is kept under.
const LastURLKey = "last_url"

// Location is the address the UI is showing.
type Location interface {
	Current() *url.URL
	Replace(u *url.URL)
}

// History is an in-memory navigation history. Replace rewrites the current
// entry; only Push adds one.
type History struct {
	entries []*url.URL
}

// NewHistory starts a history at u.
func NewHistory(u *url.URL) *History {
	return &History{entries: []*url.URL{cloneURL(u)}}
}

// Current returns a copy of the current entry.
func (h *History) Current() *url.URL {
	return cloneURL(h.entries[len(h.entries)-1])
}

// Replace overwrites the current entry.
func (h *History) Replace(u *url.URL) {
	h.entries[len(h.entries)-1] = cloneURL(u)
}

// Push adds a new entry.
func (h *History) Push(u *url.URL) {
	h.entries = append(h.entries, cloneURL(u))
}

// Back drops the current entry. It reports false at the first entry.
func (h *History) Back() bool {
	if len(h.entries) <= 1 {
		return false
	}
	h.entries = h.entries[:len(h.entries)-1]
	return true
}

// Len returns the number of entries.
func (h *History) Len() int { return len(h.entries) }

func cloneURL(u *url.URL) *url.URL {
	c := *u
	if u.User != nil {
		user := *u.User
		c.User = &user
	}
	return &c
}

// Syncer writes committed queries into a Location.
type Syncer struct {
	loc    Location
	kv     storage.KV
	logger *slog.Logger
}

// New creates a Syncer. kv may be nil, in which case the URL is not remembered.
func New(loc Location, kv storage.KV, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{loc: loc, kv: kv, logger: logger}
}

// Commit sets the search parameter to query, or removes it when query is
// empty, and replaces the current location.
func (s *Syncer) Commit(ctx context.Context, query string) {
	u := s.loc.Current()
	values := u.Query()
	if q := strings.TrimSpace(query); q != "" {
		values.Set(Param, q)
	} else {
		values.Del(Param)
	}
	u.RawQuery = values.Encode()
	s.loc.Replace(u)

	if s.kv == nil {
		return
	}
	if err := s.kv.Set(ctx, LastURLKey, u.String()); err != nil {
		jlog.LogStorageError(s.logger, "urlsync.remember", err)
	}
}

// URL returns the current shareable address.
func (s *Syncer) URL() string {
	return s.loc.Current().String()
}

// QueryFromURL extracts the trimmed search parameter from raw.
func QueryFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	return strings.TrimSpace(u.Query().Get(Param)), nil
}

// LastURL returns the remembered address, or "".
func LastURL(ctx context.Context, kv storage.KV) string {
	v, err := kv.Get(ctx, LastURLKey)
	if err != nil {
		return ""
	}
	return v
}
