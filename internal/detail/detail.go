// Package detail holds the state of the anime detail screen. The detail record
// and the character list are fetched independently; a failure of one never
// clears the other.
package detail

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/b1ack-panther/jikan-journeys/internal/catalog"
)

// MaxMainCharacters bounds the character strip.
const MaxMainCharacters = 12

// Fetcher loads detail data for one anime.
type Fetcher interface {
	GetByID(ctx context.Context, id int) (catalog.AnimeDetail, error)
	GetCharacters(ctx context.Context, id int) ([]catalog.CharacterRef, error)
}

type detailMsg struct {
	seq    uint64
	detail catalog.AnimeDetail
	err    error
}

type charactersMsg struct {
	seq   uint64
	chars []catalog.CharacterRef
	err   error
}

// View is the detail screen state.
type View struct {
	fetcher Fetcher
	logger  *slog.Logger

	id     int
	seq    uint64
	cancel context.CancelFunc

	Detail        *catalog.AnimeDetail
	Characters    []catalog.CharacterRef
	DetailErr     error
	CharactersErr error

	loadingDetail     bool
	loadingCharacters bool
}

// New creates an empty View.
func New(f Fetcher, logger *slog.Logger) *View {
	if logger == nil {
		logger = slog.Default()
	}
	return &View{fetcher: f, logger: logger}
}

// Open starts loading id, dropping whatever was shown before.
func (v *View) Open(id int) tea.Cmd {
	v.Close()
	v.seq++
	v.id = id
	v.loadingDetail = true
	v.loadingCharacters = true

	ctx, cancel := context.WithCancel(context.Background())
	v.cancel = cancel
	seq := v.seq
	f := v.fetcher

	return tea.Batch(
		func() tea.Msg {
			d, err := f.GetByID(ctx, id)
			return detailMsg{seq: seq, detail: d, err: err}
		},
		func() tea.Msg {
			chars, err := f.GetCharacters(ctx, id)
			return charactersMsg{seq: seq, chars: chars, err: err}
		},
	)
}

// Close cancels outstanding fetches and clears the view.
func (v *View) Close() {
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.seq++
	v.id = 0
	v.Detail = nil
	v.Characters = nil
	v.DetailErr = nil
	v.CharactersErr = nil
	v.loadingDetail = false
	v.loadingCharacters = false
}

// ID returns the anime being shown, or 0.
func (v *View) ID() int { return v.id }

// Loading reports whether either fetch is outstanding.
func (v *View) Loading() bool { return v.loadingDetail || v.loadingCharacters }

// LoadingDetail reports whether the detail record is outstanding.
func (v *View) LoadingDetail() bool { return v.loadingDetail }

// LoadingCharacters reports whether the character list is outstanding.
func (v *View) LoadingCharacters() bool { return v.loadingCharacters }

// Update applies fetch completions for the currently open id.
func (v *View) Update(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case detailMsg:
		if msg.seq != v.seq {
			return true
		}
		v.loadingDetail = false
		if msg.err != nil {
			v.DetailErr = msg.err
			v.logger.Warn("detail fetch failed", "id", v.id, "error", msg.err)
		} else {
			d := msg.detail
			v.Detail = &d
			v.DetailErr = nil
		}
		v.releaseIfDone()
		return true
	case charactersMsg:
		if msg.seq != v.seq {
			return true
		}
		v.loadingCharacters = false
		if msg.err != nil {
			v.CharactersErr = msg.err
			v.logger.Warn("characters fetch failed", "id", v.id, "error", msg.err)
		} else {
			v.Characters = msg.chars
			v.CharactersErr = nil
		}
		v.releaseIfDone()
		return true
	}
	return false
}

func (v *View) releaseIfDone() {
	if !v.Loading() && v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
}

// MainCharacters returns up to MaxMainCharacters characters with the Main role.
func (v *View) MainCharacters() []catalog.CharacterRef {
	return FilterMain(v.Characters)
}

// FilterMain keeps the characters with the "Main" role, in order, up to
// MaxMainCharacters.
func FilterMain(chars []catalog.CharacterRef) []catalog.CharacterRef {
	var out []catalog.CharacterRef
	for _, c := range chars {
		if c.Role != "Main" {
			continue
		}
		out = append(out, c)
		if len(out) == MaxMainCharacters {
			break
		}
	}
	return out
}
