// Package tui is the interactive terminal front end: a search screen with a
// filter prompt, the anime detail screen and the favorites screen.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/b1ack-panther/jikan-journeys/internal/catalog"
	"github.com/b1ack-panther/jikan-journeys/internal/detail"
	"github.com/b1ack-panther/jikan-journeys/internal/favorites"
	"github.com/b1ack-panther/jikan-journeys/internal/filter"
	"github.com/b1ack-panther/jikan-journeys/internal/search"
	"github.com/b1ack-panther/jikan-journeys/internal/urlsync"
)

// Catalog is everything the UI reads from the remote catalog.
type Catalog interface {
	search.Searcher
	detail.Fetcher
	Top(ctx context.Context, page int) (catalog.ResultPage, error)
}

// Options wires a Model.
type Options struct {
	Catalog   Catalog
	Favorites *favorites.Store
	Sync      *urlsync.Syncer // optional
	Logger    *slog.Logger
	Debounce  time.Duration

	InitialQuery   string
	InitialFilters filter.Set
}

type screen int

const (
	screenSearch screen = iota
	screenDetail
	screenFavorites
)

// initMsg is sent by Init so the first fetches start inside Update.
type initMsg struct{}

type topMsg struct {
	seq  uint64
	page catalog.ResultPage
	err  error
}

type favoritesMsg struct {
	seq   uint64
	items []catalog.AnimeDetail
	err   error
}

// Model is the Bubble Tea model for the whole UI. The search session, detail
// view and favorites store are shared by pointer between copies.
type Model struct {
	catalog Catalog
	favs    *favorites.Store
	sync    *urlsync.Syncer
	logger  *slog.Logger

	search *search.Orchestrator
	detail *detail.View

	input   textinput.Model
	prompt  textinput.Model
	spinner spinner.Model

	screen    screen
	backTo    screen
	prompting bool
	selection int
	favSel    int
	notice    string
	noticeErr bool
	initial   string
	quitting  bool
	width     int
	height    int

	top        *catalog.ResultPage
	topErr     error
	topSeq     uint64
	topLoading bool
	topCancel  context.CancelFunc

	favItems   []catalog.AnimeDetail
	favErr     error
	favSeq     uint64
	favLoading bool
}

// NewModel builds the UI around its collaborators.
func NewModel(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sync := opts.Sync
	orch := search.New(opts.Catalog, search.Config{
		Debounce:       opts.Debounce,
		Logger:         logger,
		InitialFilters: opts.InitialFilters,
		OnCommit: func(q string) {
			if sync != nil {
				sync.Commit(context.Background(), q)
			}
		},
	})

	in := textinput.New()
	in.Placeholder = "Search anime..."
	in.Prompt = "> "
	in.CharLimit = 120
	in.Focus()

	pr := textinput.New()
	pr.Prompt = ": "
	pr.Placeholder = "genre action · rating pg13 · score 8-10 · clear"
	pr.CharLimit = 200

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	return Model{
		catalog: opts.Catalog,
		favs:    opts.Favorites,
		sync:    sync,
		logger:  logger,
		search:  orch,
		detail:  detail.New(opts.Catalog, logger),
		input:   in,
		prompt:  pr,
		spinner: sp,
		initial: opts.InitialQuery,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return initMsg{} },
		textinput.Blink,
		m.spinner.Tick,
	)
}

// Close releases the search session and any outstanding fetches.
func (m Model) Close() {
	m.search.Dispose()
	m.detail.Close()
	if m.topCancel != nil {
		m.topCancel()
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if cmd, ok := m.search.Update(msg); ok {
		m.clampSelection()
		return m, cmd
	}
	if m.detail.Update(msg) {
		return m, nil
	}

	switch msg := msg.(type) {
	case initMsg:
		cmds := []tea.Cmd{m.loadTop(1)}
		if m.initial != "" {
			m.input.SetValue(m.initial)
			m.input.CursorEnd()
			cmds = append(cmds, m.search.SubmitQueryChange(m.initial))
		}
		return m, tea.Batch(cmds...)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case topMsg:
		if msg.seq != m.topSeq {
			return m, nil
		}
		m.topLoading = false
		m.topCancel = nil
		if msg.err != nil {
			m.topErr = msg.err
			return m, nil
		}
		page := msg.page.Clone()
		m.top = &page
		m.topErr = nil
		m.clampSelection()
		return m, nil

	case favoritesMsg:
		if msg.seq != m.favSeq {
			return m, nil
		}
		m.favLoading = false
		m.favErr = msg.err
		m.favItems = msg.items
		if m.favSel >= len(m.favItems) {
			m.favSel = max(0, len(m.favItems)-1)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	if m.prompting {
		m.prompt, cmd = m.prompt.Update(msg)
	} else {
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		m.Close()
		return m, tea.Quit
	}

	switch m.screen {
	case screenDetail:
		return m.handleDetailKey(msg)
	case screenFavorites:
		return m.handleFavoritesKey(msg)
	}
	if m.prompting {
		return m.handlePromptKey(msg)
	}
	return m.handleSearchKey(msg)
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.quitting = true
		m.Close()
		return m, tea.Quit

	case tea.KeyUp:
		if m.selection > 0 {
			m.selection--
		}
		return m, nil

	case tea.KeyDown:
		if m.selection < len(m.visibleItems())-1 {
			m.selection++
		}
		return m, nil

	case tea.KeyPgDown:
		return m, m.turnPage(+1)

	case tea.KeyPgUp:
		return m, m.turnPage(-1)

	case tea.KeyEnter:
		items := m.visibleItems()
		if m.selection < 0 || m.selection >= len(items) {
			return m, nil
		}
		return m.openDetail(items[m.selection].MalID, screenSearch)

	case tea.KeyCtrlF:
		items := m.visibleItems()
		if m.selection < 0 || m.selection >= len(items) {
			return m, nil
		}
		m.toggleFavorite(items[m.selection].MalID, items[m.selection].Title)
		return m, nil

	case tea.KeyCtrlO:
		return m.openFavorites()

	case tea.KeyCtrlG:
		m.prompting = true
		m.prompt.SetValue("")
		m.input.Blur()
		return m, m.prompt.Focus()
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return m, cmd
	}
	m.selection = 0
	m.notice = ""
	return m, tea.Batch(cmd, m.search.SubmitQueryChange(m.input.Value()))
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closePrompt()
		return m, m.input.Focus()

	case tea.KeyEnter:
		line := m.prompt.Value()
		m.closePrompt()
		focus := m.input.Focus()

		action, err := parseCommand(line, m.search.State().Filters)
		if err != nil {
			if !errors.Is(err, errEmptyCommand) {
				m.setNotice(err.Error(), true)
			}
			return m, focus
		}
		if action.filters != nil {
			m.selection = 0
			m.setNotice("filters: "+summaryOrNone(*action.filters), false)
			return m, tea.Batch(focus, m.search.SubmitFilterChange(*action.filters))
		}
		cmd := m.search.ChangePage(action.page)
		if cmd == nil {
			m.setNotice(fmt.Sprintf("page %d is out of range", action.page), true)
			return m, focus
		}
		m.selection = 0
		return m, tea.Batch(focus, cmd)
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m *Model) closePrompt() {
	m.prompting = false
	m.prompt.Blur()
	m.prompt.SetValue("")
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyBackspace:
		m.detail.Close()
		m.screen = m.backTo
		if m.screen == screenSearch {
			return m, m.input.Focus()
		}
		return m, nil

	case tea.KeyCtrlF:
		id := m.detail.ID()
		if id == 0 {
			return m, nil
		}
		title := ""
		if d := m.detail.Detail; d != nil {
			title = d.Title
		}
		m.toggleFavorite(id, title)
		return m, nil
	}
	return m, nil
}

func (m Model) handleFavoritesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.screen = screenSearch
		return m, m.input.Focus()

	case tea.KeyUp:
		if m.favSel > 0 {
			m.favSel--
		}
	case tea.KeyDown:
		if m.favSel < len(m.favItems)-1 {
			m.favSel++
		}

	case tea.KeyEnter:
		if m.favSel < len(m.favItems) {
			return m.openDetail(m.favItems[m.favSel].MalID, screenFavorites)
		}

	case tea.KeyCtrlF:
		if m.favSel < len(m.favItems) {
			item := m.favItems[m.favSel]
			m.toggleFavorite(item.MalID, item.Title)
			if !m.favs.Contains(item.MalID) {
				m.favItems = append(m.favItems[:m.favSel:m.favSel], m.favItems[m.favSel+1:]...)
				if m.favSel >= len(m.favItems) {
					m.favSel = max(0, len(m.favItems)-1)
				}
			}
		}

	case tea.KeyCtrlR:
		return m.openFavorites()
	}
	return m, nil
}

func (m Model) openDetail(id int, from screen) (tea.Model, tea.Cmd) {
	m.backTo = from
	m.screen = screenDetail
	m.input.Blur()
	return m, m.detail.Open(id)
}

func (m Model) openFavorites() (tea.Model, tea.Cmd) {
	m.screen = screenFavorites
	m.input.Blur()
	m.favSeq++
	m.favErr = nil

	ids := m.favs.List()
	if len(ids) == 0 {
		m.favItems = nil
		m.favLoading = false
		return m, nil
	}

	m.favLoading = true
	seq := m.favSeq
	c := m.catalog
	return m, func() tea.Msg {
		items, err := favorites.Resolve(context.Background(), ids, c, favorites.DefaultResolveLimit)
		return favoritesMsg{seq: seq, items: items, err: err}
	}
}

// toggleFavorite flips membership. A persistence failure leaves the change in
// place and is shown as a notice.
func (m *Model) toggleFavorite(id int, title string) {
	added, err := m.favs.Toggle(context.Background(), id)
	if title == "" {
		title = fmt.Sprintf("#%d", id)
	}
	title = Clean(title)
	switch {
	case err != nil:
		m.setNotice("favorite not saved: "+err.Error(), true)
	case added:
		m.setNotice("added "+title+" to favorites", false)
	default:
		m.setNotice("removed "+title+" from favorites", false)
	}
}

func (m *Model) setNotice(s string, isErr bool) {
	m.notice = s
	m.noticeErr = isErr
}

// turnPage moves the search results, or the top list when no search is
// active, by delta pages.
func (m *Model) turnPage(delta int) tea.Cmd {
	st := m.search.State()
	if st.Query != "" {
		if st.Page == nil {
			return nil
		}
		// An in-flight request (e.g. the page-1 reset after a filter edit)
		// is the page the user is on, not the last settled one.
		from := st.Page.CurrentPage
		if active, ok := m.search.Active(); ok {
			from = active.Page
		}
		cmd := m.search.ChangePage(from + delta)
		if cmd != nil {
			m.selection = 0
		}
		return cmd
	}
	if m.top == nil {
		return nil
	}
	n := m.top.CurrentPage + delta
	if n < 1 || n > m.top.LastPage {
		return nil
	}
	m.selection = 0
	return m.loadTop(n)
}

func (m *Model) loadTop(page int) tea.Cmd {
	if m.topCancel != nil {
		m.topCancel()
	}
	m.topSeq++
	m.topLoading = true
	seq := m.topSeq
	ctx, cancel := context.WithCancel(context.Background())
	m.topCancel = cancel
	c := m.catalog
	return func() tea.Msg {
		p, err := c.Top(ctx, page)
		return topMsg{seq: seq, page: p, err: err}
	}
}

// showingTop reports whether the search screen lists top anime instead of
// search results.
func (m Model) showingTop() bool {
	return m.search.State().Query == ""
}

// visibleItems returns what the search screen lists.
func (m Model) visibleItems() []catalog.AnimeSummary {
	if m.showingTop() {
		if m.top == nil {
			return nil
		}
		return m.top.Items
	}
	st := m.search.State()
	if st.Page == nil || st.Status == search.StatusFailed {
		return nil
	}
	return st.Page.Items
}

func (m *Model) clampSelection() {
	n := len(m.visibleItems())
	if m.selection >= n {
		m.selection = n - 1
	}
	if m.selection < 0 {
		m.selection = 0
	}
}

func summaryOrNone(f filter.Set) string {
	if s := f.Summary(); s != "" {
		return s
	}
	return "none"
}
