// Package search turns query, filter and page intents into catalog requests.
//
// The Orchestrator is driven from a Bubble Tea update loop: every entry point
// mutates state synchronously and returns a tea.Cmd that performs the I/O.
// Completions come back through Update and are accepted only when their
// sequence number is still the active one, so a late response can never
// overwrite the result of a request issued after it.
package search

import (
	"context"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/b1ack-panther/jikan-journeys/internal/catalog"
	"github.com/b1ack-panther/jikan-journeys/internal/filter"
	jlog "github.com/b1ack-panther/jikan-journeys/internal/log"
)

// DefaultDebounce is the quiet period after the last keystroke before a query
// is committed.
const DefaultDebounce = 250 * time.Millisecond

// Status is the lifecycle state of a search session.
type Status int

const (
	StatusIdle Status = iota
	StatusDebouncing
	StatusInFlight
	StatusSettled
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusDebouncing:
		return "debouncing"
	case StatusInFlight:
		return "in-flight"
	case StatusSettled:
		return "settled"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Searcher runs one catalog search.
type Searcher interface {
	Search(ctx context.Context, req catalog.SearchRequest) (catalog.ResultPage, error)
}

// Config configures an Orchestrator.
type Config struct {
	// Debounce is the trailing-edge delay for query changes (default DefaultDebounce).
	Debounce time.Duration

	Logger *slog.Logger

	// OnCommit is called whenever the committed query changes, including
	// when it is cleared.
	OnCommit func(query string)

	// InitialFilters seeds the filter set.
	InitialFilters filter.Set
}

type tickFunc func(time.Duration, func(time.Time) tea.Msg) tea.Cmd

// Orchestrator is one search session. It is not safe for concurrent use; all
// calls must come from the same update loop.
type Orchestrator struct {
	id       string
	searcher Searcher
	debounce time.Duration
	logger   *slog.Logger
	onCommit func(string)
	tick     tickFunc

	status  Status
	query   string // committed
	pending string // typed, waiting for the debounce to fire
	filters filter.Set
	results Results
	err     error

	debounceID      uint64
	debouncePending bool

	seq    uint64
	active *catalog.SearchRequest
	cancel context.CancelFunc

	disposed bool
}

// New creates an idle session.
func New(s Searcher, cfg Config) *Orchestrator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	id := uuid.NewString()
	return &Orchestrator{
		id:       id,
		searcher: s,
		debounce: debounce,
		logger:   logger.With("session", id),
		onCommit: cfg.OnCommit,
		tick:     tea.Tick,
		filters:  cfg.InitialFilters.Canonical(),
	}
}

// ID returns the session identifier used in log lines.
func (o *Orchestrator) ID() string { return o.id }

// debounceMsg fires after the debounce delay. Only the latest one is acted on.
type debounceMsg struct {
	session string
	id      uint64
}

// resultMsg carries a completed search back into the update loop.
type resultMsg struct {
	session string
	seq     uint64
	req     catalog.SearchRequest
	page    catalog.ResultPage
	err     error
}

// Intent is a user action that may lead to a search.
type Intent interface{ intent() }

// QueryChanged is raw text from the query input.
type QueryChanged struct{ Text string }

// FiltersChanged replaces the filter set.
type FiltersChanged struct{ Filters filter.Set }

// PageChanged requests another page of the current results.
type PageChanged struct{ Page int }

func (QueryChanged) intent()   {}
func (FiltersChanged) intent() {}
func (PageChanged) intent()    {}

// SubmitQueryChange records typed text and restarts the debounce.
func (o *Orchestrator) SubmitQueryChange(text string) tea.Cmd {
	return o.Handle(QueryChanged{Text: text})
}

// SubmitFilterChange applies f immediately.
func (o *Orchestrator) SubmitFilterChange(f filter.Set) tea.Cmd {
	return o.Handle(FiltersChanged{Filters: f})
}

// ChangePage requests page n of the current query. Out-of-range pages are ignored.
func (o *Orchestrator) ChangePage(n int) tea.Cmd {
	return o.Handle(PageChanged{Page: n})
}

// Handle is the single entry point for intents.
func (o *Orchestrator) Handle(in Intent) tea.Cmd {
	if o.disposed {
		return nil
	}
	switch in := in.(type) {
	case QueryChanged:
		return o.handleQuery(in.Text)
	case FiltersChanged:
		return o.handleFilters(in.Filters)
	case PageChanged:
		return o.handlePage(in.Page)
	}
	return nil
}

func (o *Orchestrator) handleQuery(text string) tea.Cmd {
	text = strings.TrimSpace(text)
	o.debounceID++

	if text == "" {
		o.debouncePending = false
		o.pending = ""
		o.cancelActive()
		o.results.Clear()
		o.err = nil
		o.status = StatusIdle
		o.commit("")
		return nil
	}

	o.pending = text
	o.debouncePending = true
	o.status = StatusDebouncing

	id := o.debounceID
	session := o.id
	return o.tick(o.debounce, func(time.Time) tea.Msg {
		return debounceMsg{session: session, id: id}
	})
}

func (o *Orchestrator) handleFilters(f filter.Set) tea.Cmd {
	o.filters = f.Canonical()

	if o.debouncePending {
		o.debounceID++
		o.debouncePending = false
		o.commit(o.pending)
	}

	if o.query == "" {
		return nil
	}
	return o.issue(catalog.SearchRequest{Query: o.query, Page: 1, Filters: o.filters})
}

func (o *Orchestrator) handlePage(n int) tea.Cmd {
	if o.query == "" || !o.results.ValidPage(n) {
		return nil
	}
	return o.issue(catalog.SearchRequest{Query: o.query, Page: n, Filters: o.filters})
}

// Update consumes the session's own messages. handled is false for any
// message that belongs to someone else.
func (o *Orchestrator) Update(msg tea.Msg) (cmd tea.Cmd, handled bool) {
	switch msg := msg.(type) {
	case debounceMsg:
		if msg.session != o.id {
			return nil, false
		}
		return o.handleDebounce(msg), true
	case resultMsg:
		if msg.session != o.id {
			return nil, false
		}
		o.handleResult(msg)
		return nil, true
	}
	return nil, false
}

func (o *Orchestrator) handleDebounce(msg debounceMsg) tea.Cmd {
	if o.disposed || !o.debouncePending || msg.id != o.debounceID {
		return nil
	}
	o.debouncePending = false
	o.commit(o.pending)
	return o.issue(catalog.SearchRequest{Query: o.query, Page: 1, Filters: o.filters})
}

func (o *Orchestrator) handleResult(msg resultMsg) {
	if o.disposed || o.active == nil || msg.seq != o.seq {
		jlog.LogStaleResult(o.logger, msg.seq, o.seq)
		return
	}

	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
	o.active = nil

	if msg.err != nil {
		o.err = msg.err
		o.status = StatusFailed
		o.logger.Error("search failed",
			"query", msg.req.Query,
			"page", msg.req.Page,
			"error", msg.err,
		)
		return
	}

	o.results.Apply(msg.page)
	o.err = nil
	if o.debouncePending {
		o.status = StatusDebouncing
	} else {
		o.status = StatusSettled
	}
	o.logger.Debug("search settled",
		"query", msg.req.Query,
		"page", msg.page.CurrentPage,
		"last_page", msg.page.LastPage,
		"items", len(msg.page.Items),
	)
}

// issue makes req the only active request.
func (o *Orchestrator) issue(req catalog.SearchRequest) tea.Cmd {
	o.cancelActive()

	o.seq++
	seq := o.seq
	ctx, cancel := context.WithCancel(context.Background())
	o.cancel = cancel
	o.active = &req
	o.err = nil
	o.status = StatusInFlight

	o.logger.Info("search issued",
		"seq", seq,
		"query", req.Query,
		"page", req.Page,
		"filters", req.Filters.Encode(),
	)

	searcher := o.searcher
	session := o.id
	return func() tea.Msg {
		page, err := searcher.Search(ctx, req)
		return resultMsg{session: session, seq: seq, req: req, page: page, err: err}
	}
}

func (o *Orchestrator) cancelActive() {
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
	o.active = nil
}

func (o *Orchestrator) commit(q string) {
	if q == o.query {
		return
	}
	o.query = q
	if o.onCommit != nil {
		o.onCommit(q)
	}
}

// Dispose cancels any pending debounce and in-flight request. Safe to call
// more than once.
func (o *Orchestrator) Dispose() {
	if o.disposed {
		return
	}
	o.disposed = true
	o.debounceID++
	o.debouncePending = false
	o.cancelActive()
}

// Active returns the request currently in flight.
func (o *Orchestrator) Active() (catalog.SearchRequest, bool) {
	if o.active == nil {
		return catalog.SearchRequest{}, false
	}
	return *o.active, true
}

// State is what views render.
type State struct {
	Status       Status
	Loading      bool
	Err          error
	ErrorMessage string
	Page         *catalog.ResultPage
	Filters      filter.Set
	Query        string
	PendingQuery string
}

// State returns a snapshot of the session for rendering.
func (o *Orchestrator) State() State {
	pending := o.query
	if o.debouncePending {
		pending = o.pending
	}
	return State{
		Status:       o.status,
		Loading:      o.active != nil,
		Err:          o.err,
		ErrorMessage: ErrorMessage(o.err),
		Page:         o.results.Page(),
		Filters:      o.filters,
		Query:        o.query,
		PendingQuery: pending,
	}
}
