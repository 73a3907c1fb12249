package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/b1ack-panther/jikan-journeys/internal/tui"
	"github.com/b1ack-panther/jikan-journeys/internal/urlsync"
)

var (
	uiQuery   string
	uiURL     string
	uiResume  bool
	uiFilters filterFlags
)

func init() {
	rootCmd.Flags().StringVarP(&uiQuery, "query", "q", "", "initial search query")
	rootCmd.Flags().StringVar(&uiURL, "url", "", "open a shared search address")
	rootCmd.Flags().BoolVar(&uiResume, "resume", false, "reopen the last search")
	uiFilters.register(rootCmd)
	rootCmd.MarkFlagsMutuallyExclusive("url", "resume")
}

// runUI starts the interactive search screen.
func runUI(cmd *cobra.Command, args []string) error {
	if uiQuery != "" && len(args) > 0 {
		return errors.New("pass the query either as an argument or with --query")
	}
	filters, err := uiFilters.set()
	if err != nil {
		return err
	}
	if err := checkTerminal(); err != nil {
		return err
	}

	ctx := commandContext(cmd)
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	release, err := acquireLock(a.paths.LockFile())
	if err != nil {
		return err
	}
	defer release()

	start, query, err := startLocation(ctx, a, args)
	if err != nil {
		return err
	}
	syncer := urlsync.New(urlsync.NewHistory(start), a.kv, a.logger)

	// Package-level styles pick the profile up from the default renderer.
	lipgloss.SetColorProfile(termenv.NewOutput(os.Stdout).ColorProfile())

	model := tui.NewModel(tui.Options{
		Catalog:        a.catalog,
		Favorites:      a.favs,
		Sync:           syncer,
		Logger:         a.logger,
		Debounce:       a.cfg.Debounce(),
		InitialQuery:   query,
		InitialFilters: filters,
	})

	final, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if m, ok := final.(tui.Model); ok {
		m.Close()
	} else {
		model.Close()
	}
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	if q, _ := urlsync.QueryFromURL(syncer.URL()); q != "" {
		fmt.Println(syncer.URL())
	}
	return nil
}

// startLocation picks the address the UI starts from and its query. An
// explicit query wins over the one carried by the address.
func startLocation(ctx context.Context, a *app, args []string) (*url.URL, string, error) {
	raw := a.cfg.Share.BaseURL
	switch {
	case uiURL != "":
		raw = uiURL
	case uiResume:
		if last := urlsync.LastURL(ctx, a.kv); last != "" {
			raw = last
		}
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, "", fmt.Errorf("invalid start address %q: %w", raw, err)
	}
	query, err := urlsync.QueryFromURL(raw)
	if err != nil {
		return nil, "", err
	}

	switch {
	case len(args) > 0:
		query = args[0]
	case uiQuery != "":
		query = uiQuery
	}
	return u, tui.Clean(query), nil
}
