package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/b1ack-panther/jikan-journeys/internal/catalog"
	"github.com/b1ack-panther/jikan-journeys/internal/search"
	"github.com/b1ack-panther/jikan-journeys/internal/urlsync"
)

var (
	searchJSON    bool
	searchPage    int
	searchFilters filterFlags
)

var searchCmd = &cobra.Command{
	Use:     "search <query>",
	Short:   "Search the anime catalog",
	GroupID: groupCore,
	Long: `Search the anime catalog and print one page of results.

Each line starts with the catalog id, which "journeys show" and
"journeys favorites toggle" accept.

Examples:
  journeys search cowboy bebop             # First page of results
  journeys search naruto --page 2          # Second page
  journeys search -g action -g 24 mecha    # Action and Sci-Fi only
  journeys search --rating pg13 --score 8-10 --json fullmetal`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().IntVarP(&searchPage, "page", "p", 1, "result page to fetch")
	searchFilters.register(searchCmd)

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	applyColorMode()

	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return errors.New("query must not be empty")
	}
	if searchPage < 1 {
		return fmt.Errorf("--page must be at least 1 (got %d)", searchPage)
	}
	filters, err := searchFilters.set()
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	req := catalog.SearchRequest{Query: query, Page: searchPage, Filters: filters}
	page, err := a.catalog.Search(ctx, req)
	if err != nil {
		a.logger.Error("search failed", "query", query, "page", searchPage, "error", err)
		return errors.New(search.ErrorMessage(err))
	}
	share := shareURL(a.cfg.Share.BaseURL, query)

	if searchJSON {
		return writeJSON(pageOutput{
			Query:       query,
			Filters:     filters.Encode(),
			CurrentPage: page.CurrentPage,
			LastPage:    page.LastPage,
			Results:     toAnimeOutputs(page.Items, a.favs),
			ShareURL:    share,
		})
	}

	if len(page.Items) == 0 {
		fmt.Printf("No anime matched %q.\n", query)
		return nil
	}
	printList(page.Items, a.favs)
	printPageFooter(page)
	if share != "" {
		fmt.Printf("%sshare: %s%s\n", colorDim, share, colorReset)
	}
	return nil
}

// shareURL attaches query to base the same way the UI does, or returns ""
// when base is not a valid address.
func shareURL(base, query string) string {
	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return ""
	}
	s := urlsync.New(urlsync.NewHistory(u), nil, nil)
	s.Commit(context.Background(), query)
	return s.URL()
}
