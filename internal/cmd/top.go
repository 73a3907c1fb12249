package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/b1ack-panther/jikan-journeys/internal/search"
)

var (
	topJSON bool
	topPage int
)

var topCmd = &cobra.Command{
	Use:     "top",
	Short:   "List the top ranked anime",
	GroupID: groupCore,
	Args:    cobra.NoArgs,
	RunE:    runTop,
}

func init() {
	topCmd.Flags().BoolVar(&topJSON, "json", false, "output results as JSON")
	topCmd.Flags().IntVarP(&topPage, "page", "p", 1, "ranking page to fetch")
	rootCmd.AddCommand(topCmd)
}

func runTop(cmd *cobra.Command, args []string) error {
	applyColorMode()

	if topPage < 1 {
		return fmt.Errorf("--page must be at least 1 (got %d)", topPage)
	}

	ctx := commandContext(cmd)
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	page, err := a.catalog.Top(ctx, topPage)
	if err != nil {
		a.logger.Error("top fetch failed", "page", topPage, "error", err)
		return errors.New(search.ErrorMessage(err))
	}

	if topJSON {
		return writeJSON(pageOutput{
			CurrentPage: page.CurrentPage,
			LastPage:    page.LastPage,
			Results:     toAnimeOutputs(page.Items, a.favs),
		})
	}
	printList(page.Items, a.favs)
	printPageFooter(page)
	return nil
}
