package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/b1ack-panther/jikan-journeys/internal/catalog"
	"github.com/b1ack-panther/jikan-journeys/internal/favorites"
	"github.com/b1ack-panther/jikan-journeys/internal/search"
)

var (
	favoritesJSON    bool
	favoritesResolve bool
)

var favoritesCmd = &cobra.Command{
	Use:     "favorites",
	Aliases: []string{"fav", "favs"},
	Short:   "List and edit favorite anime",
	GroupID: groupCore,
	Long: `List and edit the favorites list.

Without a subcommand, prints the ids of all favorites. With --resolve, each
id is looked up in the catalog and printed with its title.

Examples:
  journeys favorites
  journeys favorites --resolve
  journeys favorites toggle 5114
  journeys favorites clear`,
	Args: cobra.NoArgs,
	RunE: runFavoritesList,
}

var favoritesToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Add an anime to favorites, or remove it if present",
	Args:  cobra.ExactArgs(1),
	RunE:  runFavoritesToggle,
}

var favoritesClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all favorites",
	Args:  cobra.NoArgs,
	RunE:  runFavoritesClear,
}

func init() {
	favoritesCmd.Flags().BoolVar(&favoritesJSON, "json", false, "output as JSON")
	favoritesCmd.Flags().BoolVar(&favoritesResolve, "resolve", false, "look up titles in the catalog")

	favoritesCmd.AddCommand(favoritesToggleCmd)
	favoritesCmd.AddCommand(favoritesClearCmd)
	rootCmd.AddCommand(favoritesCmd)
}

type favoritesOutput struct {
	IDs   []int         `json:"ids"`
	Items []animeOutput `json:"items,omitempty"`
}

func runFavoritesList(cmd *cobra.Command, args []string) error {
	applyColorMode()

	ctx := commandContext(cmd)
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	ids := a.favs.List()
	out := favoritesOutput{IDs: ids}
	if out.IDs == nil {
		out.IDs = []int{}
	}

	if favoritesResolve && len(ids) > 0 {
		items, err := favorites.Resolve(ctx, ids, a.catalog, favorites.DefaultResolveLimit)
		if err != nil {
			a.logger.Error("favorites resolve failed", "count", len(ids), "error", err)
			return errors.New(search.ErrorMessage(err))
		}
		summaries := make([]catalog.AnimeSummary, len(items))
		for i, d := range items {
			summaries[i] = d.AnimeSummary
		}
		if !favoritesJSON {
			printList(summaries, a.favs)
			return nil
		}
		out.Items = toAnimeOutputs(summaries, a.favs)
	}

	if favoritesJSON {
		return writeJSON(out)
	}
	if len(ids) == 0 {
		fmt.Printf("%sNo favorites yet.%s\n", colorDim, colorReset)
		return nil
	}
	for _, id := range ids {
		fmt.Println(id)
	}
	return nil
}

func runFavoritesToggle(cmd *cobra.Command, args []string) error {
	applyColorMode()

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	added, err := a.favs.Toggle(ctx, id)
	if err != nil {
		return fmt.Errorf("favorite not saved: %w", err)
	}
	if added {
		fmt.Printf("%sadded%s %d\n", colorGreen, colorReset, id)
	} else {
		fmt.Printf("%sremoved%s %d\n", colorYellow, colorReset, id)
	}
	return nil
}

func runFavoritesClear(cmd *cobra.Command, args []string) error {
	applyColorMode()

	ctx := commandContext(cmd)
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	n := a.favs.Len()
	if err := a.favs.Clear(ctx); err != nil {
		return fmt.Errorf("favorites not cleared: %w", err)
	}
	fmt.Printf("removed %d favorites\n", n)
	return nil
}
