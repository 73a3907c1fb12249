package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/b1ack-panther/jikan-journeys/internal/catalog"
	"github.com/b1ack-panther/jikan-journeys/internal/detail"
	"github.com/b1ack-panther/jikan-journeys/internal/search"
	"github.com/b1ack-panther/jikan-journeys/internal/tui"
)

var showJSON bool

var showCmd = &cobra.Command{
	Use:     "show <id>",
	Short:   "Show details and main characters of an anime",
	GroupID: groupCore,
	Long: `Show the full record of one anime together with its main characters.

The detail record and the character list are fetched concurrently. A failed
character lookup is reported without hiding the details.

Examples:
  journeys show 5114
  journeys show 1 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(showCmd)
}

type showOutput struct {
	Anime           catalog.AnimeDetail    `json:"anime"`
	MainCharacters  []catalog.CharacterRef `json:"main_characters"`
	CharactersError string                 `json:"characters_error,omitempty"`
	Favorite        bool                   `json:"favorite"`
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid anime id %q", s)
	}
	return id, nil
}

// showResult is a detail record with its characters. CharactersErr is set
// when only the character lookup failed.
type showResult struct {
	Detail        catalog.AnimeDetail
	Characters    []catalog.CharacterRef
	CharactersErr error
}

// fetchShow loads the detail record and characters concurrently. Only a
// detail failure is returned as an error.
func fetchShow(ctx context.Context, f detail.Fetcher, id int) (showResult, error) {
	var res showResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		res.Detail, err = f.GetByID(gctx, id)
		return err
	})
	g.Go(func() error {
		res.Characters, res.CharactersErr = f.GetCharacters(gctx, id)
		return nil
	})
	if err := g.Wait(); err != nil {
		return showResult{}, err
	}
	return res, nil
}

func runShow(cmd *cobra.Command, args []string) error {
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

	res, err := fetchShow(ctx, a.catalog, id)
	if err != nil {
		a.logger.Error("detail fetch failed", "id", id, "error", err)
		if catalog.IsNotFound(err) {
			return fmt.Errorf("anime %d not found", id)
		}
		return errors.New(search.ErrorMessage(err))
	}
	d, charsErr := res.Detail, res.CharactersErr
	if charsErr != nil {
		a.logger.Warn("characters fetch failed", "id", id, "error", charsErr)
	}
	mainChars := detail.FilterMain(res.Characters)

	if showJSON {
		out := showOutput{
			Anime:          d,
			MainCharacters: mainChars,
			Favorite:       a.favs.Contains(id),
		}
		if charsErr != nil {
			out.CharactersError = search.ErrorMessage(charsErr)
		}
		return writeJSON(out)
	}

	printDetail(d, a.favs.Contains(id))
	fmt.Println()
	fmt.Printf("%sMain characters%s\n", colorBold, colorReset)
	switch {
	case charsErr != nil:
		fmt.Printf("  %sFailed to fetch characters: %s%s\n", colorRed, search.ErrorMessage(charsErr), colorReset)
	case len(mainChars) == 0:
		fmt.Printf("  %sNo main characters listed.%s\n", colorDim, colorReset)
	default:
		for _, c := range mainChars {
			line := tui.Clean(c.Character.Name)
			if len(c.VoiceActors) > 0 {
				line += colorDim + " · " + tui.Clean(c.VoiceActors[0].Person.Name) + colorReset
			}
			fmt.Printf("  %s\n", line)
		}
	}
	return nil
}

func printDetail(d catalog.AnimeDetail, fav bool) {
	width := terminalWidth()

	title := tui.Clean(d.Title)
	if fav {
		title += " ♥"
	}
	fmt.Printf("%s%s%s\n", colorBold, title, colorReset)
	if d.TitleEnglish != "" && d.TitleEnglish != d.Title {
		fmt.Printf("%s%s%s\n", colorDim, tui.Clean(d.TitleEnglish), colorReset)
	}

	var facts []string
	add := func(label, value string) {
		if value != "" && value != "0" {
			facts = append(facts, label+" "+tui.Clean(value))
		}
	}
	add("type", d.Type)
	add("episodes", strconv.Itoa(d.Episodes))
	add("status", d.Status)
	add("aired", d.Aired.String)
	add("rating", d.Rating)
	add("rank", strconv.Itoa(d.Rank))
	for _, line := range tui.Wrap(strings.Join(facts, " · "), width) {
		fmt.Printf("%s%s%s\n", colorDim, line, colorReset)
	}
	if d.Score > 0 {
		fmt.Printf("%s★ %.2f%s\n", colorYellow, d.Score, colorReset)
	}
	if len(d.Genres) > 0 {
		names := make([]string, len(d.Genres))
		for i, g := range d.Genres {
			names[i] = tui.Clean(g.Name)
		}
		fmt.Printf("genres: %s\n", strings.Join(names, ", "))
	}
	if d.Synopsis != "" {
		fmt.Println()
		for _, line := range tui.Wrap(tui.Clean(d.Synopsis), width) {
			fmt.Println(line)
		}
	}
}
