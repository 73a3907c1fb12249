package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/b1ack-panther/jikan-journeys/internal/catalog"
	"github.com/b1ack-panther/jikan-journeys/internal/favorites"
	"github.com/b1ack-panther/jikan-journeys/internal/tui"
)

// animeOutput is the JSON form of one list entry.
type animeOutput struct {
	MalID    int     `json:"mal_id"`
	Title    string  `json:"title"`
	Type     string  `json:"type,omitempty"`
	Episodes int     `json:"episodes,omitempty"`
	Year     int     `json:"year,omitempty"`
	Score    float64 `json:"score,omitempty"`
	Favorite bool    `json:"favorite"`
}

type pageOutput struct {
	Query       string        `json:"query,omitempty"`
	Filters     string        `json:"filters,omitempty"`
	CurrentPage int           `json:"current_page"`
	LastPage    int           `json:"last_page"`
	Results     []animeOutput `json:"results"`
	ShareURL    string        `json:"share_url,omitempty"`
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func toAnimeOutputs(items []catalog.AnimeSummary, favs *favorites.Store) []animeOutput {
	out := make([]animeOutput, len(items))
	for i, a := range items {
		out[i] = animeOutput{
			MalID:    a.MalID,
			Title:    tui.Clean(a.Title),
			Type:     a.Type,
			Episodes: a.Episodes,
			Year:     a.Year,
			Score:    a.Score,
			Favorite: favs != nil && favs.Contains(a.MalID),
		}
	}
	return out
}

// printList writes one line per entry, prefixed with its catalog id.
func printList(items []catalog.AnimeSummary, favs *favorites.Store) {
	width := terminalWidth()
	for _, a := range items {
		fav := favs != nil && favs.Contains(a.MalID)
		fmt.Printf("%s%7d%s  %s\n", colorDim, a.MalID, colorReset, tui.SummaryLine(a, width-9, fav))
	}
}

func printPageFooter(page catalog.ResultPage) {
	fmt.Printf("%spage %d of %d%s\n", colorDim, page.CurrentPage, page.LastPage, colorReset)
}
