package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/b1ack-panther/jikan-journeys/internal/filter"
)

// filterFlags are the --genre, --rating and --score flags shared by the UI and
// the search command.
type filterFlags struct {
	genres []string
	rating string
	score  string
}

func (f *filterFlags) register(c *cobra.Command) {
	c.Flags().StringSliceVarP(&f.genres, "genre", "g", nil, "genre id or name; repeat or comma-separate for several")
	c.Flags().StringVarP(&f.rating, "rating", "r", "", "age rating: g, pg, pg13, r17, r (or r+) or any")
	c.Flags().StringVarP(&f.score, "score", "s", "", "score range min-max, e.g. 8-10")
}

// set builds the canonical filter set the flags describe.
func (f *filterFlags) set() (filter.Set, error) {
	var s filter.Set
	for _, g := range f.genres {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		id, err := filter.ParseGenre(g)
		if err != nil {
			return filter.Set{}, fmt.Errorf("--genre: %w", err)
		}
		if !s.HasGenre(id) {
			s = filter.ToggleGenre(s, id)
		}
	}

	r, err := filter.ParseRating(f.rating)
	if err != nil {
		return filter.Set{}, fmt.Errorf("--rating: %w", err)
	}
	s = filter.SetRating(s, r)

	if v := strings.TrimSpace(f.score); v != "" && !strings.EqualFold(v, "any") {
		sr, err := filter.ParseScoreRange(v)
		if err != nil {
			return filter.Set{}, fmt.Errorf("--score: %w", err)
		}
		s = filter.SetScoreRange(s, &sr)
	}
	return s.Canonical(), nil
}
