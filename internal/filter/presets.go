package filter

import (
	"fmt"
	"strconv"
	"strings"
)

// Genre is a catalog genre offered in the filter bar.
type Genre struct {
	ID   int
	Name string
}

// PopularGenres are the genres offered for quick toggling.
var PopularGenres = []Genre{
	{ID: 1, Name: "Action"},
	{ID: 2, Name: "Adventure"},
	{ID: 4, Name: "Comedy"},
	{ID: 8, Name: "Drama"},
	{ID: 10, Name: "Fantasy"},
	{ID: 22, Name: "Romance"},
	{ID: 24, Name: "Sci-Fi"},
	{ID: 36, Name: "Slice of Life"},
}

// RatingOption pairs a rating with its display label.
type RatingOption struct {
	Rating Rating
	Label  string
}

// Ratings lists the selectable ratings in display order.
var Ratings = []RatingOption{
	{Rating: RatingG, Label: "G - All Ages"},
	{Rating: RatingPG, Label: "PG - Children"},
	{Rating: RatingPG13, Label: "PG-13 - Teens 13+"},
	{Rating: RatingR17, Label: "R - 17+"},
	{Rating: RatingRPlus, Label: "R+ - Mild Nudity"},
}

// ScorePresets are the score ranges offered in the filter bar.
var ScorePresets = []ScoreRange{
	{Min: 8, Max: 10},
	{Min: 6, Max: 8},
	{Min: 4, Max: 6},
	{Min: 0, Max: 4},
}

// GenreName returns the name of a popular genre, or "#<id>" for others.
func GenreName(id int) string {
	for _, g := range PopularGenres {
		if g.ID == id {
			return g.Name
		}
	}
	return "#" + strconv.Itoa(id)
}

// LookupGenre resolves a popular genre name, case-insensitively.
func LookupGenre(name string) (int, bool) {
	for _, g := range PopularGenres {
		if strings.EqualFold(g.Name, name) {
			return g.ID, true
		}
	}
	return 0, false
}

// ParseGenre accepts a positive genre id or a popular genre name.
func ParseGenre(arg string) (int, error) {
	if id, err := strconv.Atoi(arg); err == nil {
		if id <= 0 {
			return 0, fmt.Errorf("genre: invalid id %d", id)
		}
		return id, nil
	}
	if id, ok := LookupGenre(arg); ok {
		return id, nil
	}
	return 0, fmt.Errorf("genre: unknown genre %q", arg)
}

// RatingLabel returns the display label for r.
func RatingLabel(r Rating) string {
	for _, o := range Ratings {
		if o.Rating == r {
			return o.Label
		}
	}
	if r == RatingAny {
		return "All Ratings"
	}
	return string(r)
}
