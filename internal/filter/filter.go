// Package filter models the search constraints a user can stack on top of a
// query: a genre set, an audience rating and a score range.
//
// A Set is a plain value. Every transform returns a new canonical Set and
// never mutates its input, so two Sets built from the same choices compare
// equal with Equal regardless of the order the choices were made in.
package filter

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Rating is an audience rating understood by the catalog.
// The zero value means "any rating".
type Rating string

const (
	RatingAny   Rating = ""
	RatingG     Rating = "g"
	RatingPG    Rating = "pg"
	RatingPG13  Rating = "pg13"
	RatingR17   Rating = "r17"
	RatingRPlus Rating = "r"
)

// Valid reports whether r is RatingAny or one of the known ratings.
func (r Rating) Valid() bool {
	switch r {
	case RatingAny, RatingG, RatingPG, RatingPG13, RatingR17, RatingRPlus:
		return true
	default:
		return false
	}
}

// ParseRating parses a wire value such as "pg13". "any", "all" and the empty
// string map to RatingAny; "r+" is accepted for RatingRPlus.
func ParseRating(s string) (Rating, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "any", "all":
		return RatingAny, nil
	case "r+":
		return RatingRPlus, nil
	}
	r := Rating(s)
	if !r.Valid() {
		return RatingAny, fmt.Errorf("unknown rating %q", s)
	}
	return r, nil
}

// ScoreRange bounds the catalog score. 0 <= Min < Max <= 10.
type ScoreRange struct {
	Min float64
	Max float64
}

// ErrInvalidScoreRange is returned for ranges outside 0 <= min < max <= 10.
var ErrInvalidScoreRange = errors.New("score range must satisfy 0 <= min < max <= 10")

// NewScoreRange validates and returns a ScoreRange.
func NewScoreRange(min, max float64) (ScoreRange, error) {
	// NaN fails every comparison, so non-finite bounds land in the error branch.
	if !(min >= 0 && min < max && max <= 10) {
		return ScoreRange{}, fmt.Errorf("%w (got %s-%s)", ErrInvalidScoreRange, formatScore(min), formatScore(max))
	}
	return ScoreRange{Min: min, Max: max}, nil
}

// ParseScoreRange parses "min-max", for example "8-10" or "6.5-8".
func ParseScoreRange(s string) (ScoreRange, error) {
	lo, hi, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return ScoreRange{}, fmt.Errorf("score range %q must be in the form min-max", s)
	}
	min, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
	if err != nil {
		return ScoreRange{}, fmt.Errorf("invalid minimum score %q: %w", lo, err)
	}
	max, err := strconv.ParseFloat(strings.TrimSpace(hi), 64)
	if err != nil {
		return ScoreRange{}, fmt.Errorf("invalid maximum score %q: %w", hi, err)
	}
	return NewScoreRange(min, max)
}

// String renders the range the way ParseScoreRange accepts it.
func (r ScoreRange) String() string {
	return formatScore(r.Min) + "-" + formatScore(r.Max)
}

// Set is the canonical composition of genre, rating and score constraints.
type Set struct {
	Genres []int // sorted, unique; nil when empty
	Rating Rating
	Score  *ScoreRange
}

// Clear returns the empty Set.
func Clear() Set {
	return Set{}
}

// Canonical returns s with genres sorted and deduplicated and empty fields
// dropped.
func (s Set) Canonical() Set {
	out := Set{Rating: s.Rating}
	if len(s.Genres) > 0 {
		g := slices.Clone(s.Genres)
		slices.Sort(g)
		out.Genres = slices.Compact(g)
	}
	if s.Score != nil {
		r := *s.Score
		out.Score = &r
	}
	return out
}

// IsEmpty reports whether s constrains nothing.
func (s Set) IsEmpty() bool {
	return len(s.Genres) == 0 && s.Rating == RatingAny && s.Score == nil
}

// HasGenre reports whether id is part of the genre set.
func (s Set) HasGenre(id int) bool {
	return slices.Contains(s.Genres, id)
}

// Equal compares two sets structurally after canonicalization.
func (s Set) Equal(o Set) bool {
	a, b := s.Canonical(), o.Canonical()
	if !slices.Equal(a.Genres, b.Genres) || a.Rating != b.Rating {
		return false
	}
	if (a.Score == nil) != (b.Score == nil) {
		return false
	}
	return a.Score == nil || *a.Score == *b.Score
}

// ToggleGenre adds id to the genre set, or removes it if already present.
func ToggleGenre(s Set, id int) Set {
	out := s.Canonical()
	if i := slices.Index(out.Genres, id); i >= 0 {
		out.Genres = slices.Delete(out.Genres, i, i+1)
	} else {
		out.Genres = append(out.Genres, id)
	}
	return out.Canonical()
}

// SetRating replaces the rating; RatingAny removes it.
func SetRating(s Set, r Rating) Set {
	out := s.Canonical()
	out.Rating = r
	return out
}

// SetScoreRange replaces the score range; nil removes it.
func SetScoreRange(s Set, r *ScoreRange) Set {
	out := s.Canonical()
	out.Score = nil
	if r != nil {
		v := *r
		out.Score = &v
	}
	return out
}

// Param is one query parameter of the catalog wire form.
type Param struct {
	Key   string
	Value string
}

// Params returns the wire parameters for s, sorted by key. Absent fields are
// omitted. Values contain only digits, dots, commas and rating tokens, so they
// need no escaping.
func (s Set) Params() []Param {
	c := s.Canonical()
	var params []Param
	if len(c.Genres) > 0 {
		ids := make([]string, len(c.Genres))
		for i, id := range c.Genres {
			ids[i] = strconv.Itoa(id)
		}
		params = append(params, Param{Key: "genres", Value: strings.Join(ids, ",")})
	}
	if c.Score != nil {
		params = append(params,
			Param{Key: "max_score", Value: formatScore(c.Score.Max)},
			Param{Key: "min_score", Value: formatScore(c.Score.Min)},
		)
	}
	if c.Rating != RatingAny {
		params = append(params, Param{Key: "rating", Value: string(c.Rating)})
	}
	return params
}

// Encode renders the canonical wire form, e.g. "genres=1,2&rating=pg13".
func (s Set) Encode() string {
	params := s.Params()
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Key + "=" + p.Value
	}
	return strings.Join(parts, "&")
}

// Summary is a short human description, "" when the set is empty.
func (s Set) Summary() string {
	c := s.Canonical()
	var parts []string
	if len(c.Genres) > 0 {
		names := make([]string, len(c.Genres))
		for i, id := range c.Genres {
			names[i] = GenreName(id)
		}
		parts = append(parts, "genres: "+strings.Join(names, ", "))
	}
	if c.Rating != RatingAny {
		parts = append(parts, "rating: "+RatingLabel(c.Rating))
	}
	if c.Score != nil {
		parts = append(parts, "score: "+c.Score.String())
	}
	return strings.Join(parts, " · ")
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
