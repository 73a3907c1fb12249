package catalog

import (
	"slices"

	"github.com/b1ack-panther/jikan-journeys/internal/filter"
)

// SearchRequest is the unit of work submitted to the catalog.
type SearchRequest struct {
	Query   string
	Page    int
	Filters filter.Set
}

// Equivalent reports whether r and o would fetch the same page.
func (r SearchRequest) Equivalent(o SearchRequest) bool {
	return r.Query == o.Query && r.Page == o.Page && r.Filters.Equal(o.Filters)
}

// Images holds the JPG artwork URLs of an entry.
type Images struct {
	JPG struct {
		ImageURL      string `json:"image_url"`
		LargeImageURL string `json:"large_image_url"`
	} `json:"jpg"`
}

// URL returns the large image if present, else the regular one.
func (i Images) URL() string {
	if i.JPG.LargeImageURL != "" {
		return i.JPG.LargeImageURL
	}
	return i.JPG.ImageURL
}

// Named is a genre, theme or studio reference.
type Named struct {
	MalID int    `json:"mal_id"`
	Name  string `json:"name"`
}

// AnimeSummary is a search result entry. Zero numeric fields mean the value
// was missing or null.
type AnimeSummary struct {
	MalID        int     `json:"mal_id"`
	Title        string  `json:"title"`
	TitleEnglish string  `json:"title_english"`
	Type         string  `json:"type"`
	Episodes     int     `json:"episodes"`
	Score        float64 `json:"score"`
	Synopsis     string  `json:"synopsis"`
	Year         int     `json:"year"`
	Images       Images  `json:"images"`
}

// AnimeDetail is the full record returned by /anime/{id}.
type AnimeDetail struct {
	AnimeSummary
	TitleJapanese string  `json:"title_japanese"`
	Status        string  `json:"status"`
	Rating        string  `json:"rating"`
	Duration      string  `json:"duration"`
	Season        string  `json:"season"`
	ScoredBy      int     `json:"scored_by"`
	Rank          int     `json:"rank"`
	Popularity    int     `json:"popularity"`
	Members       int     `json:"members"`
	Background    string  `json:"background"`
	Genres        []Named `json:"genres"`
	Themes        []Named `json:"themes"`
	Studios       []Named `json:"studios"`
	Aired         struct {
		String string `json:"string"`
	} `json:"aired"`
}

// VoiceActor is one voice credit of a character.
type VoiceActor struct {
	Language string `json:"language"`
	Person   struct {
		MalID int    `json:"mal_id"`
		Name  string `json:"name"`
	} `json:"person"`
}

// CharacterRef is one entry of /anime/{id}/characters.
type CharacterRef struct {
	Character   Character    `json:"character"`
	Role        string       `json:"role"`
	Favorites   int          `json:"favorites"`
	VoiceActors []VoiceActor `json:"voice_actors"`
}

// Character identifies one character.
type Character struct {
	MalID  int    `json:"mal_id"`
	Name   string `json:"name"`
	Images Images `json:"images"`
}

// ResultPage is one settled page of search results. Treat it as read-only.
type ResultPage struct {
	Items       []AnimeSummary
	CurrentPage int
	LastPage    int
}

// Clone returns a copy that shares nothing with p.
func (p ResultPage) Clone() ResultPage {
	p.Items = slices.Clone(p.Items)
	return p
}

type listResponse struct {
	Data       []AnimeSummary `json:"data"`
	Pagination struct {
		CurrentPage     int  `json:"current_page"`
		LastVisiblePage int  `json:"last_visible_page"`
		HasNextPage     bool `json:"has_next_page"`
	} `json:"pagination"`
}

func (r listResponse) page(requested int) ResultPage {
	current := r.Pagination.CurrentPage
	if current < 1 {
		current = requested
	}
	last := r.Pagination.LastVisiblePage
	if last < current {
		last = current
	}
	return ResultPage{Items: r.Data, CurrentPage: current, LastPage: last}
}

type detailResponse struct {
	Data AnimeDetail `json:"data"`
}

type charactersResponse struct {
	Data []CharacterRef `json:"data"`
}
