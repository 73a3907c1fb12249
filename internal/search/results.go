package search

import "github.com/b1ack-panther/jikan-journeys/internal/catalog"

// Results holds the last settled result page. It survives a failed request so
// that a page change can act as a retry.
type Results struct {
	page *catalog.ResultPage
}

// Apply replaces the held page with a copy of p.
func (r *Results) Apply(p catalog.ResultPage) {
	c := p.Clone()
	r.page = &c
}

// Clear drops the held page.
func (r *Results) Clear() { r.page = nil }

// Page returns the held page, or nil.
func (r *Results) Page() *catalog.ResultPage {
	if r.page == nil {
		return nil
	}
	c := r.page.Clone()
	return &c
}

// CurrentPage returns the page number of the held page, or 0.
func (r *Results) CurrentPage() int {
	if r.page == nil {
		return 0
	}
	return r.page.CurrentPage
}

// LastPage returns the last known page number, or 0.
func (r *Results) LastPage() int {
	if r.page == nil {
		return 0
	}
	return r.page.LastPage
}

// ValidPage reports whether n is a page that can be requested.
func (r *Results) ValidPage(n int) bool {
	return n >= 1 && n <= r.LastPage()
}
