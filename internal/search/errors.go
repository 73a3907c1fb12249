package search

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/b1ack-panther/jikan-journeys/internal/catalog"
)

// ErrorMessage maps a failed search onto the single message shown in place of
// the results.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *catalog.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Status == http.StatusTooManyRequests:
			return "The catalog is rate limiting requests. Try again in a moment."
		case apiErr.Status == http.StatusNotFound:
			return "Nothing matched this search."
		case apiErr.Status >= 500:
			return fmt.Sprintf("The catalog is unavailable right now (HTTP %d).", apiErr.Status)
		default:
			return fmt.Sprintf("Search failed (HTTP %d).", apiErr.Status)
		}
	}

	var tErr *catalog.TransportError
	if errors.As(err, &tErr) {
		if tErr.Canceled() {
			return "Search was canceled."
		}
		return "Could not reach the catalog. Check your connection."
	}

	return "Failed to search anime: " + err.Error()
}
