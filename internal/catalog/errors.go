package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// TransportError means the network call itself failed: unreachable host,
// aborted request or an unreadable body.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("catalog %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Canceled reports whether the transport failed because its context was
// canceled, i.e. the request was superseded or the session torn down.
func (e *TransportError) Canceled() bool {
	return errors.Is(e.Err, context.Canceled)
}

// APIError is returned for non-2xx responses.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("catalog: HTTP %d %s", e.Status, http.StatusText(e.Status))
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
