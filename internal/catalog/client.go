// Package catalog is the HTTP client for the Jikan anime catalog.
//
// Every call is a single idempotent GET. Failures are reported as
// *TransportError (the request never produced a response) or *APIError (the
// response status was not 2xx). The client never retries; the caller decides
// whether a new request is warranted.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public Jikan v4 endpoint.
	DefaultBaseURL = "https://api.jikan.moe/v4"

	// DefaultPageSize is the number of results requested per page.
	DefaultPageSize = 20

	// MaxPageSize is the largest limit the catalog accepts.
	MaxPageSize = 25

	userAgent = "jikan-journeys/1.0"

	// maxBodyBytes bounds how much of a response body is read.
	maxBodyBytes = 4 << 20
)

// Options configures a Client. Zero values select defaults.
type Options struct {
	BaseURL    string
	PageSize   int
	Timeout    time.Duration // 0 = no timeout
	RateLimit  float64       // requests per second; <= 0 = unlimited
	RateBurst  int
	HTTPClient *http.Client
}

// Client talks to the catalog API.
type Client struct {
	baseURL    string
	pageSize   int
	httpClient *http.Client
	limiter    *rate.Limiter
}

// New creates a Client.
func New(opts Options) *Client {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	burst := opts.RateBurst
	if burst < 1 {
		burst = 1
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		pageSize:   pageSize,
		httpClient: hc,
		limiter:    rate.NewLimiter(limit, burst),
	}
}

// PageSize returns the configured page size.
func (c *Client) PageSize() int {
	return c.pageSize
}

// Search fetches one page of results for req.
func (c *Client) Search(ctx context.Context, req SearchRequest) (ResultPage, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	var out listResponse
	if err := c.get(ctx, "search", c.SearchURL(req), &out); err != nil {
		return ResultPage{}, err
	}
	return out.page(page), nil
}

// SearchURL builds the request URL for req. Genre ids keep a literal comma
// separator.
func (c *Client) SearchURL(req SearchRequest) string {
	page := req.Page
	if page < 1 {
		page = 1
	}
	var b strings.Builder
	b.WriteString(c.baseURL)
	b.WriteString("/anime?q=")
	b.WriteString(url.QueryEscape(req.Query))
	b.WriteString("&page=")
	b.WriteString(strconv.Itoa(page))
	b.WriteString("&limit=")
	b.WriteString(strconv.Itoa(c.pageSize))
	if enc := req.Filters.Encode(); enc != "" {
		b.WriteByte('&')
		b.WriteString(enc)
	}
	return b.String()
}

// Top fetches one page of the top anime ranking.
func (c *Client) Top(ctx context.Context, page int) (ResultPage, error) {
	if page < 1 {
		page = 1
	}
	u := fmt.Sprintf("%s/top/anime?page=%d&limit=%d", c.baseURL, page, c.pageSize)
	var out listResponse
	if err := c.get(ctx, "top", u, &out); err != nil {
		return ResultPage{}, err
	}
	return out.page(page), nil
}

// GetByID fetches the full record of one anime.
func (c *Client) GetByID(ctx context.Context, id int) (AnimeDetail, error) {
	if id <= 0 {
		return AnimeDetail{}, fmt.Errorf("catalog: invalid anime id %d", id)
	}
	var out detailResponse
	if err := c.get(ctx, "detail", c.baseURL+"/anime/"+strconv.Itoa(id), &out); err != nil {
		return AnimeDetail{}, err
	}
	return out.Data, nil
}

// GetCharacters fetches the character list of one anime, in catalog order.
func (c *Client) GetCharacters(ctx context.Context, id int) ([]CharacterRef, error) {
	if id <= 0 {
		return nil, fmt.Errorf("catalog: invalid anime id %d", id)
	}
	var out charactersResponse
	if err := c.get(ctx, "characters", c.baseURL+"/anime/"+strconv.Itoa(id)+"/characters", &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) get(ctx context.Context, op, rawURL string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &TransportError{Op: op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Body: string(b[:min(len(b), 200)])}
	}
	if err := json.Unmarshal(b, out); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}
