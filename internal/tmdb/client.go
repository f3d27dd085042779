// SPDX-License-Identifier: MIT

// Package tmdb implements the metadata search client used for catalog
// enrichment.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// DefaultBaseURL is the production TMDB API root.
const DefaultBaseURL = "https://api.themoviedb.org/3"

const (
	directTimeout = 15 * time.Second
	proxyTimeout  = 30 * time.Second
)

// Result represents a single TMDB search match.
type Result struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	MediaType    string  `json:"media_type"`
	VoteAverage  float64 `json:"vote_average"`
}

// Response models the TMDB paginated search response.
type Response struct {
	Page         int      `json:"page"`
	Results      []Result `json:"results"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
}

// Searcher is the search operation consumed by the refresh pipeline.
type Searcher interface {
	Search(ctx context.Context, query string) (*Result, error)
}

// Client queries TMDB for the best-matching title record.
type Client struct {
	apiKey   string
	baseURL  string
	language string
	proxy    string
	http     *http.Client
}

var _ Searcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root (tests).
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithProxy routes requests through the given HTTP(S) proxy address.
func WithProxy(proxy string) Option {
	return func(c *Client) {
		c.proxy = strings.TrimSpace(proxy)
	}
}

// WithHTTPClient overrides the underlying HTTP client (tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// New creates a TMDB client. An empty API key is allowed; searches will then
// fail with ErrNotConfigured until a key is provisioned.
func New(apiKey, language string, opts ...Option) *Client {
	c := &Client{
		apiKey:   strings.TrimSpace(apiKey),
		baseURL:  DefaultBaseURL,
		language: strings.TrimSpace(language),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = newHTTPClient(c.proxy)
	}
	return c
}

// proxyTransports caches one transport per distinct proxy address so that
// proxy connections are pooled for the lifetime of the process.
var (
	proxyMu         sync.Mutex
	proxyTransports = make(map[string]*http.Transport)
)

func newHTTPClient(proxy string) *http.Client {
	if proxy == "" {
		return &http.Client{Timeout: directTimeout}
	}
	proxyMu.Lock()
	defer proxyMu.Unlock()
	tr, ok := proxyTransports[proxy]
	if !ok {
		proxyURL, err := url.Parse(proxy)
		if err != nil {
			// An unparseable proxy address falls back to a direct client.
			return &http.Client{Timeout: directTimeout}
		}
		tr = &http.Transport{
			Proxy:           http.ProxyURL(proxyURL),
			MaxConnsPerHost: 10,
			MaxIdleConns:    5,
		}
		proxyTransports[proxy] = tr
	}
	return &http.Client{Transport: tr, Timeout: proxyTimeout}
}

// Search issues a single multi search for query and returns the first result
// that is a movie or a TV show. A nil result with a nil error means the
// provider had no usable match.
func (c *Client) Search(ctx context.Context, query string) (*Result, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("tmdb: query must not be empty")
	}

	endpoint, err := url.Parse(c.baseURL + "/search/multi")
	if err != nil {
		return nil, fmt.Errorf("tmdb: parse url: %w", err)
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("api_key", c.apiKey)
	params.Set("include_adult", "false")
	if c.language != "" {
		params.Set("language", c.language)
	}
	endpoint.RawQuery = params.Encode()

	timeout := directTimeout
	if c.proxy != "" {
		timeout = proxyTimeout
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, &APIError{Sentinel: ErrUpstream, Operation: "search", Err: err}
	}

	res, err := c.http.Do(req)
	if err != nil {
		return nil, transportError("search", err)
	}
	defer res.Body.Close() //nolint:errcheck

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, &APIError{
			Sentinel:  ErrUpstream,
			Operation: "search",
			Status:    res.StatusCode,
			Body:      strings.TrimSpace(string(body)),
		}
	}

	var payload Response
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, &APIError{Sentinel: ErrUpstreamBadResponse, Operation: "search", Err: err}
	}

	for i := range payload.Results {
		r := payload.Results[i]
		if r.MediaType == "movie" || r.MediaType == "tv" {
			return &r, nil
		}
	}
	return nil, nil
}

// DisplayTitle returns the best human-readable title for a result, falling
// back to the provided name when the provider supplied none.
func (r *Result) DisplayTitle(fallback string) string {
	switch {
	case r.Title != "":
		return r.Title
	case r.Name != "":
		return r.Name
	default:
		return fallback
	}
}

// BestReleaseDate returns the movie release date, the series first-air date,
// or the empty string.
func (r *Result) BestReleaseDate() string {
	if r.ReleaseDate != "" {
		return r.ReleaseDate
	}
	return r.FirstAirDate
}

func transportError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &APIError{Sentinel: ErrTimeout, Operation: op, Err: err}
	}
	var ne interface{ Timeout() bool }
	if errors.As(err, &ne) && ne.Timeout() {
		return &APIError{Sentinel: ErrTimeout, Operation: op, Err: err}
	}
	return &APIError{Sentinel: ErrUpstreamUnavailable, Operation: op, Err: err}
}
