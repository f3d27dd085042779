// SPDX-License-Identifier: MIT

package tmdb

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured indicates the API key is missing; the search is not
	// attempted at all.
	ErrNotConfigured = errors.New("tmdb: api key not configured")

	// Sentinel errors for errors.Is checks at the boundary.
	ErrUpstream            = errors.New("tmdb: upstream error")
	ErrUpstreamUnavailable = errors.New("tmdb: host unreachable or transport failure")
	ErrUpstreamBadResponse = errors.New("tmdb: invalid response format or malformed data")
	ErrTimeout             = errors.New("tmdb: request timed out")
)

// APIError wraps the sentinel errors with request context.
type APIError struct {
	Sentinel  error
	Operation string
	Status    int
	Body      string
	Err       error
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("tmdb: %s: %v", e.Operation, e.Sentinel)
	if e.Status > 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Body != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Body)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *APIError) Unwrap() error {
	return e.Sentinel
}
