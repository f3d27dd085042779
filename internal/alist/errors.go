// SPDX-License-Identifier: MIT

package alist

import (
	"errors"
	"fmt"
)

var (
	// Sentinel errors for errors.Is checks at the boundary.
	ErrUpstream            = errors.New("alist: upstream error")
	ErrUpstreamUnavailable = errors.New("alist: host unreachable or transport failure")
	ErrUpstreamBadResponse = errors.New("alist: invalid response format or malformed data")
	ErrTimeout             = errors.New("alist: request timed out")
	ErrNoDownloadURL       = errors.New("alist: object has no usable download url")
)

// APIError is a rich error type that wraps the sentinel errors with context.
type APIError struct {
	Sentinel  error
	Operation string
	Status    int    // upstream HTTP status, if any
	Code      int    // AList business code from the response envelope
	Body      string
	Err       error // nested lower-level error (e.g. net.Error)
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("alist: %s: %v", e.Operation, e.Sentinel)
	if e.Status > 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Code > 0 && e.Code != e.Status {
		msg = fmt.Sprintf("%s (code %d)", msg, e.Code)
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
