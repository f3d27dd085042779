// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/drivecat/drivecat/internal/alist"
	"github.com/drivecat/drivecat/internal/config"
	"github.com/drivecat/drivecat/internal/jobs"
	"github.com/drivecat/drivecat/internal/log"
	"github.com/drivecat/drivecat/internal/tmdb"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps internal error taxonomy onto HTTP statuses. The response
// carries a stable machine-readable code plus the request ID for correlation.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	code := "internal_error"

	switch {
	case errors.Is(err, jobs.ErrRefreshInFlight):
		status = http.StatusConflict
		code = "refresh_in_flight"
	case errors.Is(err, config.ErrConfig), errors.Is(err, tmdb.ErrNotConfigured):
		status = http.StatusInternalServerError
		code = "not_configured"
	case errors.Is(err, alist.ErrTimeout), errors.Is(err, tmdb.ErrTimeout):
		status = http.StatusGatewayTimeout
		code = "upstream_timeout"
	case errors.Is(err, alist.ErrUpstream),
		errors.Is(err, alist.ErrUpstreamUnavailable),
		errors.Is(err, alist.ErrUpstreamBadResponse),
		errors.Is(err, tmdb.ErrUpstream),
		errors.Is(err, tmdb.ErrUpstreamUnavailable):
		status = http.StatusBadGateway
		code = "upstream_error"
	}

	writeJSON(w, status, map[string]any{
		"error":      code,
		"detail":     err.Error(),
		"request_id": log.RequestIDFromContext(r.Context()),
	})
}
