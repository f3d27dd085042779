// SPDX-License-Identifier: MIT

package api

import (
	"net/http"
	"strconv"

	dclog "github.com/drivecat/drivecat/internal/log"
)

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleRefresh runs one synchronization pass for the configured root and
// returns its summary counts.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	logger := dclog.WithComponentFromContext(r.Context(), "api")

	summary, err := s.refresher.Refresh(r.Context(), s.root)
	if err != nil {
		logger.Error().
			Err(err).
			Str(dclog.FieldEvent, "api.refresh_failed").
			Str(dclog.FieldRoot, s.root).
			Msg("refresh failed")
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// handleCatalog serves one page of the catalog view. The read path never
// fails; a missing document yields an empty page.
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "page_size", 0)

	result := s.lister.List(r.Context(), s.root, page, pageSize)
	writeJSON(w, http.StatusOK, result)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
