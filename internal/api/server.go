// SPDX-License-Identifier: MIT

// Package api exposes the HTTP surface of the catalog daemon.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/drivecat/drivecat/internal/api/middleware"
	"github.com/drivecat/drivecat/internal/catalog"
	"github.com/drivecat/drivecat/internal/jobs"
	dclog "github.com/drivecat/drivecat/internal/log"
)

// Refresher triggers one synchronization run. Implemented by *jobs.Runner.
type Refresher interface {
	Refresh(ctx context.Context, root string) (*jobs.Summary, error)
}

// Lister serves catalog pages. Implemented by *catalog.Service.
type Lister interface {
	List(ctx context.Context, root string, page, pageSize int) *catalog.Page
}

// Server is the HTTP API server for the catalog daemon.
type Server struct {
	root      string
	refresher Refresher
	lister    Lister
}

// NewServer creates a Server bound to one configured root path.
func NewServer(root string, refresher Refresher, lister Lister) *Server {
	return &Server{root: root, refresher: refresher, lister: lister}
}

// Router builds the chi router with the canonical middleware stack.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(dclog.Middleware())

	r.Get("/healthz", s.handleHealthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		// Refresh is expensive; keep abusive clients off it.
		r.With(httprate.LimitByIP(10, time.Minute)).
			Post("/refresh", s.handleRefresh)
		r.Get("/catalog", s.handleCatalog)
	})
	return r
}
