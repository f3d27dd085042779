// SPDX-License-Identifier: MIT

// Package catalog produces the paginated, sorted external view of the cached
// catalog document.
package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/drivecat/drivecat/internal/cache"
	dclog "github.com/drivecat/drivecat/internal/log"
	"github.com/drivecat/drivecat/internal/metainfo"
	"github.com/drivecat/drivecat/internal/metrics"
)

// DefaultPageSize is used when the caller supplies no usable page size.
const DefaultPageSize = 20

// defaultPosterBase renders TMDB poster path fragments into fetchable URLs.
const defaultPosterBase = "https://image.tmdb.org/t/p/w500"

// Item is one catalog entry in the external view.
type Item struct {
	ID          string  `json:"id"` // the remote folder name
	Title       string  `json:"title"`
	Poster      string  `json:"poster,omitempty"`
	ReleaseDate string  `json:"release_date,omitempty"`
	Overview    string  `json:"overview,omitempty"`
	VoteAverage float64 `json:"vote_average"`
	MediaType   string  `json:"media_type"`
	LastUpdated int64   `json:"last_updated"`
}

// Page is one slice of the catalog view.
type Page struct {
	Items      []Item `json:"items"`
	Total      int    `json:"total"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	TotalPages int    `json:"total_pages"`
}

// Service serves catalog pages from the document cache, lazily loading the
// remote document on a cold start.
type Service struct {
	reader     metainfo.ObjectReader
	cache      cache.Store
	pageSize   int
	posterBase string
}

// Option configures a Service.
type Option func(*Service)

// WithDefaultPageSize overrides the fallback page size.
func WithDefaultPageSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithPosterBase overrides the poster image base URL.
func WithPosterBase(base string) Option {
	return func(s *Service) {
		if base != "" {
			s.posterBase = strings.TrimRight(base, "/")
		}
	}
}

// NewService creates a listing service.
func NewService(reader metainfo.ObjectReader, store cache.Store, opts ...Option) *Service {
	s := &Service{
		reader:     reader,
		cache:      store,
		pageSize:   DefaultPageSize,
		posterBase: defaultPosterBase,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns one page of the catalog for root, sorted by most recently
// enriched first. This is a read path: it degrades to an empty page instead
// of failing.
func (s *Service) List(ctx context.Context, root string, page, pageSize int) *Page {
	metrics.IncCatalogRequest()

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = s.pageSize
	}

	doc := s.resolve(ctx, root)
	if doc == nil {
		return &Page{Items: []Item{}, Page: page, PageSize: pageSize}
	}

	items := make([]Item, 0, len(doc.Folders))
	for name, rec := range doc.Folders {
		item := Item{
			ID:          name,
			Title:       rec.Title,
			ReleaseDate: rec.ReleaseDate,
			Overview:    rec.Overview,
			VoteAverage: rec.VoteAverage,
			MediaType:   rec.MediaType,
			LastUpdated: rec.LastUpdated,
		}
		if rec.PosterPath != "" {
			item.Poster = s.posterBase + rec.PosterPath
		}
		items = append(items, item)
	}

	// Most recently enriched first; name breaks ties so pages are stable.
	sort.Slice(items, func(i, j int) bool {
		if items[i].LastUpdated != items[j].LastUpdated {
			return items[i].LastUpdated > items[j].LastUpdated
		}
		return items[i].ID < items[j].ID
	})

	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	if start >= total {
		return &Page{Items: []Item{}, Total: total, Page: page, PageSize: pageSize, TotalPages: totalPages}
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return &Page{
		Items:      items[start:end],
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// resolve returns the cached document for root, falling back to a remote
// load that populates the cache. Returns nil when no document is available.
func (s *Service) resolve(ctx context.Context, root string) *metainfo.Document {
	if doc, ok := s.cache.Get(root); ok {
		metrics.RecordCacheLookup(true)
		return doc
	}
	metrics.RecordCacheLookup(false)

	doc, err := metainfo.Load(ctx, s.reader, root)
	if err != nil {
		logger := dclog.WithComponentFromContext(ctx, "catalog")
		logger.Warn().
			Err(err).
			Str(dclog.FieldEvent, "catalog.load_failed").
			Str(dclog.FieldRoot, root).
			Msg("no document available, serving empty listing")
		return nil
	}

	s.cache.Set(root, doc)
	return doc
}
