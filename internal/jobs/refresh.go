// SPDX-License-Identifier: MIT

// Package jobs implements the catalog synchronization pipeline: it reconciles
// a remote directory tree with the enrichment provider and publishes the
// merged document to remote storage and the process cache.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/drivecat/drivecat/internal/alist"
	dclog "github.com/drivecat/drivecat/internal/log"
	"github.com/drivecat/drivecat/internal/metainfo"
	"github.com/drivecat/drivecat/internal/metrics"
	"github.com/drivecat/drivecat/internal/tmdb"
)

// Runner executes refresh runs. One Runner is shared by all callers; the
// embedded gate refuses concurrent runs for the same root path.
type Runner struct {
	deps Deps
	gate *gate
}

// NewRunner creates a Runner, filling in default clock and sleep functions.
func NewRunner(deps Deps) *Runner {
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.Sleep == nil {
		deps.Sleep = func(ctx context.Context, d time.Duration) {
			t := time.NewTimer(d)
			defer t.Stop()
			select {
			case <-t.C:
			case <-ctx.Done():
			}
		}
	}
	return &Runner{deps: deps, gate: newGate()}
}

// Refresh runs one full reconciliation pass for root. Listing and persist
// failures are fatal; everything else degrades and is tallied in the summary.
func (r *Runner) Refresh(ctx context.Context, root string) (*Summary, error) {
	if !r.gate.acquire(root) {
		metrics.IncRefreshFailure("gate")
		return nil, ErrRefreshInFlight
	}
	defer r.gate.release(root)

	logger := dclog.WithComponentFromContext(ctx, "jobs")
	logger.Info().
		Str(dclog.FieldEvent, "refresh.start").
		Str(dclog.FieldRoot, root).
		Msg("starting refresh")

	doc := r.loadDocument(ctx, root)

	entries, err := r.deps.Client.List(ctx, root)
	if err != nil {
		metrics.IncRefreshFailure("listing")
		metrics.RecordRefreshRun(false)
		return nil, fmt.Errorf("list %s: %w", root, err)
	}

	summary := &Summary{}
	var dirs []alist.Entry
	for _, e := range entries {
		if e.IsDir {
			dirs = append(dirs, e)
		}
	}
	summary.Total = len(dirs)
	metrics.RecordFoldersDiscovered(len(dirs))

	// Enrichment is strictly sequential, in listing order, with a fixed
	// pause after every lookup. A provider that reports itself unconfigured
	// would fail every remaining lookup the same way, so after the first
	// such error the loop stops calling out and only tallies.
	var notConfigured bool
	for _, dir := range dirs {
		if _, seen := doc.Folders[dir.Name]; seen {
			summary.Existing++
			continue
		}
		if notConfigured {
			summary.Errors++
			metrics.RecordEnrichment("error")
			continue
		}
		if err := r.enrich(ctx, doc, dir.Name, summary, logger); errors.Is(err, tmdb.ErrNotConfigured) {
			notConfigured = true
			continue
		}
		r.deps.Sleep(ctx, enrichmentDelay)
	}

	now := r.deps.Clock().UnixMilli()
	doc.LastRefresh = now
	summary.LastRefresh = now

	data, err := doc.Encode()
	if err != nil {
		metrics.IncRefreshFailure("persist")
		metrics.RecordRefreshRun(false)
		return nil, fmt.Errorf("encode document: %w", err)
	}
	docPath := metainfo.DocumentPath(root)
	if err := r.deps.Client.Put(ctx, docPath, data); err != nil {
		metrics.IncRefreshFailure("persist")
		metrics.RecordRefreshRun(false)
		return nil, fmt.Errorf("persist %s: %w", docPath, err)
	}
	logger.Info().
		Str(dclog.FieldEvent, "refresh.persisted").
		Str(dclog.FieldPath, docPath).
		Int("folders", len(doc.Folders)).
		Msg("document persisted")

	r.verify(ctx, root, logger)

	// Commit: whole-value replacement, so readers see either the prior
	// complete document or this one, never an interleaving.
	r.deps.Cache.Invalidate(root)
	r.deps.Cache.Set(root, doc)

	metrics.RecordRefreshRun(true)
	logger.Info().
		Str(dclog.FieldEvent, "refresh.success").
		Int("total", summary.Total).
		Int("new", summary.New).
		Int("existing", summary.Existing).
		Int("errors", summary.Errors).
		Msg("refresh completed")
	return summary, nil
}

// loadDocument resolves the prior document from cache or remote storage.
// Every failure here degrades to a fresh empty document. The result is
// always a private copy, safe to mutate.
func (r *Runner) loadDocument(ctx context.Context, root string) *metainfo.Document {
	logger := dclog.WithComponentFromContext(ctx, "jobs")

	if cached, ok := r.deps.Cache.Get(root); ok {
		metrics.RecordCacheLookup(true)
		return cached.Clone()
	}
	metrics.RecordCacheLookup(false)

	doc, err := metainfo.Load(ctx, r.deps.Client, root)
	if err != nil {
		logger.Warn().
			Err(err).
			Str(dclog.FieldEvent, "refresh.load_fallback").
			Str(dclog.FieldRoot, root).
			Msg("no usable document, starting empty")
		return metainfo.NewDocument(r.deps.Clock().UnixMilli())
	}
	return doc
}

// enrich looks up one unseen folder and records the outcome in doc and
// summary. A failed or empty lookup leaves doc unchanged; the lookup error,
// if any, is returned so the caller can inspect it.
func (r *Runner) enrich(ctx context.Context, doc *metainfo.Document, name string, summary *Summary, logger zerolog.Logger) error {
	res, err := r.deps.Search.Search(ctx, name)
	switch {
	case err != nil:
		summary.Errors++
		metrics.RecordEnrichment("error")
		logger.Warn().
			Err(err).
			Str(dclog.FieldEvent, "refresh.enrich_failed").
			Str(dclog.FieldFolder, name).
			Msg("enrichment lookup failed")
	case res == nil:
		summary.Errors++
		metrics.RecordEnrichment("unmatched")
		logger.Debug().
			Str(dclog.FieldEvent, "refresh.unmatched").
			Str(dclog.FieldFolder, name).
			Msg("no enrichment match")
	default:
		now := r.deps.Clock().UnixMilli()
		doc.Folders[name] = metainfo.Record{
			ExternalID:  res.ID,
			Title:       res.DisplayTitle(name),
			PosterPath:  res.PosterPath,
			ReleaseDate: res.BestReleaseDate(),
			Overview:    res.Overview,
			VoteAverage: res.VoteAverage,
			MediaType:   res.MediaType,
			LastUpdated: now,
		}
		summary.New++
		metrics.RecordEnrichment("matched")
		logger.Debug().
			Str(dclog.FieldEvent, "refresh.enriched").
			Str(dclog.FieldFolder, name).
			Str(dclog.FieldMediaType, res.MediaType).
			Msg("folder enriched")
	}
	return err
}

// verify re-reads the just-written document. Failures are observed, never
// propagated; a broken read-back must not fail an otherwise successful run.
func (r *Runner) verify(ctx context.Context, root string, logger zerolog.Logger) {
	if _, err := metainfo.Load(ctx, r.deps.Client, root); err != nil {
		metrics.IncVerificationFailure()
		logger.Warn().
			Err(err).
			Str(dclog.FieldEvent, "refresh.verify_failed").
			Str(dclog.FieldRoot, root).
			Msg("post-upload verification failed")
	}
}
