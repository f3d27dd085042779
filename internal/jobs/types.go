// SPDX-License-Identifier: MIT

package jobs

import (
	"context"
	"time"

	"github.com/drivecat/drivecat/internal/alist"
	"github.com/drivecat/drivecat/internal/cache"
	"github.com/drivecat/drivecat/internal/tmdb"
)

// DirectoryClient is the remote storage surface the refresh pipeline needs.
// Implemented by *alist.Client.
type DirectoryClient interface {
	List(ctx context.Context, dir string) ([]alist.Entry, error)
	Put(ctx context.Context, path string, content []byte) error
	ReadObject(ctx context.Context, path string) ([]byte, error)
}

// Deps holds all dependencies for the refresh pipeline.
type Deps struct {
	Client DirectoryClient
	Search tmdb.Searcher
	Cache  cache.Store

	// Clock and Sleep are injectable for tests; both default to the real
	// thing in NewRunner.
	Clock func() time.Time
	Sleep func(ctx context.Context, d time.Duration)
}

// Summary reports the counts of one completed refresh run.
type Summary struct {
	Total       int   `json:"total"`
	New         int   `json:"new"`
	Existing    int   `json:"existing"`
	Errors      int   `json:"errors"`
	LastRefresh int64 `json:"last_refresh"`
}

// enrichmentDelay is the fixed pause between enrichment lookups. It is the
// only throttle against the search provider, so lookups must stay sequential.
const enrichmentDelay = 300 * time.Millisecond
