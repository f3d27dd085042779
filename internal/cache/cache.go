// SPDX-License-Identifier: MIT

// Package cache provides the process-wide catalog document store, keyed by
// root path. There is no TTL: staleness is controlled entirely by explicit
// invalidation from the refresh pipeline.
package cache

import (
	"sync"

	"github.com/drivecat/drivecat/internal/metainfo"
)

// Store is the keyed document cache shared by the refresh pipeline and the
// listing service.
type Store interface {
	// Get retrieves the document for a root path, or false if absent.
	Get(root string) (*metainfo.Document, bool)
	// Set stores a document for a root path. Full replacement, not a merge.
	Set(root string, doc *metainfo.Document)
	// Invalidate removes the entry for a root path.
	Invalidate(root string)
	// Stats returns cache statistics.
	Stats() Stats
}

// Stats holds cache performance metrics.
type Stats struct {
	Hits          int64 // successful Get operations
	Misses        int64 // Get operations that found nothing
	Sets          int64 // Set operations
	Invalidations int64 // Invalidate operations
	CurrentSize   int   // current number of cached roots
}

// memoryStore is the default in-memory implementation of Store.
type memoryStore struct {
	mu    sync.RWMutex
	docs  map[string]*metainfo.Document
	stats Stats
}

// NewMemoryStore creates an in-memory document store.
func NewMemoryStore() Store {
	return &memoryStore{docs: make(map[string]*metainfo.Document)}
}

func (s *memoryStore) Get(root string) (*metainfo.Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, found := s.docs[root]
	if !found {
		s.stats.Misses++
		return nil, false
	}
	s.stats.Hits++
	return doc, true
}

func (s *memoryStore) Set(root string, doc *metainfo.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[root] = doc
	s.stats.Sets++
}

func (s *memoryStore) Invalidate(root string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, root)
	s.stats.Invalidations++
}

func (s *memoryStore) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := s.stats
	stats.CurrentSize = len(s.docs)
	return stats
}
