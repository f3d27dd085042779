// SPDX-License-Identifier: MIT

package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivecat/drivecat/internal/metainfo"
)

func TestMemoryStore_GetSet(t *testing.T) {
	store := NewMemoryStore()

	doc := metainfo.NewDocument(100)
	doc.Folders["Alien (1979)"] = metainfo.Record{Title: "Alien", MediaType: "movie"}
	store.Set("/media", doc)

	got, ok := store.Get("/media")
	require.True(t, ok, "expected to find /media")
	assert.Equal(t, int64(100), got.LastRefresh)
	assert.Contains(t, got.Folders, "Alien (1979)")

	_, ok = store.Get("/other")
	assert.False(t, ok, "expected not to find /other")
}

func TestMemoryStore_SetReplacesWholeDocument(t *testing.T) {
	store := NewMemoryStore()

	first := metainfo.NewDocument(1)
	first.Folders["a"] = metainfo.Record{Title: "A"}
	store.Set("/media", first)

	second := metainfo.NewDocument(2)
	second.Folders["b"] = metainfo.Record{Title: "B"}
	store.Set("/media", second)

	got, ok := store.Get("/media")
	require.True(t, ok)
	assert.NotContains(t, got.Folders, "a", "Set must replace, not merge")
	assert.Contains(t, got.Folders, "b")
}

func TestMemoryStore_Invalidate(t *testing.T) {
	store := NewMemoryStore()
	store.Set("/media", metainfo.NewDocument(1))

	_, ok := store.Get("/media")
	require.True(t, ok)

	store.Invalidate("/media")

	_, ok = store.Get("/media")
	assert.False(t, ok)
}

func TestMemoryStore_Stats(t *testing.T) {
	store := NewMemoryStore()

	store.Set("/a", metainfo.NewDocument(1))
	store.Set("/b", metainfo.NewDocument(2))
	_, _ = store.Get("/a")
	_, _ = store.Get("/missing")
	store.Invalidate("/b")

	stats := store.Stats()
	assert.Equal(t, int64(2), stats.Sets)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(1), stats.Invalidations)
	assert.Equal(t, 1, stats.CurrentSize)
}
