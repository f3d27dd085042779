// SPDX-License-Identifier: MIT
package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivecat/drivecat/internal/cache"
	"github.com/drivecat/drivecat/internal/metainfo"
)

type staticReader struct {
	data  []byte
	err   error
	reads int
}

func (s *staticReader) ReadObject(ctx context.Context, path string) ([]byte, error) {
	s.reads++
	if s.err != nil {
		return nil, s.err
	}
	return s.data, nil
}

func docWithFolders(n int) *metainfo.Document {
	doc := metainfo.NewDocument(1000)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("Folder %02d", i)
		doc.Folders[name] = metainfo.Record{
			Title:       name,
			MediaType:   "movie",
			LastUpdated: int64(i), // later folders enriched later
		}
	}
	return doc
}

func TestListPagination(t *testing.T) {
	store := cache.NewMemoryStore()
	store.Set("/media", docWithFolders(25))
	svc := NewService(&staticReader{err: errors.New("unused")}, store)

	page2 := svc.List(context.Background(), "/media", 2, 10)
	assert.Len(t, page2.Items, 10)
	assert.Equal(t, 25, page2.Total)
	assert.Equal(t, 3, page2.TotalPages)
	assert.Equal(t, 2, page2.Page)

	page3 := svc.List(context.Background(), "/media", 3, 10)
	assert.Len(t, page3.Items, 5)

	page4 := svc.List(context.Background(), "/media", 4, 10)
	assert.Empty(t, page4.Items, "out-of-range pages yield an empty slice")
	assert.Equal(t, 25, page4.Total)
}

func TestListSortsByLastUpdatedDescending(t *testing.T) {
	doc := metainfo.NewDocument(1)
	doc.Folders["Oldest"] = metainfo.Record{Title: "Oldest", LastUpdated: 10}
	doc.Folders["Newest"] = metainfo.Record{Title: "Newest", LastUpdated: 30}
	doc.Folders["Middle"] = metainfo.Record{Title: "Middle", LastUpdated: 20}
	// Equal timestamps fall back to name order for stable output.
	doc.Folders["Tie B"] = metainfo.Record{Title: "Tie B", LastUpdated: 20}

	store := cache.NewMemoryStore()
	store.Set("/media", doc)
	svc := NewService(&staticReader{}, store)

	page := svc.List(context.Background(), "/media", 1, 10)
	require.Len(t, page.Items, 4)

	ids := []string{page.Items[0].ID, page.Items[1].ID, page.Items[2].ID, page.Items[3].ID}
	assert.Equal(t, []string{"Newest", "Middle", "Tie B", "Oldest"}, ids)
}

func TestListColdStartLoadsAndPopulatesCache(t *testing.T) {
	doc := docWithFolders(3)
	data, err := doc.Encode()
	require.NoError(t, err)

	reader := &staticReader{data: data}
	store := cache.NewMemoryStore()
	svc := NewService(reader, store)

	page := svc.List(context.Background(), "/media", 1, 10)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 1, reader.reads)

	// Second call is served from the cache.
	_ = svc.List(context.Background(), "/media", 1, 10)
	assert.Equal(t, 1, reader.reads)

	_, ok := store.Get("/media")
	assert.True(t, ok)
}

func TestListDegradesToEmptyOnLoadFailure(t *testing.T) {
	svc := NewService(&staticReader{err: errors.New("storage down")}, cache.NewMemoryStore())

	page := svc.List(context.Background(), "/media", 1, 10)
	require.NotNil(t, page)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.Total)
	assert.Equal(t, 0, page.TotalPages)
}

func TestListNormalizesPageArguments(t *testing.T) {
	store := cache.NewMemoryStore()
	store.Set("/media", docWithFolders(5))
	svc := NewService(&staticReader{}, store, WithDefaultPageSize(2))

	page := svc.List(context.Background(), "/media", 0, 0)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 2, page.PageSize)
	assert.Len(t, page.Items, 2)
}

func TestListBuildsPosterURL(t *testing.T) {
	doc := metainfo.NewDocument(1)
	doc.Folders["Alien (1979)"] = metainfo.Record{
		Title:      "Alien",
		PosterPath: "/vfrQk5IPloGg1v9Rzbh2Eg3VGyM.jpg",
	}
	doc.Folders["No Poster"] = metainfo.Record{Title: "No Poster"}

	store := cache.NewMemoryStore()
	store.Set("/media", doc)
	svc := NewService(&staticReader{}, store, WithPosterBase("https://img.example/t/"))

	page := svc.List(context.Background(), "/media", 1, 10)
	require.Len(t, page.Items, 2)

	byID := map[string]Item{}
	for _, it := range page.Items {
		byID[it.ID] = it
	}
	assert.Equal(t, "https://img.example/t/vfrQk5IPloGg1v9Rzbh2Eg3VGyM.jpg", byID["Alien (1979)"].Poster)
	assert.Empty(t, byID["No Poster"].Poster)
}
