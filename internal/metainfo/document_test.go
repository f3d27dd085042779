// SPDX-License-Identifier: MIT
package metainfo

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentRoundTrip(t *testing.T) {
	doc := &Document{
		Folders: map[string]Record{
			"Alien (1979)": {
				ExternalID:  348,
				Title:       "Alien",
				PosterPath:  "/vfrQk5IPloGg1v9Rzbh2Eg3VGyM.jpg",
				ReleaseDate: "1979-05-25",
				Overview:    "During its return to the earth...",
				VoteAverage: 8.1,
				MediaType:   "movie",
				LastUpdated: 1750000000000,
			},
			// Zero values must survive the round trip unchanged.
			"Unmatched Folder": {
				Title:     "Unmatched Folder",
				MediaType: "movie",
			},
		},
		LastRefresh: 1750000001000,
	}

	data, err := doc.Encode()
	require.NoError(t, err)

	parsed, err := Parse(data)
	require.NoError(t, err)

	if diff := cmp.Diff(doc, parsed); diff != "" {
		t.Fatalf("document changed across round trip (-want +got):\n%s", diff)
	}
}

func TestParseRejectsMalformedBytes(t *testing.T) {
	_, err := Parse([]byte("<html>not json</html>"))
	assert.ErrorIs(t, err, ErrParse)

	_, err = Parse([]byte(`{"folders": 42}`))
	assert.ErrorIs(t, err, ErrParse)
}

func TestParseNormalizesMissingFolders(t *testing.T) {
	doc, err := Parse([]byte(`{"last_refresh": 123}`))
	require.NoError(t, err)
	require.NotNil(t, doc.Folders)
	assert.Empty(t, doc.Folders)
	assert.Equal(t, int64(123), doc.LastRefresh)
}

func TestDocumentPath(t *testing.T) {
	assert.Equal(t, "/media/.drivecat.json", DocumentPath("/media"))
	assert.Equal(t, "/media/.drivecat.json", DocumentPath("/media/"))
}

func TestCloneIsDeep(t *testing.T) {
	doc := NewDocument(1)
	doc.Folders["a"] = Record{Title: "A"}

	clone := doc.Clone()
	clone.Folders["a"] = Record{Title: "changed"}
	clone.Folders["b"] = Record{Title: "B"}

	assert.Equal(t, "A", doc.Folders["a"].Title)
	assert.NotContains(t, doc.Folders, "b")
}

type staticReader struct {
	data []byte
	err  error
}

func (s *staticReader) ReadObject(ctx context.Context, path string) ([]byte, error) {
	return s.data, s.err
}

func TestLoad(t *testing.T) {
	doc, err := Load(context.Background(), &staticReader{data: []byte(`{"folders":{},"last_refresh":7}`)}, "/media")
	require.NoError(t, err)
	assert.Equal(t, int64(7), doc.LastRefresh)

	_, err = Load(context.Background(), &staticReader{err: errors.New("gone")}, "/media")
	assert.Error(t, err)

	_, err = Load(context.Background(), &staticReader{data: []byte("junk")}, "/media")
	assert.ErrorIs(t, err, ErrParse)
}
