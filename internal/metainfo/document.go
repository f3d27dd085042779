// SPDX-License-Identifier: MIT

// Package metainfo defines the persisted catalog document and its codec.
package metainfo

import (
	"encoding/json"
	"errors"
	"fmt"
	"path"
)

// DocumentName is the well-known object name of the catalog document under a
// root path.
const DocumentName = ".drivecat.json"

// ErrParse indicates persisted bytes did not decode to the document schema.
var ErrParse = errors.New("metainfo: document does not match schema")

// Record holds the enrichment result for one remote folder.
type Record struct {
	ExternalID  int64   `json:"external_id"`
	Title       string  `json:"title"`
	PosterPath  string  `json:"poster_path"`
	ReleaseDate string  `json:"release_date"`
	Overview    string  `json:"overview"`
	VoteAverage float64 `json:"vote_average"`
	MediaType   string  `json:"media_type"`
	LastUpdated int64   `json:"last_updated"`
}

// Document is the persisted and cached catalog unit for one root path.
// Folders maps the remote folder name to its enrichment record. Timestamps
// are milliseconds since epoch.
type Document struct {
	Folders     map[string]Record `json:"folders"`
	LastRefresh int64             `json:"last_refresh"`
}

// NewDocument returns an empty document stamped with the given refresh time.
func NewDocument(nowMillis int64) *Document {
	return &Document{
		Folders:     make(map[string]Record),
		LastRefresh: nowMillis,
	}
}

// DocumentPath returns the object path of the catalog document under root.
func DocumentPath(root string) string {
	return path.Join(root, DocumentName)
}

// Parse decodes and normalizes a persisted document. Structural mismatches
// are reported as ErrParse, never silently coerced.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	doc.Normalize()
	return &doc, nil
}

// Normalize repairs a document whose folders mapping is missing.
func (d *Document) Normalize() {
	if d.Folders == nil {
		d.Folders = make(map[string]Record)
	}
}

// Encode serializes the document for upload.
func (d *Document) Encode() ([]byte, error) {
	return json.Marshal(d)
}

// Clone returns a deep copy, so a cached document can be mutated without the
// change becoming visible to concurrent readers.
func (d *Document) Clone() *Document {
	out := &Document{
		Folders:     make(map[string]Record, len(d.Folders)),
		LastRefresh: d.LastRefresh,
	}
	for name, rec := range d.Folders {
		out.Folders[name] = rec
	}
	return out
}
