// SPDX-License-Identifier: MIT

package metainfo

import "context"

// ObjectReader fetches the raw bytes of a remote object by path, resolving
// its download descriptor first. Implemented by *alist.Client.
type ObjectReader interface {
	ReadObject(ctx context.Context, path string) ([]byte, error)
}

// Load fetches and parses the catalog document stored under root. Callers
// decide whether a failure is fatal; both the refresh pipeline and the
// listing fallback treat it as "no document yet".
func Load(ctx context.Context, r ObjectReader, root string) (*Document, error) {
	data, err := r.ReadObject(ctx, DocumentPath(root))
	if err != nil {
		return nil, err
	}
	return Parse(data)
}
