// Package objectstore abstracts where backup artifacts live. The
// service layer only sees keys and byte slices; the backing store can
// be a local directory or any blob store that implements Store.
package objectstore

import "context"

// Store is a flat key/value blob store.
type Store interface {
	// Put writes data under key, overwriting any existing object.
	Put(ctx context.Context, key string, data []byte) error
	// Get returns the object stored under key, or domain.ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete removes the object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
