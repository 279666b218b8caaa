package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Read when no object exists at the path.
var ErrNotFound = errors.New("storage: object not found")

// Store is the blob storage collaborator used by every pipeline stage.
// Objects are opaque byte blobs addressed by slash-separated paths.
// Writes overwrite whole objects; there are no multi-object transactions.
type Store interface {
	// Read returns the object at path, or ErrNotFound.
	Read(ctx context.Context, path string) ([]byte, error)
	// Write stores the object at path, replacing any previous content.
	Write(ctx context.Context, path string, data []byte) error
	// List returns the paths under prefix in lexicographic order.
	List(ctx context.Context, prefix string) ([]string, error)
	Close() error
}
