package storage

import (
	"context"

	"github.com/veldkamp/lexrag/core"
)

// Index is a searchable vector collection of chunks.
// Implementations must be thread-safe and support concurrent access.
type Index interface {
	// Rebuild replaces the entire collection with the given chunks and
	// returns the number of chunks written. Chunks without vectors are
	// rejected. Rebuilding with an empty slice empties the collection.
	Rebuild(ctx context.Context, chunks []core.Chunk) (int, error)

	// Search returns up to k hits ranked by descending similarity to the
	// query vector. A non-empty filter is an exact-match conjunction over
	// chunk metadata fields; chunks missing a filtered field do not match.
	// Search never mutates the index.
	Search(ctx context.Context, vector []float32, k int, filter map[string]string) ([]*core.Hit, error)

	// Count returns the number of chunks in the collection.
	Count(ctx context.Context) (int, error)

	// Close releases resources held by the index.
	Close() error
}
