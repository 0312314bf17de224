// Copyright 2025 Veldkamp Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"
	"log/slog"
	"slices"

	"github.com/dgraph-io/badger/v4"

	"github.com/veldkamp/lexrag/core"
	"github.com/veldkamp/lexrag/storage"
)

// Index is a badger-backed storage.Index. Chunks are stored under a
// per-collection key prefix; similarity search is a full prefix scan with
// dot-product scoring, which is adequate for corpora in the tens of
// thousands of chunks.
type Index struct {
	backend     *Backend
	collection  string
	ownsBackend bool
	logger      *slog.Logger
}

// NewIndex creates an index on an existing backend. The caller keeps
// ownership of the backend; Close does not close it.
func NewIndex(backend *Backend, collection string) (storage.Index, error) {
	return newIndex(backend, collection, false)
}

// OpenIndex opens a backend at path and creates an index on it.
// Closing the index closes the backend.
func OpenIndex(path, collection string) (storage.Index, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, err
	}
	idx, err := newIndex(backend, collection, true)
	if err != nil {
		backend.Close()
		return nil, err
	}
	return idx, nil
}

func newIndex(backend *Backend, collection string, ownsBackend bool) (*Index, error) {
	if backend == nil {
		return nil, storage.ErrBackendRequired
	}
	if collection == "" {
		return nil, storage.ErrCollectionRequired
	}
	return &Index{
		backend:     backend,
		collection:  collection,
		ownsBackend: ownsBackend,
		logger:      slog.Default().With("component", "badger-index", "collection", collection),
	}, nil
}

// Rebuild replaces the whole collection with the given chunks.
func (i *Index) Rebuild(ctx context.Context, chunks []core.Chunk) (int, error) {
	for idx := range chunks {
		if len(chunks[idx].Vector) == 0 {
			return 0, storage.ErrMissingVector
		}
	}

	if err := i.deleteCollection(); err != nil {
		return 0, err
	}

	wb := i.backend.NewWriteBatch()
	defer wb.Cancel()

	for seq := range chunks {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		key := makeChunkKey(i.collection, uint64(seq))
		if err := wb.Set(key, storage.MarshalChunk(&chunks[seq])); err != nil {
			return 0, err
		}
	}
	if err := wb.Flush(); err != nil {
		return 0, err
	}

	i.logger.Info("collection rebuilt", "chunks", len(chunks))
	return len(chunks), nil
}

// deleteCollection removes every key under the collection prefix.
func (i *Index) deleteCollection() error {
	var keys [][]byte
	err := i.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = collectionPrefix(i.collection)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			keys = append(keys, iter.Item().KeyCopy(nil))
		}
		return nil
	}, false)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}

	wb := i.backend.NewWriteBatch()
	defer wb.Cancel()
	for _, key := range keys {
		if err := wb.Delete(key); err != nil {
			return err
		}
	}
	return wb.Flush()
}

// Search scans the collection and returns the k best hits by dot product.
// Vectors from the embedding services are normalized, so dot product and
// cosine similarity coincide.
func (i *Index) Search(ctx context.Context, vector []float32, k int, filter map[string]string) ([]*core.Hit, error) {
	if k <= 0 {
		return nil, nil
	}

	var hits []*core.Hit
	err := i.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = collectionPrefix(i.collection)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var chunk *core.Chunk
			err := iter.Item().Value(func(val []byte) error {
				var err error
				chunk, err = storage.UnmarshalChunk(val)
				return err
			})
			if err != nil {
				return err
			}
			if chunk == nil || len(chunk.Vector) == 0 {
				continue
			}
			if !matchesFilter(chunk.Metadata, filter) {
				continue
			}

			hits = append(hits, &core.Hit{
				Text:     chunk.Text,
				Metadata: chunk.Metadata,
				Score:    dotProduct(vector, chunk.Vector),
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// Sort by similarity descending
	slices.SortFunc(hits, func(a, b *core.Hit) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Count returns the number of chunks in the collection.
func (i *Index) Count(ctx context.Context) (int, error) {
	count := 0
	err := i.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = collectionPrefix(i.collection)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Close closes the backend when the index owns it.
func (i *Index) Close() error {
	if i.ownsBackend {
		return i.backend.Close()
	}
	return nil
}

// matchesFilter reports whether metadata satisfies every filter field.
func matchesFilter(md core.Metadata, filter map[string]string) bool {
	for key, want := range filter {
		if md[key] != want {
			return false
		}
	}
	return true
}

// dotProduct calculates the dot product of two vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
