package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veldkamp/lexrag/core"
	"github.com/veldkamp/lexrag/storage"
)

func testChunks() []core.Chunk {
	return []core.Chunk{
		{
			Text:     "De huurder mag onderverhuren.",
			Metadata: core.Metadata{core.MetaCategory: core.CategoryLaws, core.MetaArticle: "7:244"},
			Vector:   []float32{1, 0, 0},
		},
		{
			Text:     "De verhuurder beslist over de huurprijs.",
			Metadata: core.Metadata{core.MetaCategory: core.CategoryLaws, core.MetaArticle: "7:245"},
			Vector:   []float32{0, 1, 0},
		},
		{
			Text:     "Aantekening over huurrecht.",
			Metadata: core.Metadata{core.MetaCategory: "notes"},
			Vector:   []float32{0.7, 0.7, 0},
		},
	}
}

func newTestIndex(t *testing.T) storage.Index {
	t.Helper()
	idx, _, err := NewMemoryIndex("test_collection")
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })
	return idx
}

func TestIndexRebuildAndCount(t *testing.T) {
	ctx := context.Background()
	idx := newTestIndex(t)

	n, err := idx.Rebuild(ctx, testChunks())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	count, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestIndexRebuildReplaces(t *testing.T) {
	ctx := context.Background()
	idx := newTestIndex(t)

	_, err := idx.Rebuild(ctx, testChunks())
	require.NoError(t, err)

	// Rebuilding with the same corpus must not grow the collection.
	_, err = idx.Rebuild(ctx, testChunks())
	require.NoError(t, err)

	count, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestIndexRebuildEmpty(t *testing.T) {
	ctx := context.Background()
	idx := newTestIndex(t)

	_, err := idx.Rebuild(ctx, testChunks())
	require.NoError(t, err)

	n, err := idx.Rebuild(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	count, err := idx.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestIndexRebuildRejectsMissingVector(t *testing.T) {
	ctx := context.Background()
	idx := newTestIndex(t)

	chunks := testChunks()
	chunks[1].Vector = nil

	_, err := idx.Rebuild(ctx, chunks)
	assert.ErrorIs(t, err, storage.ErrMissingVector)
}

func TestIndexSearchRanking(t *testing.T) {
	ctx := context.Background()
	idx := newTestIndex(t)

	_, err := idx.Rebuild(ctx, testChunks())
	require.NoError(t, err)

	hits, err := idx.Search(ctx, []float32{1, 0, 0}, 3, nil)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, "7:244", hits[0].Metadata[core.MetaArticle])
	for i := 1; i < len(hits); i++ {
		assert.LessOrEqual(t, hits[i].Score, hits[i-1].Score)
	}
}

func TestIndexSearchFilter(t *testing.T) {
	ctx := context.Background()
	idx := newTestIndex(t)

	_, err := idx.Rebuild(ctx, testChunks())
	require.NoError(t, err)

	t.Run("article filter", func(t *testing.T) {
		hits, err := idx.Search(ctx, []float32{1, 0, 0}, 10, map[string]string{core.MetaArticle: "7:245"})
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, "7:245", hits[0].Metadata[core.MetaArticle])
	})

	t.Run("category filter", func(t *testing.T) {
		hits, err := idx.Search(ctx, []float32{1, 0, 0}, 10, map[string]string{core.MetaCategory: core.CategoryLaws})
		require.NoError(t, err)
		assert.Len(t, hits, 2)
	})

	t.Run("conjunction", func(t *testing.T) {
		hits, err := idx.Search(ctx, []float32{1, 0, 0}, 10, map[string]string{
			core.MetaCategory: core.CategoryLaws,
			core.MetaArticle:  "7:244",
		})
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, "7:244", hits[0].Metadata[core.MetaArticle])
	})

	t.Run("missing field never matches", func(t *testing.T) {
		hits, err := idx.Search(ctx, []float32{1, 0, 0}, 10, map[string]string{core.MetaArticle: "9:1"})
		require.NoError(t, err)
		assert.Empty(t, hits)
	})
}

func TestIndexSearchLimit(t *testing.T) {
	ctx := context.Background()
	idx := newTestIndex(t)

	_, err := idx.Rebuild(ctx, testChunks())
	require.NoError(t, err)

	hits, err := idx.Search(ctx, []float32{1, 0, 0}, 1, nil)
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	hits, err = idx.Search(ctx, []float32{1, 0, 0}, 0, nil)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestNewIndexValidation(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	_, err = NewIndex(nil, "c")
	assert.ErrorIs(t, err, storage.ErrBackendRequired)

	_, err = NewIndex(backend, "")
	assert.ErrorIs(t, err, storage.ErrCollectionRequired)
}
