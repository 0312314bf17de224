package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veldkamp/lexrag/ai/mock"
	"github.com/veldkamp/lexrag/core"
)

// fakeIndex is a scripted storage.Index that records search calls.
type fakeIndex struct {
	// filtered is returned for searches with a non-empty filter,
	// unfiltered for the rest.
	filtered   []*core.Hit
	unfiltered []*core.Hit
	err        error

	calls []searchCall
}

type searchCall struct {
	k      int
	filter map[string]string
}

func (f *fakeIndex) Rebuild(ctx context.Context, chunks []core.Chunk) (int, error) {
	return 0, nil
}

func (f *fakeIndex) Search(ctx context.Context, vector []float32, k int, filter map[string]string) ([]*core.Hit, error) {
	f.calls = append(f.calls, searchCall{k: k, filter: filter})
	if f.err != nil {
		return nil, f.err
	}
	hits := f.unfiltered
	if len(filter) > 0 {
		hits = f.filtered
	}
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

func (f *fakeIndex) Count(ctx context.Context) (int, error) { return 0, nil }
func (f *fakeIndex) Close() error                           { return nil }

func hit(text string) *core.Hit {
	return &core.Hit{Text: text, Metadata: core.Metadata{}}
}

func newTestRouter(t *testing.T, idx *fakeIndex) *Router {
	t.Helper()
	r, err := NewRouter(idx, mock.NewMockEmbedder())
	require.NoError(t, err)
	return r
}

func TestNewRouterValidation(t *testing.T) {
	_, err := NewRouter(nil, mock.NewMockEmbedder())
	assert.ErrorIs(t, err, ErrIndexRequired)

	_, err = NewRouter(&fakeIndex{}, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestRetrieveNonStatuteSingleSearch(t *testing.T) {
	idx := &fakeIndex{unfiltered: []*core.Hit{hit("A"), hit("B")}}
	r := newTestRouter(t, idx)

	hits, err := r.Retrieve(context.Background(), "What is the capital of France?", 4)
	require.NoError(t, err)

	assert.Len(t, hits, 2)
	require.Len(t, idx.calls, 1)
	assert.Equal(t, 4, idx.calls[0].k)
	assert.Empty(t, idx.calls[0].filter)
}

func TestRetrieveStatuteBlendsNarrowFirst(t *testing.T) {
	idx := &fakeIndex{
		filtered:   []*core.Hit{hit("A"), hit("B")},
		unfiltered: []*core.Hit{hit("B"), hit("C"), hit("D")},
	}
	r := newTestRouter(t, idx)

	hits, err := r.Retrieve(context.Background(), "What does 7:244 BW say about subletting?", 3)
	require.NoError(t, err)

	// Narrow hits lead, duplicates collapse, capped at k.
	require.Len(t, hits, 3)
	assert.Equal(t, "A", hits[0].Text)
	assert.Equal(t, "B", hits[1].Text)
	assert.Equal(t, "C", hits[2].Text)

	require.Len(t, idx.calls, 2)
	// k_narrow = max(2, 3/2) = 2, filtered by the extracted article.
	assert.Equal(t, 2, idx.calls[0].k)
	assert.Equal(t, map[string]string{core.MetaArticle: "7:244"}, idx.calls[0].filter)
	assert.Equal(t, 3, idx.calls[1].k)
	assert.Empty(t, idx.calls[1].filter)
}

func TestRetrieveStatuteWithoutArticleFiltersLaws(t *testing.T) {
	idx := &fakeIndex{
		filtered:   []*core.Hit{hit("L")},
		unfiltered: []*core.Hit{hit("G")},
	}
	r := newTestRouter(t, idx)

	_, err := r.Retrieve(context.Background(), "Wat regelt het burgerlijk wetboek over artikelen?", 4)
	require.NoError(t, err)

	require.Len(t, idx.calls, 2)
	assert.Equal(t, map[string]string{core.MetaCategory: core.CategoryLaws}, idx.calls[0].filter)
}

func TestRetrieveNarrowKFloor(t *testing.T) {
	idx := &fakeIndex{}
	r := newTestRouter(t, idx)

	_, err := r.Retrieve(context.Background(), "7:244", 2)
	require.NoError(t, err)

	require.Len(t, idx.calls, 2)
	// max(2, 2/2) keeps the narrow search meaningful for small k.
	assert.Equal(t, 2, idx.calls[0].k)
}

func TestRetrieveCapsAtK(t *testing.T) {
	idx := &fakeIndex{
		filtered:   []*core.Hit{hit("A"), hit("B")},
		unfiltered: []*core.Hit{hit("C"), hit("D"), hit("E"), hit("F")},
	}
	r := newTestRouter(t, idx)

	hits, err := r.Retrieve(context.Background(), "artikel 244 bw", 4)
	require.NoError(t, err)

	assert.Len(t, hits, 4)
	assert.Equal(t, "A", hits[0].Text)
	assert.Equal(t, "D", hits[3].Text)
}

func TestRetrieveSearchErrorPropagates(t *testing.T) {
	boom := errors.New("index unavailable")
	idx := &fakeIndex{err: boom}
	r := newTestRouter(t, idx)

	_, err := r.Retrieve(context.Background(), "7:244 bw", 4)
	assert.ErrorIs(t, err, boom)
}

func TestRetrieveEmbedderErrorPropagates(t *testing.T) {
	boom := errors.New("embedding service down")
	embedder := mock.NewMockEmbedder()
	embedder.EmbedQueryFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, boom
	}

	r, err := NewRouter(&fakeIndex{}, embedder)
	require.NoError(t, err)

	_, err = r.Retrieve(context.Background(), "anything", 4)
	assert.ErrorIs(t, err, boom)
}

func TestRetrieveInputValidation(t *testing.T) {
	r := newTestRouter(t, &fakeIndex{})

	_, err := r.Retrieve(context.Background(), "   ", 4)
	assert.ErrorIs(t, err, ErrEmptyQuestion)

	hits, err := r.Retrieve(context.Background(), "vraag", 0)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestMergeHits(t *testing.T) {
	narrow := []*core.Hit{hit("A"), hit("B")}
	broad := []*core.Hit{hit("B"), hit("C"), hit("D")}

	merged := mergeHits(narrow, broad, 3)

	require.Len(t, merged, 3)
	assert.Equal(t, "A", merged[0].Text)
	assert.Equal(t, "B", merged[1].Text)
	assert.Equal(t, "C", merged[2].Text)
}
