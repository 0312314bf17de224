package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veldkamp/lexrag/core"
)

func lawDoc(text, sourceRel string) core.Document {
	return core.Document{
		Text: text,
		Metadata: core.Metadata{
			core.MetaCategory:  core.CategoryLaws,
			core.MetaSourceRel: sourceRel,
		},
	}
}

func TestArticleSegmenterBasic(t *testing.T) {
	seg := NewArticleSegmenter()

	doc := lawDoc("Artikel 244\nBody1\nArtikel 244a\nBody2", "laws/BW_Boek7.txt")
	out := seg.Segment(doc)

	require.Len(t, out, 2)

	assert.Equal(t, "Body1", out[0].Text)
	assert.Equal(t, "244", out[0].Metadata[core.MetaArticleNum])
	assert.Equal(t, "7:244", out[0].Metadata[core.MetaArticle])
	assert.Equal(t, "7", out[0].Metadata[core.MetaBook])

	assert.Equal(t, "Body2", out[1].Text)
	assert.Equal(t, "244a", out[1].Metadata[core.MetaArticleNum])
	assert.Equal(t, "7:244a", out[1].Metadata[core.MetaArticle])
}

func TestArticleSegmenterNoBookInPath(t *testing.T) {
	seg := NewArticleSegmenter()

	out := seg.Segment(lawDoc("Artikel 5\nInhoud", "laws/huurrecht.txt"))

	require.Len(t, out, 1)
	assert.Equal(t, "5", out[0].Metadata[core.MetaArticle])
	assert.Equal(t, "5", out[0].Metadata[core.MetaArticleNum])
	assert.NotContains(t, out[0].Metadata, core.MetaBook)
}

func TestArticleSegmenterNoHeadings(t *testing.T) {
	seg := NewArticleSegmenter()

	doc := lawDoc("Algemene bepalingen zonder artikelkoppen.", "laws/BW_Boek7.txt")
	out := seg.Segment(doc)

	// Passthrough, not an empty slice.
	require.Len(t, out, 1)
	assert.Equal(t, doc.Text, out[0].Text)
	assert.NotContains(t, out[0].Metadata, core.MetaArticle)
}

func TestArticleSegmenterHeadingLineDropped(t *testing.T) {
	seg := NewArticleSegmenter()

	out := seg.Segment(lawDoc("Artikel 12 Opzegging\nDe huurder kan opzeggen.", "laws/BW_Boek7.txt"))

	require.Len(t, out, 1)
	// The heading line, including its trailing title, is not part of the body.
	assert.Equal(t, "De huurder kan opzeggen.", out[0].Text)
	assert.Equal(t, "12", out[0].Metadata[core.MetaArticleNum])
}

func TestArticleSegmenterCaseInsensitive(t *testing.T) {
	seg := NewArticleSegmenter()

	out := seg.Segment(lawDoc("ARTIKEL 7\ninhoud", "laws/boek3.txt"))

	require.Len(t, out, 1)
	assert.Equal(t, "3:7", out[0].Metadata[core.MetaArticle])
}

func TestArticleSegmenterSkipsEmptyBodies(t *testing.T) {
	seg := NewArticleSegmenter()

	out := seg.Segment(lawDoc("Artikel 1\nArtikel 2\nInhoud van twee", "laws/BW_Boek7.txt"))

	require.Len(t, out, 1)
	assert.Equal(t, "2", out[0].Metadata[core.MetaArticleNum])
	assert.Equal(t, "Inhoud van twee", out[0].Text)
}

func TestArticleSegmenterAllEmptyBodies(t *testing.T) {
	seg := NewArticleSegmenter()

	doc := lawDoc("Artikel 1\nArtikel 2", "laws/BW_Boek7.txt")
	out := seg.Segment(doc)

	// Degenerate input falls back to the original document.
	require.Len(t, out, 1)
	assert.Equal(t, doc.Text, out[0].Text)
}

func TestArticleSegmenterDoesNotMutateParent(t *testing.T) {
	seg := NewArticleSegmenter()

	doc := lawDoc("Artikel 244\nBody", "laws/BW_Boek7.txt")
	_ = seg.Segment(doc)

	assert.NotContains(t, doc.Metadata, core.MetaArticle)
	assert.NotContains(t, doc.Metadata, core.MetaArticleNum)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	_, ok := r.Lookup(core.CategoryLaws)
	assert.True(t, ok)

	_, ok = r.Lookup("notes")
	assert.False(t, ok)

	r.Register("notes", NewArticleSegmenter())
	_, ok = r.Lookup("notes")
	assert.True(t, ok)
}
