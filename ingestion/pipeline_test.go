package ingestion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veldkamp/lexrag/core"
	"github.com/veldkamp/lexrag/splitter"
)

func testConfig() splitter.Config {
	cfg := splitter.DefaultConfig()
	cfg.Strategy = splitter.StrategyRecursive
	return cfg
}

func TestPipelineChunkLawDocument(t *testing.T) {
	p, err := NewPipeline(testConfig())
	require.NoError(t, err)

	doc := lawDoc("Artikel 244\nDe huurder mag onderverhuren.\nArtikel 245\nDe verhuurder beslist.", "laws/BW_Boek7.txt")
	chunks, err := p.Chunk([]core.Document{doc})
	require.NoError(t, err)

	require.Len(t, chunks, 2)
	assert.Equal(t, "De huurder mag onderverhuren.", chunks[0].Text)
	assert.Equal(t, "7:244", chunks[0].Metadata[core.MetaArticle])
	assert.Equal(t, "7:245", chunks[1].Metadata[core.MetaArticle])
	// Parent metadata propagates to every chunk.
	assert.Equal(t, core.CategoryLaws, chunks[0].Metadata[core.MetaCategory])
	assert.Equal(t, "laws/BW_Boek7.txt", chunks[0].Metadata[core.MetaSourceRel])
}

func TestPipelineChunkOtherCategorySkipsSegmentation(t *testing.T) {
	p, err := NewPipeline(testConfig())
	require.NoError(t, err)

	doc := core.Document{
		Text: "Artikel 244\nDit is een aantekening, geen wettekst.",
		Metadata: core.Metadata{
			core.MetaCategory:  "notes",
			core.MetaSourceRel: "notes/huur.md",
		},
	}
	chunks, err := p.Chunk([]core.Document{doc})
	require.NoError(t, err)

	require.Len(t, chunks, 1)
	assert.NotContains(t, chunks[0].Metadata, core.MetaArticle)
	assert.Contains(t, chunks[0].Text, "Artikel 244")
}

func TestPipelineOversizedArticleStillSplit(t *testing.T) {
	cfg := testConfig()
	cfg.Size = 100
	cfg.Overlap = 0
	p, err := NewPipeline(cfg)
	require.NoError(t, err)

	body := strings.Repeat("De huurprijs wordt jaarlijks herzien. ", 12)
	doc := lawDoc("Artikel 246\n"+body, "laws/BW_Boek7.txt")

	chunks, err := p.Chunk([]core.Document{doc})
	require.NoError(t, err)

	// Article boundaries are soft hints, not hard caps.
	assert.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c.Text), 100)
		assert.Equal(t, "7:246", c.Metadata[core.MetaArticle])
		assert.NotEmpty(t, c.Text)
	}
}

func TestPipelinePageMetadataPropagates(t *testing.T) {
	p, err := NewPipeline(testConfig())
	require.NoError(t, err)

	doc := core.Document{
		Text: "Enkele zin uit een pdf.",
		Metadata: core.Metadata{
			core.MetaCategory: "reports",
			core.MetaPage:     "3",
		},
	}
	chunks, err := p.Chunk([]core.Document{doc})
	require.NoError(t, err)

	require.Len(t, chunks, 1)
	page, ok := chunks[0].Metadata.Page()
	require.True(t, ok)
	assert.Equal(t, 3, page)
}

func TestPipelineChunkEmptyInput(t *testing.T) {
	p, err := NewPipeline(testConfig())
	require.NoError(t, err)

	chunks, err := p.Chunk(nil)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestPipelineStats(t *testing.T) {
	cfg := testConfig()
	cfg.Size = 1000
	cfg.Overlap = 0
	p, err := NewPipeline(cfg)
	require.NoError(t, err)

	// One chunk per document, sized 10, 20, 30, 40, 50.
	var docs []core.Document
	for _, n := range []int{10, 20, 30, 40, 50} {
		docs = append(docs, core.Document{
			Text:     strings.Repeat("a", n),
			Metadata: core.Metadata{core.MetaCategory: "notes"},
		})
	}

	stats, err := p.Stats(docs)
	require.NoError(t, err)

	assert.Equal(t, 5, stats.Chunks)
	assert.Equal(t, 30, stats.AvgLen)
	assert.Equal(t, 40, stats.P95Len)
	assert.Equal(t, 50, stats.MaxLen)
}

func TestPipelineStatsEmpty(t *testing.T) {
	p, err := NewPipeline(testConfig())
	require.NoError(t, err)

	stats, err := p.Stats(nil)
	require.NoError(t, err)
	assert.Equal(t, Stats{}, stats)
}

func TestPipelineDegradedResolution(t *testing.T) {
	cfg := testConfig()
	cfg.Strategy = "semantic"
	p, err := NewPipeline(cfg)
	require.NoError(t, err)

	res := p.Resolution()
	assert.True(t, res.Degraded())
	assert.Equal(t, splitter.StrategyRecursive, res.Chosen)
}
