package splitter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_Default(t *testing.T) {
	ts, res := Resolve(Config{})
	require.NotNil(t, ts)
	assert.Equal(t, StrategyRecursive, res.Chosen)
	assert.False(t, res.Degraded())
}

func TestResolve_UnknownStrategyFallsBack(t *testing.T) {
	ts, res := Resolve(Config{Strategy: "semantic", Size: 100, Overlap: 10})
	require.NotNil(t, ts)
	assert.Equal(t, "semantic", res.Requested)
	assert.Equal(t, StrategyRecursive, res.Chosen)
	assert.True(t, res.Degraded())
	assert.Contains(t, res.Warning, "semantic")
}

func TestResolve_Sentences(t *testing.T) {
	ts, res := Resolve(Config{Strategy: StrategySentences, Size: 200, Overlap: 40})
	require.NotNil(t, ts)
	assert.Equal(t, StrategySentences, res.Chosen)
	assert.False(t, res.Degraded())

	_, ok := ts.(Sentence)
	assert.True(t, ok)
}

func TestResolve_Markdown(t *testing.T) {
	ts, res := Resolve(Config{Strategy: "Markdown", Size: 500, Overlap: 50})
	require.NotNil(t, ts)
	assert.Equal(t, StrategyMarkdown, res.Chosen)
	assert.False(t, res.Degraded())
}

func TestResolve_ClampsOverlap(t *testing.T) {
	_, res := Resolve(Config{Strategy: StrategyRecursive, Size: 100, Overlap: 100})
	assert.True(t, res.Degraded())
	assert.Contains(t, res.Warning, "clamped")
}

func TestRecursive_BoundsAndOrder(t *testing.T) {
	cfg := Config{Strategy: StrategyRecursive, Size: 120, Overlap: 20}
	ts, _ := Resolve(cfg)

	para := func(s string, n int) string {
		return strings.Repeat(s+" ", n)
	}
	text := para("eerste alinea over huur.", 4) + "\n\n" +
		para("tweede alinea over opzegging.", 4) + "\n\n" +
		para("derde alinea over onderhuur.", 4)

	chunks, err := ts.SplitText(text)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	for _, c := range chunks {
		assert.NotEmpty(t, strings.TrimSpace(c))
		assert.LessOrEqual(t, len(c), cfg.Size)
	}

	// Order is preserved: each chunk's start offset in the source text is
	// non-decreasing.
	last := -1
	for _, c := range chunks {
		probe := strings.TrimSpace(c)
		if len(probe) > 30 {
			probe = probe[:30]
		}
		idx := strings.Index(text, probe)
		if idx < 0 {
			continue
		}
		assert.GreaterOrEqual(t, idx, last)
		last = idx
	}
}

func TestRecursive_Idempotent(t *testing.T) {
	ts, _ := Resolve(Config{Strategy: StrategyRecursive, Size: 80, Overlap: 10})
	text := strings.Repeat("De huurder betaalt de huurprijs maandelijks. ", 20)

	first, err := ts.SplitText(text)
	require.NoError(t, err)
	second, err := ts.SplitText(text)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
