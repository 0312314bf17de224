package crawl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMainPrefersMainElement(t *testing.T) {
	html := `<html><head><title>Titel</title></head><body>
		<header>kop</header>
		<nav>menu</nav>
		<main><p>hoofdinhoud</p></main>
		<footer>voet</footer>
	</body></html>`

	title, markdown, err := extractMain(html, "https://example.org")
	require.NoError(t, err)

	assert.Equal(t, "Titel", title)
	assert.Contains(t, markdown, "hoofdinhoud")
	assert.NotContains(t, markdown, "menu")
	assert.NotContains(t, markdown, "voet")
	assert.NotContains(t, markdown, "kop")
}

func TestExtractMainFallsBackToArticleThenBody(t *testing.T) {
	html := `<html><body><article><p>artikeltekst</p></article></body></html>`
	_, markdown, err := extractMain(html, "https://example.org")
	require.NoError(t, err)
	assert.Contains(t, markdown, "artikeltekst")

	html = `<html><body><p>kale tekst</p></body></html>`
	_, markdown, err = extractMain(html, "https://example.org")
	require.NoError(t, err)
	assert.Contains(t, markdown, "kale tekst")
}

func TestExtractMainDropsScripts(t *testing.T) {
	html := `<html><body><main><script>evil()</script><p>tekst</p></main></body></html>`
	_, markdown, err := extractMain(html, "https://example.org")
	require.NoError(t, err)
	assert.NotContains(t, markdown, "evil")
}

func TestNormalizeURL(t *testing.T) {
	assert.Equal(t, "https://a.example/b", normalizeURL("https://a.example/b#frag"))
	assert.Equal(t, "https://a.example/b", normalizeURL("https://a.example/b/"))
	assert.Equal(t, "https://a.example/b?q=1", normalizeURL("https://a.example/b?q=1"))
}

func TestAllowed(t *testing.T) {
	prefixes := []string{"/wetten"}

	assert.True(t, allowed("https://a.example/wetten/boek7", "a.example", prefixes))
	assert.False(t, allowed("https://b.example/wetten/boek7", "a.example", prefixes))
	assert.False(t, allowed("https://a.example/nieuws", "a.example", prefixes))
	// Relative URLs (no host) stay on the domain.
	assert.True(t, allowed("/wetten/boek3", "a.example", prefixes))
}

func TestSlugPath(t *testing.T) {
	assert.Equal(t, "index", slugPath("/"))
	assert.Equal(t, "wetten/boek7", slugPath("/wetten/boek7"))
	assert.Equal(t, "wetten/index", slugPath("/wetten/"))
	assert.Equal(t, "a-b/c", slugPath("/a b/c"))
}
