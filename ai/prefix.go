package ai

import "context"

const (
	passagePrefix = "passage: "
	queryPrefix   = "query: "
)

// PrefixingEmbedder wraps an Embedder for passage/query-asymmetric model
// families, prefixing passage texts with "passage: " and query texts with
// "query: " before delegating. The prefixes are what E5-family models were
// trained on; embedding without them degrades retrieval quality.
type PrefixingEmbedder struct {
	inner Embedder
}

var _ Embedder = (*PrefixingEmbedder)(nil)

// NewPrefixingEmbedder wraps inner with passage/query prefixing.
func NewPrefixingEmbedder(inner Embedder) *PrefixingEmbedder {
	return &PrefixingEmbedder{inner: inner}
}

// MaybePrefixing wraps inner with prefixing only when cfg names an
// asymmetric embedding family; otherwise it returns inner unchanged.
func MaybePrefixing(inner Embedder, cfg *Config) Embedder {
	if cfg.Asymmetric() {
		return NewPrefixingEmbedder(inner)
	}
	return inner
}

// EmbedDocuments prefixes each text with "passage: " and delegates.
func (p *PrefixingEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	prefixed := make([]string, len(texts))
	for i, t := range texts {
		prefixed[i] = passagePrefix + t
	}
	return p.inner.EmbedDocuments(ctx, prefixed)
}

// EmbedQuery prefixes the text with "query: " and delegates.
func (p *PrefixingEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return p.inner.EmbedQuery(ctx, queryPrefix+text)
}
