package splitter

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
	"github.com/tmc/langchaingo/textsplitter"
)

// Strategy names accepted in configuration.
const (
	StrategyRecursive = "recursive"
	StrategyTokens    = "tokens"
	StrategySentences = "sentences"
	StrategyMarkdown  = "markdown"
)

// fallbackEncoding is used for the tokens strategy when the embedding model
// has no registered tokenizer.
const fallbackEncoding = "cl100k_base"

// Config holds splitting parameters. Size and Overlap are in characters;
// TokenSize and TokenOverlap are in tokens and apply only to the tokens
// strategy.
type Config struct {
	Strategy     string
	Size         int
	Overlap      int
	TokenSize    int
	TokenOverlap int

	// EmbeddingModel names the model whose tokenizer the tokens strategy
	// should match, so chunk boundaries line up with what the embedder
	// actually consumes.
	EmbeddingModel string
}

// DefaultConfig returns the default splitting parameters.
func DefaultConfig() Config {
	return Config{
		Strategy:     StrategyRecursive,
		Size:         1000,
		Overlap:      150,
		TokenSize:    350,
		TokenOverlap: 60,
	}
}

// Resolution records the outcome of strategy resolution. When the requested
// strategy could not be used, Chosen names the substitute and Warning says
// why, so the degradation is observable instead of silent.
type Resolution struct {
	Requested string
	Chosen    string
	Warning   string
}

// Degraded reports whether resolution substituted a different strategy or
// adjusted parameters.
func (r Resolution) Degraded() bool {
	return r.Warning != ""
}

// Resolve builds the splitter for the configured strategy. It never fails:
// an unknown strategy name or an unavailable tokenizer degrades to the
// recursive strategy, recorded in the returned Resolution. Overlap is
// clamped below the size bound so every emitted chunk stays non-empty.
func Resolve(cfg Config) (textsplitter.TextSplitter, Resolution) {
	requested := strings.ToLower(strings.TrimSpace(cfg.Strategy))
	if requested == "" {
		requested = StrategyRecursive
	}
	res := Resolution{Requested: requested, Chosen: requested}

	if cfg.Size <= 0 {
		cfg.Size = DefaultConfig().Size
	}
	if cfg.TokenSize <= 0 {
		cfg.TokenSize = DefaultConfig().TokenSize
	}
	if cfg.Overlap >= cfg.Size {
		res.Warning = fmt.Sprintf("overlap %d clamped below chunk size %d", cfg.Overlap, cfg.Size)
		cfg.Overlap = cfg.Size - 1
	}
	if cfg.TokenOverlap >= cfg.TokenSize {
		res.Warning = fmt.Sprintf("token overlap %d clamped below token chunk size %d", cfg.TokenOverlap, cfg.TokenSize)
		cfg.TokenOverlap = cfg.TokenSize - 1
	}

	switch requested {
	case StrategyTokens:
		if ts, ok := resolveTokens(cfg, &res); ok {
			return ts, res
		}
		// tokenizer unavailable, fall through to recursive
	case StrategySentences:
		return NewSentence(cfg.Size, cfg.Overlap), res
	case StrategyMarkdown:
		return textsplitter.NewMarkdownTextSplitter(
			textsplitter.WithChunkSize(cfg.Size),
			textsplitter.WithChunkOverlap(cfg.Overlap),
		), res
	case StrategyRecursive:
		// handled below
	default:
		res.Warning = fmt.Sprintf("unknown chunking strategy %q, using %s", requested, StrategyRecursive)
	}

	res.Chosen = StrategyRecursive
	return newRecursive(cfg), res
}

// resolveTokens probes the tokenizer before committing to the tokens
// strategy. tiktoken loads encodings lazily and can fail at runtime (unknown
// model, missing encoding data), which is exactly the unavailability the
// fallback policy covers.
func resolveTokens(cfg Config, res *Resolution) (textsplitter.TextSplitter, bool) {
	if _, err := tiktoken.EncodingForModel(cfg.EmbeddingModel); err == nil {
		return textsplitter.NewTokenSplitter(
			textsplitter.WithModelName(cfg.EmbeddingModel),
			textsplitter.WithChunkSize(cfg.TokenSize),
			textsplitter.WithChunkOverlap(cfg.TokenOverlap),
		), true
	}

	if _, err := tiktoken.GetEncoding(fallbackEncoding); err == nil {
		res.Warning = fmt.Sprintf("no tokenizer registered for model %q, using %s encoding", cfg.EmbeddingModel, fallbackEncoding)
		return textsplitter.NewTokenSplitter(
			textsplitter.WithEncodingName(fallbackEncoding),
			textsplitter.WithChunkSize(cfg.TokenSize),
			textsplitter.WithChunkOverlap(cfg.TokenOverlap),
		), true
	}

	res.Warning = fmt.Sprintf("tokenizer unavailable for model %q, using %s", cfg.EmbeddingModel, StrategyRecursive)
	return nil, false
}

// newRecursive builds the default character splitter. Separator order matters:
// paragraph breaks, then line breaks, then sentence-ending period+space, then
// spaces, descending only when a piece still exceeds the size bound.
func newRecursive(cfg Config) textsplitter.TextSplitter {
	return textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(cfg.Size),
		textsplitter.WithChunkOverlap(cfg.Overlap),
		textsplitter.WithSeparators([]string{"\n\n", "\n", ". ", " "}),
	)
}
