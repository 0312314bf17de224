package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Passage and query embedding are distinct operations because asymmetric
// model families encode the two sides differently.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedDocuments generates vector embeddings for passage texts in a batch.
	// The returned slice contains embeddings in the same order as the input.
	// Returns an error if any embedding generation fails.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery generates a vector embedding for a single query string.
	// Returns an error if the embedding generation fails.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Generator produces answer text from a fully formed prompt. Prompt
// construction is the caller's concern; the generator only completes it.
// Implementations must be thread-safe for concurrent use.
type Generator interface {
	// Generate returns the model's text output for the given prompt.
	Generate(ctx context.Context, prompt string) (string, error)
}

// Provider aggregates AI services for convenient initialization and lifecycle
// management. A provider creates and manages Embedder and Generator instances,
// ensuring they share configuration and resources appropriately.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Generator returns the answer generation service.
	// The returned Generator is safe for concurrent use.
	Generator() Generator

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
