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


// Package lexrag assembles the retrieval-augmented question answering
// engine for statutory-law corpora: corpus loading, article-aware
// chunking, embedding, a badger-backed vector index, hybrid retrieval,
// and grounded answer generation.
package lexrag

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/veldkamp/lexrag/ai"
	"github.com/veldkamp/lexrag/ai/openai"
	"github.com/veldkamp/lexrag/config"
	"github.com/veldkamp/lexrag/core"
	"github.com/veldkamp/lexrag/eval"
	"github.com/veldkamp/lexrag/ingestion"
	"github.com/veldkamp/lexrag/retrieval"
	"github.com/veldkamp/lexrag/splitter"
	"github.com/veldkamp/lexrag/storage"
	"github.com/veldkamp/lexrag/storage/badger"
)

// embedBatchSize is the number of chunk texts sent to the embedding
// service per request.
const embedBatchSize = 32

// Engine is the top-level facade wiring every component together.
type Engine struct {
	cfg      config.Config
	backend  *badger.Backend
	index    storage.Index
	provider ai.Provider
	loader   *ingestion.Loader
	pipeline *ingestion.Pipeline
	router   *retrieval.Router
	pool     *ants.Pool
	logger   *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	provider ai.Provider
	poolSize int
}

// WithProvider overrides the AI provider. Tests use this to plug in the
// mock provider.
func WithProvider(provider ai.Provider) EngineOption {
	return func(o *engineOptions) {
		o.provider = provider
	}
}

// WithPoolSize sets the embedding worker pool size.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) EngineOption {
	return func(o *engineOptions) {
		o.poolSize = size
	}
}

// NewEngine builds an engine from configuration.
func NewEngine(cfg config.Config, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		poolSize: runtime.NumCPU() / 2,
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.poolSize < 1 {
		options.poolSize = 1
	}

	backend, err := badger.OpenBackend(cfg.Data.IndexDir, false)
	if err != nil {
		return nil, err
	}

	index, err := badger.NewIndex(backend, cfg.Data.Collection)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(cfg.AIServiceConfig())
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	loader, err := ingestion.NewLoader(cfg.Data.Dir)
	if err != nil {
		provider.Close()
		backend.Close()
		return nil, err
	}

	pipeline, err := ingestion.NewPipeline(cfg.SplitterConfig())
	if err != nil {
		provider.Close()
		backend.Close()
		return nil, err
	}

	classifier := retrieval.NewClassifier(retrieval.WithDefaultBook(cfg.Retrieval.DefaultBook))
	router, err := retrieval.NewRouter(index, provider.Embedder(), retrieval.WithClassifier(classifier))
	if err != nil {
		provider.Close()
		backend.Close()
		return nil, err
	}

	pool, err := ants.NewPool(options.poolSize)
	if err != nil {
		provider.Close()
		backend.Close()
		return nil, err
	}

	return &Engine{
		cfg:      cfg,
		backend:  backend,
		index:    index,
		provider: provider,
		loader:   loader,
		pipeline: pipeline,
		router:   router,
		pool:     pool,
		logger:   slog.Default().With("component", "engine"),
	}, nil
}

// Close releases the engine's resources.
func (e *Engine) Close() error {
	e.pool.Release()

	if err := e.provider.Close(); err != nil {
		e.logger.Error("error closing AI provider", "err", err)
	}
	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// IngestAndIndex loads the corpus, chunks and embeds it, and rebuilds the
// index collection. Returns the number of chunks indexed.
func (e *Engine) IngestAndIndex(ctx context.Context) (int, error) {
	docs, err := e.loader.Load(ctx)
	if err != nil {
		return 0, err
	}
	if len(docs) == 0 {
		return 0, fmt.Errorf("%w in %s", ingestion.ErrNoDocuments, e.cfg.Data.Dir)
	}

	chunks, err := e.pipeline.Chunk(docs)
	if err != nil {
		return 0, err
	}

	if err := e.embedChunks(ctx, chunks); err != nil {
		return 0, err
	}

	count, err := e.index.Rebuild(ctx, chunks)
	if err != nil {
		return 0, err
	}

	e.logger.Info("corpus indexed",
		"documents", len(docs), "chunks", count, "collection", e.cfg.Data.Collection)
	return count, nil
}

// embedChunks fills in chunk vectors, batching requests across the
// worker pool. The first embedding failure wins; remaining batches still
// run to completion but their results are discarded by the caller.
func (e *Engine) embedChunks(ctx context.Context, chunks []core.Chunk) error {
	embedder := e.provider.Embedder()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	setErr := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}

	for start := 0; start < len(chunks); start += embedBatchSize {
		batch := chunks[start:min(start+embedBatchSize, len(chunks))]

		wg.Add(1)
		err := e.pool.Submit(func() {
			defer wg.Done()

			texts := make([]string, len(batch))
			for i := range batch {
				texts[i] = batch[i].Text
			}

			vectors, err := embedder.EmbedDocuments(ctx, texts)
			if err != nil {
				setErr(fmt.Errorf("embedding batch: %w", err))
				return
			}
			if len(vectors) != len(batch) {
				setErr(fmt.Errorf("embedding batch: got %d vectors for %d texts", len(vectors), len(batch)))
				return
			}
			for i := range batch {
				batch[i].Vector = vectors[i]
			}
		})
		if err != nil {
			wg.Done()
			setErr(err)
			break
		}
	}

	wg.Wait()
	return firstErr
}

// Ask retrieves context for the question and generates a grounded answer.
// Returns the answer and the hits it was grounded on.
func (e *Engine) Ask(ctx context.Context, question string) (string, []*core.Hit, error) {
	hits, err := e.router.Retrieve(ctx, question, e.cfg.Retrieval.TopK)
	if err != nil {
		return "", nil, err
	}

	answer, err := e.provider.Generator().Generate(ctx, buildPrompt(question, hits))
	if err != nil {
		return "", nil, fmt.Errorf("generating answer: %w", err)
	}
	return answer, hits, nil
}

// Retrieve returns hits for the question without generating an answer.
func (e *Engine) Retrieve(ctx context.Context, question string, k int) ([]*core.Hit, error) {
	return e.router.Retrieve(ctx, question, k)
}

// ChunkStats chunks the corpus non-destructively and reports size
// statistics; the index is not touched.
func (e *Engine) ChunkStats(ctx context.Context) (ingestion.Stats, error) {
	docs, err := e.loader.Load(ctx)
	if err != nil {
		return ingestion.Stats{}, err
	}
	return e.pipeline.Stats(docs)
}

// Count returns the number of chunks in the index collection.
func (e *Engine) Count(ctx context.Context) (int, error) {
	return e.index.Count(ctx)
}

// Evaluate runs the retrieval evaluation over a question set.
func (e *Engine) Evaluate(ctx context.Context, items []eval.Item) (*eval.Report, error) {
	runner, err := eval.NewRunner(e.router, e.cfg.Retrieval.TopK)
	if err != nil {
		return nil, err
	}
	return runner.Run(ctx, items)
}

// Resolution reports the chunking strategy actually in effect.
func (e *Engine) Resolution() splitter.Resolution {
	return e.pipeline.Resolution()
}
