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


package ingestion

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"

	"github.com/veldkamp/lexrag/core"
	"github.com/veldkamp/lexrag/splitter"
)

// Pipeline chunks documents for indexing. Documents whose category has a
// registered segmenter are pre-segmented before the splitting strategy
// runs; all others go straight to the strategy.
type Pipeline struct {
	registry   *Registry
	split      textsplitter.TextSplitter
	resolution splitter.Resolution
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithRegistry replaces the default segmenter registry.
func WithRegistry(registry *Registry) Option {
	return func(p *Pipeline) error {
		if registry == nil {
			return fmt.Errorf("registry must not be nil")
		}
		p.registry = registry
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a pipeline for the given chunking configuration.
// The strategy is resolved once at construction; a degraded resolution is
// logged but does not fail, indexing with a coarser strategy beats not
// indexing at all.
func NewPipeline(cfg splitter.Config, opts ...Option) (*Pipeline, error) {
	split, res := splitter.Resolve(cfg)

	p := &Pipeline{
		registry:   NewRegistry(),
		split:      split,
		resolution: res,
		logger:     slog.Default().With("component", "pipeline"),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	if res.Degraded() {
		p.logger.Warn("chunking strategy degraded",
			"requested", res.Requested, "chosen", res.Chosen, "reason", res.Warning)
	}
	return p, nil
}

// Resolution reports which strategy the pipeline actually runs.
func (p *Pipeline) Resolution() splitter.Resolution {
	return p.resolution
}

// Chunk splits documents into chunks. Chunk metadata is the parent
// document's metadata; segmenter additions are set before splitting so
// every chunk of an article carries that article's identifiers. Chunk
// order within a source document follows text order.
func (p *Pipeline) Chunk(docs []core.Document) ([]core.Chunk, error) {
	var chunks []core.Chunk
	for _, doc := range docs {
		segments := []core.Document{doc}
		if seg, ok := p.registry.Lookup(doc.Metadata[core.MetaCategory]); ok {
			segments = seg.Segment(doc)
		}

		for _, sub := range segments {
			pieces, err := p.split.SplitText(sub.Text)
			if err != nil {
				return nil, fmt.Errorf("splitting %s: %w", sub.Metadata[core.MetaSourceRel], err)
			}
			for _, piece := range pieces {
				piece = strings.TrimSpace(piece)
				if piece == "" {
					continue
				}
				chunks = append(chunks, core.Chunk{
					Text:     piece,
					Metadata: sub.Metadata.Clone(),
				})
			}
		}
	}

	p.logger.Debug("chunked documents", "documents", len(docs), "chunks", len(chunks))
	return chunks, nil
}

// Stats summarizes chunk sizes for a document set.
type Stats struct {
	Chunks int
	AvgLen int
	P95Len int
	MaxLen int
}

// Stats runs the chunking non-destructively and reports size statistics.
// P95 uses the nearest-rank method on sorted lengths.
func (p *Pipeline) Stats(docs []core.Document) (Stats, error) {
	chunks, err := p.Chunk(docs)
	if err != nil {
		return Stats{}, err
	}
	if len(chunks) == 0 {
		return Stats{}, nil
	}

	sizes := make([]int, len(chunks))
	total := 0
	for i, c := range chunks {
		sizes[i] = len(c.Text)
		total += sizes[i]
	}
	sort.Ints(sizes)

	return Stats{
		Chunks: len(chunks),
		AvgLen: total / len(chunks),
		P95Len: sizes[int(0.95*float64(len(sizes)-1))],
		MaxLen: sizes[len(sizes)-1],
	}, nil
}
