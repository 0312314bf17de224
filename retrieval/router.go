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


package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/veldkamp/lexrag/ai"
	"github.com/veldkamp/lexrag/core"
	"github.com/veldkamp/lexrag/storage"
)

// Router blends narrow and broad similarity searches based on the
// question classification.
type Router struct {
	index      storage.Index
	embedder   ai.Embedder
	classifier *Classifier
	logger     *slog.Logger
}

// Option configures a Router.
type Option func(*Router) error

// WithClassifier replaces the default classifier.
func WithClassifier(classifier *Classifier) Option {
	return func(r *Router) error {
		if classifier == nil {
			return fmt.Errorf("classifier must not be nil")
		}
		r.classifier = classifier
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRouter creates a router over the given index and embedder.
func NewRouter(index storage.Index, embedder ai.Embedder, opts ...Option) (*Router, error) {
	if index == nil {
		return nil, ErrIndexRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	r := &Router{
		index:      index,
		embedder:   embedder,
		classifier: NewClassifier(),
		logger:     slog.Default().With("component", "router"),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Classifier returns the router's classifier.
func (r *Router) Classifier() *Classifier {
	return r.classifier
}

// Retrieve returns up to k hits for the question.
//
// Statute questions get a narrow search of max(2, k/2) hits, filtered to
// the extracted article when one exists and to the laws category
// otherwise, followed by a broad unfiltered search of k hits. The two
// result lists are merged narrow-first, deduplicated on chunk content,
// and capped at k. Non-statute questions get a single broad search. A
// failure of either search fails the whole call; there are no partial
// results.
func (r *Router) Retrieve(ctx context.Context, question string, k int) ([]*core.Hit, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}
	if k <= 0 {
		return nil, nil
	}

	vector, err := r.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embedding question: %w", err)
	}

	cls := r.classifier.Classify(question)
	if !cls.IsStatute {
		return r.index.Search(ctx, vector, k, nil)
	}

	narrowK := max(2, k/2)
	filter := map[string]string{core.MetaCategory: core.CategoryLaws}
	if cls.ArticleID != "" {
		filter = map[string]string{core.MetaArticle: cls.ArticleID}
	}

	narrow, err := r.index.Search(ctx, vector, narrowK, filter)
	if err != nil {
		return nil, fmt.Errorf("narrow search: %w", err)
	}
	broad, err := r.index.Search(ctx, vector, k, nil)
	if err != nil {
		return nil, fmt.Errorf("broad search: %w", err)
	}

	r.logger.Debug("statute question",
		"article", cls.ArticleID, "narrow_hits", len(narrow), "broad_hits", len(broad))

	return mergeHits(narrow, broad, k), nil
}

// mergeHits appends narrow hits then broad hits in their rank order,
// dropping duplicates and stopping at k. Duplicates are detected by chunk
// content identity, which survives metadata differences between index
// generations.
func mergeHits(narrow, broad []*core.Hit, k int) []*core.Hit {
	seen := make(map[core.ID]struct{}, k)
	merged := make([]*core.Hit, 0, k)

	add := func(hits []*core.Hit) {
		for _, h := range hits {
			if len(merged) >= k {
				return
			}
			id := core.IDFromContent(h.Text)
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			merged = append(merged, h)
		}
	}
	add(narrow)
	add(broad)
	return merged
}
