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


package eval

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"
	"time"

	"github.com/veldkamp/lexrag/core"
)

var (
	// ErrRetrieverRequired is returned when a runner is created without a retriever.
	ErrRetrieverRequired = errors.New("retriever required")

	// ErrNoItems is returned when the question set is empty.
	ErrNoItems = errors.New("question set is empty")
)

// Retriever is the retrieval operation under evaluation.
type Retriever interface {
	Retrieve(ctx context.Context, question string, k int) ([]*core.Hit, error)
}

// Item is one evaluation question.
type Item struct {
	Q    string   `json:"q"`
	Must []string `json:"must"`
	K    int      `json:"k,omitempty"`
}

// Result is the outcome for one question. Rank is nil when no retrieved
// chunk matched.
type Result struct {
	Question       string  `json:"q"`
	K              int     `json:"k"`
	LatencySeconds float64 `json:"latency_s"`
	Hit            bool    `json:"hit"`
	Rank           *int    `json:"rank"`
	ReciprocalRank float64 `json:"rr"`
	FirstSource    string  `json:"first_source,omitempty"`
}

// Summary aggregates all question results.
type Summary struct {
	Items             int     `json:"items"`
	HitAt1            float64 `json:"hit@1"`
	HitAtK            float64 `json:"hit@k"`
	MRR               float64 `json:"mrr"`
	AvgLatencySeconds float64 `json:"avg_latency_s"`
	WallTimeSeconds   float64 `json:"wall_time_s"`
}

// Report is the full evaluation output.
type Report struct {
	Summary Summary  `json:"summary"`
	Details []Result `json:"details"`
}

// LoadItems reads a JSON question set from disk.
func LoadItems(path string) ([]Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading question set: %w", err)
	}
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parsing question set: %w", err)
	}
	return items, nil
}

// Runner evaluates a retriever against question sets.
type Runner struct {
	retriever Retriever
	defaultK  int
	logger    *slog.Logger
}

// NewRunner creates a runner. defaultK applies to items without their own k.
func NewRunner(retriever Retriever, defaultK int) (*Runner, error) {
	if retriever == nil {
		return nil, ErrRetrieverRequired
	}
	if defaultK <= 0 {
		defaultK = 4
	}
	return &Runner{
		retriever: retriever,
		defaultK:  defaultK,
		logger:    slog.Default().With("component", "eval"),
	}, nil
}

// Run evaluates every item and aggregates the report.
// A retrieval failure aborts the run; a question with zero hits does not.
func (r *Runner) Run(ctx context.Context, items []Item) (*Report, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	start := time.Now()
	details := make([]Result, 0, len(items))

	for _, item := range items {
		k := item.K
		if k <= 0 {
			k = r.defaultK
		}

		qStart := time.Now()
		hits, err := r.retriever.Retrieve(ctx, item.Q, k)
		if err != nil {
			return nil, fmt.Errorf("retrieving %q: %w", item.Q, err)
		}
		latency := time.Since(qStart).Seconds()

		var rank *int
		for i, h := range hits {
			if matches(h, item.Must) {
				idx := i
				rank = &idx
				break
			}
		}

		res := Result{
			Question:       item.Q,
			K:              k,
			LatencySeconds: round(latency, 3),
			Hit:            rank != nil,
			ReciprocalRank: round(reciprocalRank(rank), 4),
			Rank:           rank,
		}
		if len(hits) > 0 {
			res.FirstSource = hits[0].Metadata[core.MetaSourceRel]
		}
		details = append(details, res)
	}

	report := &Report{
		Summary: summarize(details, time.Since(start).Seconds()),
		Details: details,
	}
	r.logger.Info("evaluation finished",
		"items", report.Summary.Items, "hit_at_1", report.Summary.HitAt1,
		"hit_at_k", report.Summary.HitAtK, "mrr", report.Summary.MRR)
	return report, nil
}

func summarize(details []Result, wallSeconds float64) Summary {
	total := len(details)

	hit1, hitK := 0, 0
	mrr, latency := 0.0, 0.0
	for _, d := range details {
		if d.Rank != nil && *d.Rank == 0 {
			hit1++
		}
		if d.Hit {
			hitK++
		}
		mrr += d.ReciprocalRank
		latency += d.LatencySeconds
	}

	n := float64(total)
	return Summary{
		Items:             total,
		HitAt1:            round(float64(hit1)/n, 3),
		HitAtK:            round(float64(hitK)/n, 3),
		MRR:               round(mrr/n, 3),
		AvgLatencySeconds: round(latency/n, 3),
		WallTimeSeconds:   round(wallSeconds, 2),
	}
}

// matches reports whether any must substring occurs in the hit's source
// path or text, case-insensitively.
func matches(h *core.Hit, must []string) bool {
	src := strings.ToLower(h.Metadata[core.MetaSourceRel])
	if src == "" {
		src = strings.ToLower(h.Metadata[core.MetaSourcePath])
	}
	text := strings.ToLower(h.Text)
	for _, pattern := range must {
		p := strings.ToLower(pattern)
		if p == "" {
			continue
		}
		if strings.Contains(src, p) || strings.Contains(text, p) {
			return true
		}
	}
	return false
}

func reciprocalRank(rank *int) float64 {
	if rank == nil {
		return 0
	}
	return 1 / float64(*rank+1)
}

func round(v float64, digits int) float64 {
	scale := math.Pow(10, float64(digits))
	return math.Round(v*scale) / scale
}
