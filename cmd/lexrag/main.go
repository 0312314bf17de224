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


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"github.com/veldkamp/lexrag"
	"github.com/veldkamp/lexrag/config"
	"github.com/veldkamp/lexrag/core"
	"github.com/veldkamp/lexrag/crawl"
	"github.com/veldkamp/lexrag/eval"
)

func main() {
	app := &cli.App{
		Name:  "lexrag",
		Usage: "Retrieval-augmented question answering over statutory law",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to TOML configuration file",
				Value:   "lexrag.toml",
			},
		},
		Before:   setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "index",
				Usage:  "Chunk the corpus, embed it and rebuild the vector index",
				Action: indexCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "strategy",
						Usage: "Chunking strategy (recursive, tokens, sentences, markdown)",
					},
					&cli.IntFlag{
						Name:  "chunk-size",
						Usage: "Chunk size in characters (recursive, sentences, markdown)",
					},
					&cli.IntFlag{
						Name:  "chunk-overlap",
						Usage: "Chunk overlap in characters",
					},
				},
			},
			{
				Name:      "ask",
				Usage:     "Answer a question from the indexed corpus",
				ArgsUsage: "<question>",
				Action:    askCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Number of chunks to retrieve",
					},
				},
			},
			{
				Name:      "retrieve",
				Usage:     "Retrieve matching chunks without generating an answer",
				ArgsUsage: "<question>",
				Action:    retrieveCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Number of chunks to retrieve",
					},
				},
			},
			{
				Name:   "stats",
				Usage:  "Report chunk size statistics for the configured strategy",
				Action: statsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "strategy",
						Usage: "Chunking strategy (recursive, tokens, sentences, markdown)",
					},
					&cli.IntFlag{
						Name:  "chunk-size",
						Usage: "Chunk size in characters (recursive, sentences, markdown)",
					},
					&cli.IntFlag{
						Name:  "chunk-overlap",
						Usage: "Chunk overlap in characters",
					},
				},
			},
			{
				Name:   "eval",
				Usage:  "Run a retrieval question set and report hit rate and MRR",
				Action: evalCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "questions",
						Aliases:  []string{"q"},
						Usage:    "Path to JSON question set",
						Required: true,
					},
				},
			},
			{
				Name:   "crawl",
				Usage:  "Mirror a website section as markdown files for ingestion",
				Action: crawlCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "base-url",
						Aliases:  []string{"u"},
						Usage:    "Start page; the crawl never leaves its domain",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "depth",
						Usage: "How many link hops to follow from the base URL",
						Value: 2,
					},
					&cli.IntFlag{
						Name:  "max-pages",
						Usage: "Maximum number of pages to fetch",
						Value: 200,
					},
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Output directory for markdown files",
						Value:   "data/government_portal",
					},
					&cli.StringSliceFlag{
						Name:  "prefix",
						Usage: "Restrict the crawl to URL paths with this prefix (repeatable)",
					},
					&cli.DurationFlag{
						Name:  "delay",
						Usage: "Minimum time between fetches",
						Value: 500 * time.Millisecond,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// loadConfig applies chunking overrides from command flags on top of the
// configuration file.
func loadConfig(c *cli.Context) config.Config {
	cfg := config.Load(c.String("config"))
	if s := c.String("strategy"); s != "" {
		cfg.Chunk.Strategy = s
	}
	if n := c.Int("chunk-size"); n > 0 {
		cfg.Chunk.Size = n
	}
	if n := c.Int("chunk-overlap"); n > 0 {
		cfg.Chunk.Overlap = n
	}
	return cfg
}

func indexCommand(c *cli.Context) error {
	ctx := context.Background()
	cfg := loadConfig(c)

	engine, err := lexrag.NewEngine(cfg)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	defer engine.Close()

	if res := engine.Resolution(); res.Degraded() {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", res.Warning)
	}

	start := time.Now()
	count, err := engine.IngestAndIndex(ctx)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	fmt.Printf("Indexed %d chunks in %s (strategy %s, collection %s)\n",
		count, time.Since(start).Round(time.Millisecond), cfg.Chunk.Strategy, cfg.Data.Collection)
	return nil
}

func askCommand(c *cli.Context) error {
	ctx := context.Background()
	cfg := loadConfig(c)
	if k := c.Int("top-k"); k > 0 {
		cfg.Retrieval.TopK = k
	}

	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("question is required")
	}

	engine, err := lexrag.NewEngine(cfg)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	defer engine.Close()

	answer, hits, err := engine.Ask(ctx, question)
	if err != nil {
		return fmt.Errorf("question failed: %w", err)
	}

	fmt.Println(answer)
	fmt.Println()
	fmt.Println("Sources:")
	for _, h := range hits {
		fmt.Printf("  %s\n", hitSource(h))
	}
	return nil
}

func retrieveCommand(c *cli.Context) error {
	ctx := context.Background()
	cfg := loadConfig(c)

	k := c.Int("top-k")
	if k <= 0 {
		k = cfg.Retrieval.TopK
	}

	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("question is required")
	}

	engine, err := lexrag.NewEngine(cfg)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	defer engine.Close()

	hits, err := engine.Retrieve(ctx, question, k)
	if err != nil {
		return fmt.Errorf("retrieval failed: %w", err)
	}

	for i, h := range hits {
		fmt.Printf("[%d] score=%.4f %s\n", i+1, h.Score, hitSource(h))
		fmt.Println(h.Text)
		fmt.Println()
	}
	return nil
}

func statsCommand(c *cli.Context) error {
	ctx := context.Background()
	cfg := loadConfig(c)

	engine, err := lexrag.NewEngine(cfg)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	defer engine.Close()

	if res := engine.Resolution(); res.Degraded() {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", res.Warning)
	}

	stats, err := engine.ChunkStats(ctx)
	if err != nil {
		return fmt.Errorf("stats failed: %w", err)
	}

	fmt.Printf("strategy: %s\n", cfg.Chunk.Strategy)
	fmt.Printf("chunks:   %d\n", stats.Chunks)
	fmt.Printf("avg len:  %d\n", stats.AvgLen)
	fmt.Printf("p95 len:  %d\n", stats.P95Len)
	fmt.Printf("max len:  %d\n", stats.MaxLen)
	return nil
}

func evalCommand(c *cli.Context) error {
	ctx := context.Background()
	cfg := loadConfig(c)

	items, err := eval.LoadItems(c.String("questions"))
	if err != nil {
		return fmt.Errorf("failed to load question set: %w", err)
	}

	engine, err := lexrag.NewEngine(cfg)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	defer engine.Close()

	report, err := engine.Evaluate(ctx, items)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func crawlCommand(c *cli.Context) error {
	ctx := context.Background()

	crawler, err := crawl.New(crawl.Options{
		BaseURL:      c.String("base-url"),
		Depth:        c.Int("depth"),
		MaxPages:     c.Int("max-pages"),
		OutDir:       c.String("out"),
		PathPrefixes: c.StringSlice("prefix"),
		Delay:        c.Duration("delay"),
	})
	if err != nil {
		return fmt.Errorf("failed to create crawler: %w", err)
	}

	written, err := crawler.Run(ctx)
	if err != nil {
		return fmt.Errorf("crawl failed: %w", err)
	}

	fmt.Printf("Wrote %d pages to %s\n", len(written), c.String("out"))
	return nil
}

func hitSource(h *core.Hit) string {
	src := h.Metadata[core.MetaSourceRel]
	if src == "" {
		src = h.Metadata[core.MetaSourcePath]
	}
	if src == "" {
		src = "unknown"
	}
	if page, ok := h.Metadata.Page(); ok {
		return fmt.Sprintf("%s p.%d", src, page)
	}
	return src
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
