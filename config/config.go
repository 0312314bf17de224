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


package config

import (
	"os"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/veldkamp/lexrag/ai"
	"github.com/veldkamp/lexrag/splitter"
)

type Config struct {
	Data      DataConfig      `toml:"data"`
	Chunk     ChunkConfig     `toml:"chunk"`
	AI        AIConfig        `toml:"ai"`
	Retrieval RetrievalConfig `toml:"retrieval"`
}

type DataConfig struct {
	// Dir is the root of the document corpus. Subdirectory names become
	// document categories.
	Dir string `toml:"dir"`

	// IndexDir holds the on-disk vector index.
	IndexDir string `toml:"index_dir"`

	// Collection names the index collection. Rebuilding replaces the
	// whole collection, so distinct corpora need distinct names.
	Collection string `toml:"collection"`
}

type ChunkConfig struct {
	// Strategy is one of "recursive", "tokens", "sentences", "markdown".
	Strategy string `toml:"strategy"`

	Size    int `toml:"size"`
	Overlap int `toml:"overlap"`

	// TokenSize and TokenOverlap apply only when Strategy is "tokens".
	TokenSize    int `toml:"token_size"`
	TokenOverlap int `toml:"token_overlap"`
}

type AIConfig struct {
	EmbeddingHost  string  `toml:"embedding_host"`
	LLMHost        string  `toml:"llm_host"`
	EmbeddingModel string  `toml:"embedding_model"`
	LLMModel       string  `toml:"llm_model"`
	APIKey         string  `toml:"api_key"`
	Temperature    float64 `toml:"temperature"`
}

type RetrievalConfig struct {
	// TopK is the number of hits returned per query.
	TopK int `toml:"top_k"`

	// DefaultBook is the statute book assumed for bare "article N"
	// mentions that carry no book context of their own.
	DefaultBook string `toml:"default_book"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	aiDefaults := ai.DefaultConfig()
	return Config{
		Data: DataConfig{
			Dir:        "data",
			IndexDir:   "index",
			Collection: "rag_collection",
		},
		Chunk: ChunkConfig{
			Strategy:     splitter.StrategyRecursive,
			Size:         1000,
			Overlap:      150,
			TokenSize:    350,
			TokenOverlap: 60,
		},
		AI: AIConfig{
			EmbeddingHost:  aiDefaults.EmbeddingHost,
			LLMHost:        aiDefaults.LLMHost,
			EmbeddingModel: aiDefaults.EmbeddingModel,
			LLMModel:       aiDefaults.LLMModel,
			APIKey:         aiDefaults.APIKey,
			Temperature:    aiDefaults.Temperature,
		},
		Retrieval: RetrievalConfig{
			TopK:        4,
			DefaultBook: "7",
		},
	}
}

// Load reads config: defaults -> TOML file -> env vars (env wins).
// A missing or unreadable file is not an error; the defaults stand.
func Load(path string) Config {
	cfg := Default()

	if path == "" {
		path = "lexrag.toml"
	}

	if data, err := os.ReadFile(path); err == nil {
		_ = toml.Unmarshal(data, &cfg)
	}

	// Env overrides
	setString(&cfg.Data.Dir, "RAG_DATA_DIR")
	setString(&cfg.Data.IndexDir, "RAG_INDEX_DIR")
	setString(&cfg.Data.Collection, "RAG_COLLECTION")
	setString(&cfg.Chunk.Strategy, "RAG_CHUNK_STRATEGY")
	setInt(&cfg.Chunk.Size, "RAG_CHUNK_SIZE")
	setInt(&cfg.Chunk.Overlap, "RAG_CHUNK_OVERLAP")
	setInt(&cfg.Chunk.TokenSize, "RAG_TOKEN_CHUNK")
	setInt(&cfg.Chunk.TokenOverlap, "RAG_TOKEN_OVERLAP")
	setString(&cfg.AI.EmbeddingModel, "RAG_EMBED_MODEL")
	setString(&cfg.AI.EmbeddingHost, "RAG_EMBED_HOST")
	setString(&cfg.AI.LLMModel, "RAG_LLM_MODEL")
	setString(&cfg.AI.LLMHost, "RAG_LLM_HOST")
	setString(&cfg.AI.APIKey, "RAG_API_KEY")
	setInt(&cfg.Retrieval.TopK, "RAG_TOP_K")
	setString(&cfg.Retrieval.DefaultBook, "RAG_DEFAULT_BOOK")

	return cfg
}

// SplitterConfig converts the chunking section into a splitter.Config.
func (c Config) SplitterConfig() splitter.Config {
	return splitter.Config{
		Strategy:       c.Chunk.Strategy,
		Size:           c.Chunk.Size,
		Overlap:        c.Chunk.Overlap,
		TokenSize:      c.Chunk.TokenSize,
		TokenOverlap:   c.Chunk.TokenOverlap,
		EmbeddingModel: c.AI.EmbeddingModel,
	}
}

// AIServiceConfig converts the AI section into an ai.Config.
func (c Config) AIServiceConfig() *ai.Config {
	return ai.NewConfig(
		ai.WithEmbeddingHost(c.AI.EmbeddingHost),
		ai.WithLLMHost(c.AI.LLMHost),
		ai.WithEmbeddingModel(c.AI.EmbeddingModel),
		ai.WithLLMModel(c.AI.LLMModel),
		ai.WithAPIKey(c.AI.APIKey),
		ai.WithTemperature(c.AI.Temperature),
	)
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
