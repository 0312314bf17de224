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


// Package ai provides abstractions for AI services used in lexrag.
//
// This package defines interfaces for AI operations: text embeddings for
// similarity search and answer generation from a grounded prompt. The core
// domain depends on these abstractions rather than concrete implementations.
//
// The package is designed around three key interfaces:
//
//   - Embedder: Generates vector embeddings from passage or query text
//   - Generator: Produces answer text from a prompt
//   - Provider: Aggregates AI services for convenient initialization
//
// Two implementation sub-packages exist:
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// Production constructors return interface types to enforce abstraction;
// mock constructors return concrete types so tests can inject behavior and
// assert on call counts.
//
// Passage/query-asymmetric embedding families (E5 and relatives) require a
// "passage: " or "query: " prefix on the embedded text. That prefixing is
// this package's responsibility, applied by PrefixingEmbedder, not the
// embedding service's.
package ai
