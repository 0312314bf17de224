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


// Package splitter selects and configures the text-splitting strategy used
// by the chunking pipeline.
//
// Four interchangeable strategies are supported:
//   - recursive: character-bounded, descending through paragraph, line,
//     sentence, and space separators (the default)
//   - tokens: token-bounded, using the embedding model's tokenizer
//   - sentences: character-bounded but aligned to sentence boundaries
//   - markdown: character-bounded, aligned to markdown headings
//
// Strategy selection is an explicit resolution step: Resolve always returns
// a usable splitter, degrading to the recursive strategy with an observable
// warning when the requested one is unknown or its tokenizer is unavailable.
// Availability is preferred over hard failure during indexing.
package splitter
