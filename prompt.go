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


package lexrag

import (
	"fmt"
	"strings"

	"github.com/veldkamp/lexrag/core"
)

// systemPrompt keeps answers grounded in the retrieved context and forces
// source attributions.
const systemPrompt = `You are a careful assistant that answers with grounded, concise explanations.
Use only the provided context. If something is missing, say what's missing.
Answer in the language of the question (e.g., English or Dutch).
At the end, include short source attributions like [source: <file>, p.<page>].`

// buildPrompt assembles the single-turn prompt from the question and its
// retrieved context.
func buildPrompt(question string, hits []*core.Hit) string {
	texts := make([]string, len(hits))
	for i, h := range hits {
		texts[i] = h.Text
	}

	var b strings.Builder
	b.WriteString(systemPrompt)
	b.WriteString("\n\nContext:\n")
	b.WriteString(strings.Join(texts, "\n\n"))
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\n\nAnswer using only the context above. Then list the sources as bullets.\nSources:\n")
	b.WriteString(formatSources(hits))
	return b.String()
}

// formatSources renders one bullet per hit. Page numbers are 1-based as
// produced by the PDF loader.
func formatSources(hits []*core.Hit) string {
	lines := make([]string, len(hits))
	for i, h := range hits {
		src := h.Metadata[core.MetaSourceRel]
		if src == "" {
			src = h.Metadata[core.MetaSourcePath]
		}
		if src == "" {
			src = "unknown"
		}
		if page, ok := h.Metadata.Page(); ok {
			lines[i] = fmt.Sprintf("- %s p.%d", src, page)
		} else {
			lines[i] = fmt.Sprintf("- %s", src)
		}
	}
	return strings.Join(lines, "\n")
}
