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
	"regexp"
	"strings"

	"github.com/veldkamp/lexrag/core"
)

// Segmenter pre-segments a document into sub-documents along domain
// boundaries before size-based chunking. Implementations must return the
// input document unchanged (a single-element slice) when no boundary is
// found, never an empty slice.
type Segmenter interface {
	Segment(doc core.Document) []core.Document
}

// Registry maps document categories to their segmenters. Categories
// without an entry skip pre-segmentation.
type Registry struct {
	segmenters map[string]Segmenter
}

// NewRegistry creates a registry with the ArticleSegmenter registered for
// the laws category.
func NewRegistry() *Registry {
	r := &Registry{segmenters: make(map[string]Segmenter)}
	r.Register(core.CategoryLaws, NewArticleSegmenter())
	return r
}

// Register binds a segmenter to a category, replacing any previous binding.
func (r *Registry) Register(category string, s Segmenter) {
	r.segmenters[category] = s
}

// Lookup returns the segmenter for a category, if any.
func (r *Registry) Lookup(category string) (Segmenter, bool) {
	s, ok := r.segmenters[category]
	return s, ok
}

var (
	// articleHeading matches heading lines such as "Artikel 244" and
	// "Artikel 244a", anchored at line start.
	articleHeading = regexp.MustCompile(`(?mi)^[ \t]*artikel[ \t]+(\d+[a-z]?)\b.*$`)

	// bookToken extracts the statute book number from a relative source
	// path, e.g. "laws/BW_Boek7.txt".
	bookToken = regexp.MustCompile(`(?i)boek(\d+)`)
)

// ArticleSegmenter slices statutory texts into one sub-document per
// article, keyed on "Artikel <num>" heading lines. The heading line itself
// is dropped; each sub-document holds only the article body. The statute
// book number is read once per document from the relative source path
// ("Boek7" and similar tokens); when present, articles are tagged with the
// canonical "book:number" identifier used by the retrieval filters.
type ArticleSegmenter struct{}

// NewArticleSegmenter creates an ArticleSegmenter.
func NewArticleSegmenter() *ArticleSegmenter {
	return &ArticleSegmenter{}
}

// Segment splits doc at article headings. Documents without any heading
// are returned unchanged.
func (s *ArticleSegmenter) Segment(doc core.Document) []core.Document {
	matches := articleHeading.FindAllStringSubmatchIndex(doc.Text, -1)
	if len(matches) == 0 {
		return []core.Document{doc}
	}

	book := ""
	if m := bookToken.FindStringSubmatch(doc.Metadata[core.MetaSourceRel]); m != nil {
		book = m[1]
	}

	out := make([]core.Document, 0, len(matches))
	for i, m := range matches {
		headingEnd := m[1]
		num := doc.Text[m[2]:m[3]]

		bodyEnd := len(doc.Text)
		if i+1 < len(matches) {
			bodyEnd = matches[i+1][0]
		}
		body := strings.TrimSpace(doc.Text[headingEnd:bodyEnd])
		if body == "" {
			continue
		}

		md := doc.Metadata.Clone()
		md[core.MetaArticleNum] = num
		if book != "" {
			md[core.MetaArticle] = book + ":" + num
			md[core.MetaBook] = book
		} else {
			md[core.MetaArticle] = num
		}
		out = append(out, core.Document{Text: body, Metadata: md})
	}

	if len(out) == 0 {
		// headings with empty bodies only, keep the original
		return []core.Document{doc}
	}
	return out
}
