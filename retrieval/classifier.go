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
	"regexp"
	"strings"
)

// Classification is the outcome of classifying a question.
type Classification struct {
	// IsStatute marks the question as a statutory-law question, which
	// makes the router blend in a narrow filtered search.
	IsStatute bool

	// ArticleID is the canonical "book:number" identifier extracted from
	// the question, or bare "number" when no book could be determined.
	// Empty when no article was mentioned.
	ArticleID string
}

var (
	// citationPattern matches explicit statute citations like "7:244" or "7:244a".
	citationPattern = regexp.MustCompile(`\b(\d{1,2}:\d{1,4}[a-z]?)\b`)

	// articleRefPattern matches bare article references in the supported
	// languages, e.g. "artikel 244", "art. 12a", "чл. 5".
	articleRefPattern = regexp.MustCompile(`(?:art\.|artikel|article|чл\.|член)\s*(\d{1,4}[a-z]?)\b`)
)

// Keyword sets for the rule-based classification. Dutch, English, and
// Bulgarian are the corpus languages.
var (
	civilCodeWords = []string{"bw", "burgerlijk", "civil code", "boek 7", "book 7"}
	articleWords   = []string{"art.", "artikel", "article", "чл.", "член"}
)

// Classifier decides whether a question targets statutory law.
//
// Classification is purely lexical; no model call is involved. Rules, in
// order: an explicit "book:number" citation wins; otherwise a question
// mentioning both a civil-code keyword and an article keyword counts as a
// statute question. A bare "article <num>" mention yields an article id
// under the configured default book even when the question is not
// classified as a statute question; the router only acts on it when the
// statute classification also holds.
type Classifier struct {
	defaultBook string
}

// ClassifierOption configures a Classifier.
type ClassifierOption func(*Classifier)

// WithDefaultBook sets the statute book assumed for bare article mentions.
// The default is book 7 (Dutch tenancy law), which is corpus-specific;
// deployments indexing other statutes should set their own.
func WithDefaultBook(book string) ClassifierOption {
	return func(c *Classifier) {
		if book != "" {
			c.defaultBook = book
		}
	}
}

// NewClassifier creates a classifier.
func NewClassifier(opts ...ClassifierOption) *Classifier {
	c := &Classifier{defaultBook: "7"}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify applies the rules to a question.
func (c *Classifier) Classify(question string) Classification {
	q := strings.ToLower(question)

	if m := citationPattern.FindStringSubmatch(q); m != nil {
		return Classification{IsStatute: true, ArticleID: m[1]}
	}

	var out Classification
	out.IsStatute = containsAny(q, civilCodeWords) && containsAny(q, articleWords)

	if m := articleRefPattern.FindStringSubmatch(q); m != nil {
		out.ArticleID = c.defaultBook + ":" + m[1]
	}
	return out
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
