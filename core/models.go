package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"strconv"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated from content using deterministic hashing, so the same
// text always maps to the same ID.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Metadata holds provenance fields attached to documents, chunks, and hits.
type Metadata map[string]string

// Well-known metadata keys.
const (
	// MetaSourcePath is the absolute path of the file a document came from.
	MetaSourcePath = "source_path"
	// MetaSourceRel is the path relative to the data root, slash-separated.
	MetaSourceRel = "source_rel"
	// MetaCategory is the top-level data-root directory a document came from,
	// or "root" for files directly under the data root.
	MetaCategory = "category"
	// MetaPage is the 1-based page number for documents extracted from PDFs.
	MetaPage = "page"
	// MetaArticle identifies a statutory article as "book:number" (for example
	// "7:244"), or the bare number when the book could not be determined.
	MetaArticle = "article"
	// MetaArticleNum is the bare article number, including a trailing letter
	// suffix when present (for example "244a").
	MetaArticleNum = "article_num"
	// MetaBook is the statute book number extracted from the source path.
	MetaBook = "book"
)

// CategoryLaws marks statutory-law documents, which receive per-article
// segmentation before chunking.
const CategoryLaws = "laws"

// CategoryRoot is assigned to documents loaded from files directly under the
// data root, outside any category subdirectory.
const CategoryRoot = "root"

// Clone returns a copy of the metadata. Cloning nil yields an empty,
// non-nil map so callers can set fields without checking.
func (m Metadata) Clone() Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// SetDefault sets key to value only when the key is absent.
func (m Metadata) SetDefault(key, value string) {
	if _, ok := m[key]; !ok {
		m[key] = value
	}
}

// Page returns the page number and true when the metadata carries a valid
// page field.
func (m Metadata) Page() (int, bool) {
	v, ok := m[MetaPage]
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Document is a unit of loaded source text with its provenance metadata.
// Documents are produced by the loader and are not mutated afterwards;
// segmentation and chunking always produce new values.
type Document struct {
	Text     string
	Metadata Metadata
}

// Chunk is a bounded, overlap-aware slice of a document's text, the unit
// actually indexed and retrieved. Metadata is the union of the parent
// document's metadata and chunk-specific fields.
type Chunk struct {
	Text     string
	Metadata Metadata
	Vector   []float32 // Embedding vector for similarity search (populated at index time)
}

// ContentID returns the deterministic ID of the chunk's full text.
// Two chunks with identical text share an ID, which the retrieval router
// relies on for de-duplicating passages returned by independent searches.
func (c *Chunk) ContentID() ID {
	return IDFromContent(c.Text)
}

// Hit is a single retrieved passage with its source metadata and similarity
// score. Hits are transient, created fresh per query; their position in the
// returned slice is their rank.
type Hit struct {
	Text     string
	Metadata Metadata
	Score    float32
}
