// Package ingestion turns a directory of source files into embeddable chunks.
//
// The package has three stages:
//   - Loader walks a corpus directory and reads PDF, text, and markdown files
//     into documents, one document per PDF page. The first path segment below
//     the corpus root becomes the document's category.
//   - Segmenter implementations pre-segment documents of specific categories
//     before size-based chunking. The built-in ArticleSegmenter slices
//     statutory texts at "Artikel <num>" headings so one chunk never straddles
//     two articles.
//   - Pipeline routes documents through the registered segmenters and the
//     configured splitting strategy, propagating and enriching metadata.
//
// Segmentation boundaries are soft hints: an article body larger than the
// chunk size bound is still subdivided by the strategy.
package ingestion
