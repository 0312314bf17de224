// Package retrieval implements hybrid retrieval over the vector index.
//
// Questions are first run through a rule-based Classifier that decides
// whether they are statutory-law questions and, when possible, extracts a
// canonical article identifier such as "7:244". The Router then issues
// either a single broad similarity search, or a narrow metadata-filtered
// search blended with a broad one, narrow hits first. The blend order is a
// priority rule: when both exist, domain precision beats general recall.
package retrieval
