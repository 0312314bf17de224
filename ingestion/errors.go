package ingestion

import "errors"

var (
	// ErrDataDirRequired is returned when a loader is created without a corpus directory.
	ErrDataDirRequired = errors.New("data directory required")

	// ErrNoDocuments is returned when chunking is requested for an empty document set.
	ErrNoDocuments = errors.New("no documents to chunk")
)
