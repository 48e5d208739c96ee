package services

import "errors"

// Validation and ingestion failures surfaced to callers. Transient
// collaborator failures (embeddings, vector index, session store) are never
// surfaced; those components degrade instead.
var (
	ErrUnknownStrategy     = errors.New("unknown chunking strategy")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrEmptyDocument       = errors.New("no usable content in document")
	ErrExtraction          = errors.New("text extraction failed")
)
