package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"rag-chatbot-backend/internal/logger"
	"rag-chatbot-backend/internal/vectorstore"
	"rag-chatbot-backend/models"
)

// DocumentService orchestrates extract -> chunk -> embed -> index for one
// uploaded document.
type DocumentService struct {
	extractor *TextExtractor
	chunker   *TextChunker
	embedder  *EmbeddingService
	index     vectorstore.Index
}

func NewDocumentService(extractor *TextExtractor, chunker *TextChunker, embedder *EmbeddingService, index vectorstore.Index) *DocumentService {
	return &DocumentService{
		extractor: extractor,
		chunker:   chunker,
		embedder:  embedder,
		index:     index,
	}
}

// Process turns an uploaded document into indexed fragments and returns the
// ingestion receipt. ChunkCount reflects the chunks produced; failed index
// writes lower IndexedCount but do not fail the ingestion.
func (s *DocumentService) Process(ctx context.Context, filename string, content []byte, strategy ChunkingStrategy) (*models.Document, error) {
	fileType := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if fileType != "pdf" && fileType != "txt" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFileType, fileType)
	}

	logger.Info("Processing document", "filename", filename, "file_type", fileType, "strategy", string(strategy))

	text, err := s.extractor.Extract(fileType, content)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, fmt.Errorf("%w: no text extracted", ErrEmptyDocument)
	}

	chunks, err := s.chunker.Chunk(text, strategy)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: no chunks created from text", ErrEmptyDocument)
	}

	vectors := s.embedder.GenerateEmbeddings(ctx, chunks)

	metadata := make([]map[string]any, len(chunks))
	for i := range chunks {
		metadata[i] = map[string]any{
			"filename":          filename,
			"file_type":         fileType,
			"chunking_strategy": string(strategy),
			"chunk_index":       i,
		}
	}

	ids, err := s.index.Upsert(ctx, vectors, chunks, metadata)
	if err != nil {
		// The receipt still reflects the produced chunks; dropped fragments
		// only show up through indexed_count.
		logger.Error("Vector upsert failed during ingestion", "filename", filename, "error", err)
		ids = nil
	}

	if len(ids) < len(chunks) {
		logger.Warn("Not all chunks were indexed", "filename", filename,
			"chunks", len(chunks), "indexed", len(ids))
	}

	return &models.Document{
		Filename:         filename,
		FileType:         fileType,
		ChunkingStrategy: string(strategy),
		ChunkCount:       len(chunks),
		IndexedCount:     len(ids),
		CreatedAt:        time.Now().UTC(),
	}, nil
}
