package services

import (
	"context"
	"strings"
	"testing"

	"rag-chatbot-backend/internal/vectorstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDocumentService(t *testing.T) (*DocumentService, *vectorstore.Memory) {
	t.Helper()

	index := vectorstore.NewMemory()
	require.NoError(t, index.Init(context.Background(), 4))

	chunker, err := NewTextChunker(500, 50, 5)
	require.NoError(t, err)

	embedder := NewEmbeddingService(&stubEmbedClient{}, 4)
	return NewDocumentService(NewTextExtractor(), chunker, embedder, index), index
}

func TestProcessTxtFixedSize(t *testing.T) {
	svc, index := newTestDocumentService(t)

	content := []byte(strings.Repeat("a", 1200))
	doc, err := svc.Process(context.Background(), "notes.txt", content, StrategyFixedSize)
	require.NoError(t, err)

	// 1200 chars at 500/450 stride cover three windows.
	assert.Equal(t, 3, doc.ChunkCount)
	assert.Equal(t, 3, doc.IndexedCount)
	assert.Equal(t, "txt", doc.FileType)
	assert.Equal(t, "fixed_size", doc.ChunkingStrategy)
	assert.Equal(t, "notes.txt", doc.Filename)
	assert.False(t, doc.CreatedAt.IsZero())

	matches := index.Query(context.Background(), []float32{1, 0, 0, 0}, 10, nil)
	require.Len(t, matches, 3)
	assert.Equal(t, "notes.txt", matches[0].Metadata["filename"])
	assert.Equal(t, "fixed_size", matches[0].Metadata["chunking_strategy"])
	assert.Contains(t, matches[0].Metadata, "chunk_index")
}

func TestProcessTxtSentenceBased(t *testing.T) {
	svc, _ := newTestDocumentService(t)

	content := []byte("One. Two. Three. Four. Five. Six. Seven.")
	doc, err := svc.Process(context.Background(), "list.TXT", content, StrategySentenceBased)
	require.NoError(t, err)

	// Extension matching is case-insensitive; 7 sentences group into 2 runs.
	assert.Equal(t, "txt", doc.FileType)
	assert.Equal(t, 2, doc.ChunkCount)
}

func TestProcessUnsupportedFileType(t *testing.T) {
	svc, _ := newTestDocumentService(t)

	_, err := svc.Process(context.Background(), "sheet.xlsx", []byte("data"), StrategyFixedSize)
	assert.ErrorIs(t, err, ErrUnsupportedFileType)
}

func TestProcessEmptyDocument(t *testing.T) {
	svc, _ := newTestDocumentService(t)

	_, err := svc.Process(context.Background(), "blank.txt", []byte("   \n  "), StrategyFixedSize)
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestProcessUnknownStrategy(t *testing.T) {
	svc, _ := newTestDocumentService(t)

	_, err := svc.Process(context.Background(), "notes.txt", []byte("content"), ChunkingStrategy("bogus"))
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestProcessSurvivesEmbedderFailure(t *testing.T) {
	index := vectorstore.NewMemory()
	require.NoError(t, index.Init(context.Background(), 8))

	chunker, err := NewTextChunker(500, 50, 5)
	require.NoError(t, err)

	// A failing model degrades to random vectors; ingestion still succeeds.
	embedder := NewEmbeddingService(&stubEmbedClient{fail: true}, 8)
	svc := NewDocumentService(NewTextExtractor(), chunker, embedder, index)

	doc, err := svc.Process(context.Background(), "notes.txt", []byte("some document text"), StrategyFixedSize)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.ChunkCount)
	assert.Equal(t, 1, doc.IndexedCount)
}
