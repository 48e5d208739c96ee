package services

import (
	"context"
	"math/rand"

	"rag-chatbot-backend/internal/logger"
)

// EmbeddingClient is the external embedding model boundary. internal/ai
// provides the production implementation.
type EmbeddingClient interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// EmbeddingService maps text fragments to fixed-dimension vectors. Model
// failures never abort the pipeline: the service degrades to pseudo-random
// vectors of the configured dimension instead.
type EmbeddingService struct {
	client    EmbeddingClient
	dimension int
}

func NewEmbeddingService(client EmbeddingClient, dimension int) *EmbeddingService {
	return &EmbeddingService{client: client, dimension: dimension}
}

// Dimension is the length of every vector this service produces.
func (s *EmbeddingService) Dimension() int { return s.dimension }

// GenerateEmbeddings returns one vector per input text, in input order.
func (s *EmbeddingService) GenerateEmbeddings(ctx context.Context, texts []string) [][]float32 {
	if len(texts) == 0 {
		return [][]float32{}
	}

	vectors, err := s.client.EmbedTexts(ctx, texts)
	if err == nil && len(vectors) == len(texts) {
		return vectors
	}

	if err != nil {
		logger.Error("Embedding generation failed, falling back to random vectors",
			"texts", len(texts), "error", err)
	} else {
		logger.Error("Embedding model returned wrong count, falling back to random vectors",
			"texts", len(texts), "vectors", len(vectors))
	}

	fallback := make([][]float32, len(texts))
	for i := range texts {
		vec := make([]float32, s.dimension)
		for j := range vec {
			vec[j] = rand.Float32()
		}
		fallback[i] = vec
	}
	return fallback
}

// GenerateEmbedding is the single-text convenience form.
func (s *EmbeddingService) GenerateEmbedding(ctx context.Context, text string) []float32 {
	return s.GenerateEmbeddings(ctx, []string{text})[0]
}
