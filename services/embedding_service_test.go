package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEmbedClient returns a fixed vector per text, or fails entirely.
type stubEmbedClient struct {
	vectors map[string][]float32
	fail    bool
}

func (c *stubEmbedClient) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	if c.fail {
		return nil, errors.New("model unavailable")
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if v, ok := c.vectors[text]; ok {
			out[i] = v
		} else {
			out[i] = []float32{1, 0, 0, 0}
		}
	}
	return out, nil
}

func TestGenerateEmbeddingsOrder(t *testing.T) {
	client := &stubEmbedClient{vectors: map[string][]float32{
		"one": {1, 0, 0, 0},
		"two": {0, 1, 0, 0},
	}}
	svc := NewEmbeddingService(client, 4)

	vectors := svc.GenerateEmbeddings(context.Background(), []string{"one", "two"})
	require.Len(t, vectors, 2)
	assert.Equal(t, []float32{1, 0, 0, 0}, vectors[0])
	assert.Equal(t, []float32{0, 1, 0, 0}, vectors[1])
}

func TestGenerateEmbeddingMatchesBatchForm(t *testing.T) {
	client := &stubEmbedClient{vectors: map[string][]float32{
		"hello": {0, 0, 1, 0},
	}}
	svc := NewEmbeddingService(client, 4)

	single := svc.GenerateEmbedding(context.Background(), "hello")
	batch := svc.GenerateEmbeddings(context.Background(), []string{"hello"})
	assert.Equal(t, batch[0], single)
}

func TestGenerateEmbeddingsFallbackOnFailure(t *testing.T) {
	svc := NewEmbeddingService(&stubEmbedClient{fail: true}, 16)

	texts := []string{"a", "b", "c"}
	vectors := svc.GenerateEmbeddings(context.Background(), texts)

	// Model failure must not propagate; every fallback vector still has the
	// configured dimension.
	require.Len(t, vectors, len(texts))
	for _, v := range vectors {
		assert.Len(t, v, 16)
	}
}

func TestGenerateEmbeddingsEmptyInput(t *testing.T) {
	svc := NewEmbeddingService(&stubEmbedClient{}, 4)
	assert.Empty(t, svc.GenerateEmbeddings(context.Background(), nil))
}
