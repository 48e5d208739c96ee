package vectorstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySelfSimilarityRanksFirst(t *testing.T) {
	index := NewMemory()
	require.NoError(t, index.Init(context.Background(), 3))

	vectors := [][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0.7, 0.7, 0},
	}
	texts := []string{"alpha", "beta", "gamma"}
	metadata := []map[string]any{{"i": 0}, {"i": 1}, {"i": 2}}

	ids, err := index.Upsert(context.Background(), vectors, texts, metadata)
	require.NoError(t, err)
	require.Len(t, ids, 3)

	matches := index.Query(context.Background(), []float32{0, 1, 0}, 3, nil)
	require.Len(t, matches, 3)
	assert.Equal(t, "beta", matches[0].Text)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-6)
	assert.GreaterOrEqual(t, matches[0].Score, matches[1].Score)
	assert.GreaterOrEqual(t, matches[1].Score, matches[2].Score)
}

func TestMemoryUpsertAttachesText(t *testing.T) {
	index := NewMemory()
	require.NoError(t, index.Init(context.Background(), 2))

	_, err := index.Upsert(context.Background(),
		[][]float32{{1, 0}}, []string{"fragment"}, []map[string]any{{"filename": "a.txt"}})
	require.NoError(t, err)

	matches := index.Query(context.Background(), []float32{1, 0}, 1, nil)
	require.Len(t, matches, 1)
	assert.Equal(t, "fragment", matches[0].Text)
	assert.Equal(t, "fragment", matches[0].Metadata["text"])
	assert.Equal(t, "a.txt", matches[0].Metadata["filename"])
}

func TestMemoryUpsertLengthMismatch(t *testing.T) {
	index := NewMemory()
	require.NoError(t, index.Init(context.Background(), 2))

	_, err := index.Upsert(context.Background(),
		[][]float32{{1, 0}}, []string{"a", "b"}, []map[string]any{{}, {}})
	assert.Error(t, err)
}

func TestMemoryUpsertDimensionMismatch(t *testing.T) {
	index := NewMemory()
	require.NoError(t, index.Init(context.Background(), 2))

	_, err := index.Upsert(context.Background(),
		[][]float32{{1, 0, 0}}, []string{"a"}, []map[string]any{{}})
	assert.Error(t, err)
}

func TestMemoryUpsertEmptyInput(t *testing.T) {
	index := NewMemory()
	require.NoError(t, index.Init(context.Background(), 2))

	ids, err := index.Upsert(context.Background(), nil, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestMemoryQueryTopKCap(t *testing.T) {
	index := NewMemory()
	require.NoError(t, index.Init(context.Background(), 2))

	vectors := make([][]float32, 6)
	texts := make([]string, 6)
	metadata := make([]map[string]any, 6)
	for i := range vectors {
		vectors[i] = []float32{1, 0}
		texts[i] = "t"
		metadata[i] = map[string]any{}
	}
	_, err := index.Upsert(context.Background(), vectors, texts, metadata)
	require.NoError(t, err)

	assert.Len(t, index.Query(context.Background(), []float32{1, 0}, 4, nil), 4)
}

func TestMemoryInitWithNewDimensionDropsEntries(t *testing.T) {
	index := NewMemory()
	require.NoError(t, index.Init(context.Background(), 2))

	_, err := index.Upsert(context.Background(),
		[][]float32{{1, 0}}, []string{"a"}, []map[string]any{{}})
	require.NoError(t, err)

	require.NoError(t, index.Init(context.Background(), 3))
	assert.Empty(t, index.Query(context.Background(), []float32{1, 0, 0}, 5, nil))
}
