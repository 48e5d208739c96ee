package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Memory is a brute-force cosine similarity index held in process memory.
// It backs local development and tests when no remote index is configured.
type Memory struct {
	mu        sync.RWMutex
	dimension int
	entries   []memoryEntry
}

type memoryEntry struct {
	id       string
	vector   []float32
	text     string
	metadata map[string]any
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Init(_ context.Context, dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	// Dimension change drops all entries, mirroring remote index recreation.
	if m.dimension != 0 && m.dimension != dimension {
		m.entries = nil
	}
	m.dimension = dimension
	return nil
}

func (m *Memory) Upsert(_ context.Context, vectors [][]float32, texts []string, metadata []map[string]any) ([]string, error) {
	if len(vectors) == 0 || len(texts) == 0 {
		return []string{}, nil
	}
	if len(vectors) != len(texts) || len(vectors) != len(metadata) {
		return nil, fmt.Errorf("vectors (%d), texts (%d) and metadata (%d) must have equal length",
			len(vectors), len(texts), len(metadata))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, v := range vectors {
		if len(v) != m.dimension {
			return nil, fmt.Errorf("vector dimension %d does not match index dimension %d", len(v), m.dimension)
		}
	}

	ids := make([]string, len(vectors))
	for i := range vectors {
		ids[i] = uuid.NewString()
		payload := make(map[string]any, len(metadata[i])+1)
		for k, v := range metadata[i] {
			payload[k] = v
		}
		payload["text"] = texts[i]
		m.entries = append(m.entries, memoryEntry{
			id:       ids[i],
			vector:   vectors[i],
			text:     texts[i],
			metadata: payload,
		})
	}

	return ids, nil
}

func (m *Memory) Query(_ context.Context, vector []float32, topK int, _ map[string]any) []Match {
	if topK <= 0 {
		topK = 5
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	matches := make([]Match, 0, len(m.entries))
	for _, e := range m.entries {
		matches = append(matches, Match{
			ID:       e.id,
			Score:    cosineSimilarity(e.vector, vector),
			Text:     e.text,
			Metadata: e.metadata,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })

	if topK < len(matches) {
		matches = matches[:topK]
	}
	return matches
}

func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
