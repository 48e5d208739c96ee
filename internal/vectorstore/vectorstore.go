package vectorstore

import "context"

// Match is a retrieved entry with its similarity score. Text is pulled out of
// the payload for convenience; Metadata carries the full payload.
type Match struct {
	ID       string         `json:"id"`
	Score    float64        `json:"score"`
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata"`
}

// Index stores (vector, text, metadata) entries and answers nearest-neighbor
// queries by cosine similarity.
//
// Init reconciles the backing index against the given dimension and must be
// idempotent; running it concurrently with writes is not safe since a
// dimension mismatch recreates the index and drops prior entries.
//
// Upsert generates one id per entry, attaches the text into each entry's
// payload, and returns the ids that were acknowledged; a failed batch is
// skipped, not retried.
//
// Query returns matches ordered by descending score. It absorbs failures and
// returns an empty slice so the read path stays available.
type Index interface {
	Init(ctx context.Context, dimension int) error
	Upsert(ctx context.Context, vectors [][]float32, texts []string, metadata []map[string]any) ([]string, error)
	Query(ctx context.Context, vector []float32, topK int, filter map[string]any) []Match
}
