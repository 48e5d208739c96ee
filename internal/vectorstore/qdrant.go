package vectorstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"rag-chatbot-backend/internal/logger"

	"github.com/google/uuid"
)

const upsertBatchSize = 100

// Qdrant is a minimal REST client to a remote Qdrant instance. The collection
// is name-addressed with cosine distance fixed at creation.
type Qdrant struct {
	url        string
	apiKey     string
	collection string
	dimension  int
	client     *http.Client

	// settleTimeout bounds the wait for collection deletion/creation to settle.
	settleTimeout time.Duration
}

type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

func NewQdrant(cfg QdrantConfig) *Qdrant {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Qdrant{
		url:           cfg.URL,
		apiKey:        cfg.APIKey,
		collection:    cfg.Collection,
		client:        &http.Client{Timeout: timeout},
		settleTimeout: 30 * time.Second,
	}
}

// Init reconciles the remote collection against the configured dimension:
// create it when absent, and when it exists with a different dimension delete
// it, wait for the deletion to settle, then recreate it. Safe to run on every
// process start.
func (q *Qdrant) Init(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	q.dimension = dimension

	current, exists, err := q.describeCollection(ctx)
	if err != nil {
		return fmt.Errorf("failed to describe collection %q: %w", q.collection, err)
	}

	if !exists {
		if err := q.createCollection(ctx, dimension); err != nil {
			return fmt.Errorf("failed to create collection %q: %w", q.collection, err)
		}
		return q.waitReady(ctx)
	}

	if current == dimension {
		logger.Info("Vector index dimension matches requirements", "collection", q.collection, "dimension", dimension)
		return nil
	}

	logger.Warn("Vector index dimension mismatch, recreating",
		"collection", q.collection, "current", current, "configured", dimension)

	if err := q.deleteCollection(ctx); err != nil {
		return fmt.Errorf("failed to delete collection %q: %w", q.collection, err)
	}
	if err := q.waitGone(ctx); err != nil {
		return err
	}
	if err := q.createCollection(ctx, dimension); err != nil {
		return fmt.Errorf("failed to recreate collection %q: %w", q.collection, err)
	}
	return q.waitReady(ctx)
}

// Upsert writes entries in batches of 100. A failed batch is logged and
// skipped; the returned ids cover only acknowledged batches.
func (q *Qdrant) Upsert(ctx context.Context, vectors [][]float32, texts []string, metadata []map[string]any) ([]string, error) {
	if len(vectors) == 0 || len(texts) == 0 {
		logger.Warn("No vectors or texts to upsert", "collection", q.collection)
		return []string{}, nil
	}
	if len(vectors) != len(texts) || len(vectors) != len(metadata) {
		return nil, fmt.Errorf("vectors (%d), texts (%d) and metadata (%d) must have equal length",
			len(vectors), len(texts), len(metadata))
	}

	ids := make([]string, len(vectors))
	points := make([]map[string]any, len(vectors))
	for i := range vectors {
		ids[i] = uuid.NewString()
		payload := make(map[string]any, len(metadata[i])+1)
		for k, v := range metadata[i] {
			payload[k] = v
		}
		payload["text"] = texts[i]
		points[i] = map[string]any{
			"id":      ids[i],
			"vector":  vectors[i],
			"payload": payload,
		}
	}

	successful := make([]string, 0, len(ids))
	for start := 0; start < len(points); start += upsertBatchSize {
		end := start + upsertBatchSize
		if end > len(points) {
			end = len(points)
		}

		body := map[string]any{"points": points[start:end]}
		url := fmt.Sprintf("%s/collections/%s/points?wait=true", q.url, q.collection)
		if err := q.doJSON(ctx, http.MethodPut, url, body, nil); err != nil {
			logger.Error("Failed to upsert batch", "collection", q.collection,
				"batch", start/upsertBatchSize+1, "error", err)
			continue
		}
		successful = append(successful, ids[start:end]...)
	}

	return successful, nil
}

// Query returns the topK nearest entries by cosine similarity. Any failure is
// absorbed and yields an empty result.
func (q *Qdrant) Query(ctx context.Context, vector []float32, topK int, filter map[string]any) []Match {
	if topK <= 0 {
		topK = 5
	}

	req := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
	}
	if filter != nil {
		req["filter"] = filter
	}

	var resp struct {
		Result []struct {
			ID      any            `json:"id"`
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}

	url := fmt.Sprintf("%s/collections/%s/points/search", q.url, q.collection)
	if err := q.doJSON(ctx, http.MethodPost, url, req, &resp); err != nil {
		logger.Error("Vector query failed", "collection", q.collection, "error", err)
		return []Match{}
	}

	matches := make([]Match, 0, len(resp.Result))
	for _, r := range resp.Result {
		text, _ := r.Payload["text"].(string)
		matches = append(matches, Match{
			ID:       fmt.Sprintf("%v", r.ID),
			Score:    r.Score,
			Text:     text,
			Metadata: r.Payload,
		})
	}
	return matches
}

func (q *Qdrant) describeCollection(ctx context.Context) (dimension int, exists bool, err error) {
	var resp struct {
		Result struct {
			Config struct {
				Params struct {
					Vectors struct {
						Size int `json:"size"`
					} `json:"vectors"`
				} `json:"params"`
			} `json:"config"`
		} `json:"result"`
	}

	url := fmt.Sprintf("%s/collections/%s", q.url, q.collection)
	err = q.doJSON(ctx, http.MethodGet, url, nil, &resp)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) && se.code == http.StatusNotFound {
			return 0, false, nil
		}
		return 0, false, err
	}
	return resp.Result.Config.Params.Vectors.Size, true, nil
}

func (q *Qdrant) createCollection(ctx context.Context, dimension int) error {
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	url := fmt.Sprintf("%s/collections/%s", q.url, q.collection)
	return q.doJSON(ctx, http.MethodPut, url, body, nil)
}

func (q *Qdrant) deleteCollection(ctx context.Context) error {
	url := fmt.Sprintf("%s/collections/%s", q.url, q.collection)
	return q.doJSON(ctx, http.MethodDelete, url, nil, nil)
}

// waitGone polls until the collection no longer resolves.
func (q *Qdrant) waitGone(ctx context.Context) error {
	deadline := time.Now().Add(q.settleTimeout)
	for time.Now().Before(deadline) {
		_, exists, err := q.describeCollection(ctx)
		if err == nil && !exists {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}
	return fmt.Errorf("collection %q deletion did not settle within %s", q.collection, q.settleTimeout)
}

// waitReady polls until the collection resolves.
func (q *Qdrant) waitReady(ctx context.Context) error {
	deadline := time.Now().Add(q.settleTimeout)
	for time.Now().Before(deadline) {
		_, exists, err := q.describeCollection(ctx)
		if err == nil && exists {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}
	return fmt.Errorf("collection %q creation did not settle within %s", q.collection, q.settleTimeout)
}

type statusError struct {
	code   int
	status string
	url    string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("qdrant request %s failed: %s", e.url, e.status)
}

func (q *Qdrant) doJSON(ctx context.Context, method, url string, body any, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if q.apiKey != "" {
		req.Header.Set("api-key", q.apiKey)
	}

	resp, err := q.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return &statusError{code: resp.StatusCode, status: resp.Status, url: url}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
