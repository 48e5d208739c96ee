package services

import (
	"context"
	"encoding/json"
	"time"

	"rag-chatbot-backend/internal/logger"
	"rag-chatbot-backend/models"

	"github.com/redis/go-redis/v9"
)

// SessionStore keeps a bounded, expiring message log per session in Redis.
// Store failures are absorbed: reads fall back to an empty history and failed
// writes lose that turn.
type SessionStore struct {
	rdb         *redis.Client
	ttl         time.Duration
	maxMessages int
}

func NewSessionStore(rdb *redis.Client, ttl time.Duration, maxMessages int) *SessionStore {
	return &SessionStore{rdb: rdb, ttl: ttl, maxMessages: maxMessages}
}

func sessionKey(sessionID string) string { return "chat:" + sessionID }

// History returns the session's messages in order. Missing or corrupted
// entries yield an empty history, never an error.
func (s *SessionStore) History(ctx context.Context, sessionID string) []models.ChatMessage {
	data, err := s.rdb.Get(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("Failed to read chat history", "session_id", sessionID, "error", err)
		}
		return []models.ChatMessage{}
	}

	var history []models.ChatMessage
	if err := json.Unmarshal([]byte(data), &history); err != nil {
		logger.Warn("Corrupted chat history entry", "session_id", sessionID, "error", err)
		return []models.ChatMessage{}
	}
	return history
}

// Append adds one message, truncates to the most recent maxMessages, and
// writes back with the expiry refreshed.
func (s *SessionStore) Append(ctx context.Context, sessionID, role, content string) {
	history := s.History(ctx, sessionID)
	history = capHistory(append(history, models.ChatMessage{Role: role, Content: content}), s.maxMessages)

	data, err := json.Marshal(history)
	if err != nil {
		logger.Error("Failed to encode chat history", "session_id", sessionID, "error", err)
		return
	}

	if err := s.rdb.SetEx(ctx, sessionKey(sessionID), data, s.ttl).Err(); err != nil {
		logger.Error("Failed to save chat history", "session_id", sessionID, "error", err)
	}
}

// capHistory keeps the most recent max messages, dropping the oldest.
func capHistory(history []models.ChatMessage, max int) []models.ChatMessage {
	if max > 0 && len(history) > max {
		return history[len(history)-max:]
	}
	return history
}
