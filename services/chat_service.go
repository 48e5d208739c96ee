package services

import (
	"context"
	"strings"

	"rag-chatbot-backend/internal/logger"
	"rag-chatbot-backend/internal/vectorstore"
	"rag-chatbot-backend/models"
)

const (
	greetingReply  = "Hello! I'm your AI assistant. I can help answer questions based on your uploaded documents or help you book an interview."
	bookingReply   = "I can help you book an interview! Please provide your name, email, preferred date (YYYY-MM-DD), and time (HH:MM)."
	gratitudeReply = "You're welcome! Is there anything else I can help you with?"
	fallbackReply  = "I don't have enough relevant information in my knowledge base to answer that specific question. You might want to upload documents related to this topic, or try asking about artificial intelligence, machine learning, or other topics you've uploaded."
	apologyReply   = "Sorry, I encountered an error while processing your request. Please try again."
)

var (
	greetingWords   = []string{"hello", "hi", "hey", "greetings"}
	bookingKeywords = []string{"book", "schedule", "interview", "appointment", "meeting", "slot", "time", "date", "reserve"}
	gratitudeWords  = []string{"thank", "thanks"}
)

// SessionLog is the conversational history collaborator consumed by the chat
// engine. SessionStore is the Redis-backed implementation.
type SessionLog interface {
	History(ctx context.Context, sessionID string) []models.ChatMessage
	Append(ctx context.Context, sessionID, role, content string)
}

// ChatService answers queries by retrieving relevant fragments and composing
// a deterministic rule-based reply.
type ChatService struct {
	embedder       *EmbeddingService
	index          vectorstore.Index
	sessions       SessionLog
	topK           int
	scoreThreshold float64
}

func NewChatService(embedder *EmbeddingService, index vectorstore.Index, sessions SessionLog, topK int, scoreThreshold float64) *ChatService {
	return &ChatService{
		embedder:       embedder,
		index:          index,
		sessions:       sessions,
		topK:           topK,
		scoreThreshold: scoreThreshold,
	}
}

// Chat handles one query. Whatever goes wrong internally, the caller gets a
// usable result: unexpected failures collapse into a fixed apology.
func (s *ChatService) Chat(ctx context.Context, sessionID, query string) (result models.ChatResult) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Chat engine failure", "session_id", sessionID, "panic", r)
			result = models.ChatResult{
				Response:        apologyReply,
				ContextUsed:     []string{},
				BookingDetected: false,
			}
		}
	}()

	context := s.retrieveContext(ctx, query)
	response := s.composeResponse(query, context)

	s.sessions.Append(ctx, sessionID, "user", query)
	s.sessions.Append(ctx, sessionID, "assistant", response)

	used := context
	if len(used) > 3 {
		used = used[:3]
	}

	// Recomputed independently of which branch composed the reply.
	return models.ChatResult{
		Response:        response,
		ContextUsed:     used,
		BookingDetected: s.detectBookingIntent(query),
	}
}

// retrieveContext returns the texts of fragments scoring above the threshold.
func (s *ChatService) retrieveContext(ctx context.Context, query string) []string {
	vector := s.embedder.GenerateEmbedding(ctx, query)
	matches := s.index.Query(ctx, vector, s.topK, nil)

	texts := make([]string, 0, len(matches))
	for _, m := range matches {
		if m.Score > s.scoreThreshold && m.Text != "" {
			texts = append(texts, m.Text)
		}
	}
	return texts
}

// composeResponse evaluates the reply rules in strict order; first match wins.
func (s *ChatService) composeResponse(query string, context []string) string {
	queryLower := strings.ToLower(query)

	if containsAny(queryLower, greetingWords) {
		return greetingReply
	}

	if s.detectBookingIntent(query) {
		return bookingReply
	}

	if containsAny(queryLower, gratitudeWords) {
		return gratitudeReply
	}

	if len(context) > 0 {
		combined := strings.Join(context, "\n\n")

		if containsAny(queryLower, []string{"artificial intelligence", "ai"}) {
			if sentence, ok := firstSentenceContaining(combined, "artificial intelligence", "ai"); ok {
				return "Based on your documents: " + sentence + "."
			}
		}

		if containsAny(queryLower, []string{"machine learning", "ml"}) {
			if sentence, ok := firstSentenceContaining(combined, "machine learning", "ml"); ok {
				return "Based on your documents: " + sentence + "."
			}
		}

		if runes := []rune(combined); len(runes) > 200 {
			combined = string(runes[:197]) + "..."
		}

		return "Based on the information in your documents:\n\n" + combined + "\n\nWould you like more specific details about any particular aspect?"
	}

	return fallbackReply
}

// detectBookingIntent classifies a query as requesting interview scheduling.
func (s *ChatService) detectBookingIntent(query string) bool {
	return containsAny(strings.ToLower(query), bookingKeywords)
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}

// firstSentenceContaining splits on the literal "." delimiter and returns the
// first trimmed sentence mentioning any of the terms.
func firstSentenceContaining(text string, terms ...string) (string, bool) {
	for _, sentence := range strings.Split(text, ".") {
		lower := strings.ToLower(sentence)
		for _, term := range terms {
			if strings.Contains(lower, term) {
				return strings.TrimSpace(sentence), true
			}
		}
	}
	return "", false
}
