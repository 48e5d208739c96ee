package models

// ChatMessage is one turn of a session's conversation history.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the payload for /api/chat/query.
type ChatRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Query     string `json:"query" binding:"required,min=1,max=2000"`
}

// ChatResult is the engine's answer to a single query. ContextUsed carries at
// most three retrieved fragments for the response envelope.
type ChatResult struct {
	Response        string   `json:"response"`
	ContextUsed     []string `json:"context_used"`
	BookingDetected bool     `json:"booking_detected"`
}

// BookingRequest is the payload for /api/chat/book-interview.
type BookingRequest struct {
	Name          string `json:"name" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	InterviewDate string `json:"interview_date" binding:"required"`
	InterviewTime string `json:"interview_time" binding:"required"`
}
