package models

import "time"

// Document is the ingestion receipt persisted after a successful upload.
// ChunkCount is the number of chunks produced by the chunker; IndexedCount is
// the number actually acknowledged by the vector index and may be lower when
// batch writes were dropped.
type Document struct {
	ID               int64     `db:"id" json:"id"`
	Filename         string    `db:"filename" json:"filename"`
	FileType         string    `db:"file_type" json:"file_type"`
	ChunkingStrategy string    `db:"chunking_strategy" json:"chunking_strategy"`
	ChunkCount       int       `db:"chunk_count" json:"chunk_count"`
	IndexedCount     int       `db:"indexed_count" json:"indexed_count"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// InterviewBooking is persisted by the booking endpoint. Booking creation is
// intentionally independent of the chat engine's booking-intent detection.
type InterviewBooking struct {
	ID            int64     `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Email         string    `db:"email" json:"email"`
	InterviewDate string    `db:"interview_date" json:"interview_date"`
	InterviewTime string    `db:"interview_time" json:"interview_time"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
