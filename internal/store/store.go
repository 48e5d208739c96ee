package store

import (
	"context"
	"fmt"
	"time"

	"rag-chatbot-backend/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Store persists ingestion receipts and interview bookings in SQLite.
type Store struct {
	db *sqlx.DB
}

func Open(path string) (*Store, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

func (s *Store) initSchema() error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			filename TEXT NOT NULL,
			file_type TEXT NOT NULL,
			chunking_strategy TEXT NOT NULL,
			chunk_count INTEGER NOT NULL,
			indexed_count INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS interview_bookings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			interview_date TEXT NOT NULL,
			interview_time TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_documents_filename ON documents(filename)`,
	}

	for _, tableSQL := range tables {
		if _, err := s.db.Exec(tableSQL); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}

// InsertDocument stores the ingestion receipt and returns its generated id.
func (s *Store) InsertDocument(ctx context.Context, doc *models.Document) (int64, error) {
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (filename, file_type, chunking_strategy, chunk_count, indexed_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		doc.Filename, doc.FileType, doc.ChunkingStrategy, doc.ChunkCount, doc.IndexedCount, doc.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert document: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read document id: %w", err)
	}
	doc.ID = id

	return id, nil
}

// ListDocuments returns all ingestion receipts, newest first.
func (s *Store) ListDocuments(ctx context.Context) ([]models.Document, error) {
	docs := make([]models.Document, 0)
	err := s.db.SelectContext(ctx, &docs,
		`SELECT id, filename, file_type, chunking_strategy, chunk_count, indexed_count, created_at
		 FROM documents ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}

// InsertBooking stores an interview booking and returns its generated id.
func (s *Store) InsertBooking(ctx context.Context, booking *models.InterviewBooking) (int64, error) {
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO interview_bookings (name, email, interview_date, interview_time, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		booking.Name, booking.Email, booking.InterviewDate, booking.InterviewTime, booking.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert booking: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read booking id: %w", err)
	}
	booking.ID = id

	return id, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
