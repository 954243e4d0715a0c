package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_store.go -package=mocks chunklab/internal/storage DocumentStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// DocumentStore defines the interface for document registry operations.
type DocumentStore interface {
	// GetByName gets a document by its original filename.
	// Returns nil and ErrNotFound if not found.
	GetByName(ctx context.Context, name string) (*DocumentRecord, error)
	// Upsert inserts a new document or updates an existing one.
	Upsert(ctx context.Context, doc *DocumentRecord) error
	// List returns all documents ordered by name.
	List(ctx context.Context) ([]DocumentRecord, error)
}

// DocumentRepo provides methods for document registry operations.
// It implements the DocumentStore interface.
type DocumentRepo struct {
	db *sql.DB
}

// NewDocumentRepo creates a new DocumentRepo.
func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

// GetByName gets a document by its original filename.
// Returns nil and ErrNotFound if not found.
func (r *DocumentRepo) GetByName(ctx context.Context, name string) (*DocumentRecord, error) {
	var doc DocumentRecord
	var uploadedAtStr string

	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, path, content_hash, size_bytes, uploaded_at FROM documents WHERE name = ?",
		name,
	).Scan(&doc.ID, &doc.Name, &doc.Path, &doc.ContentHash, &doc.SizeBytes, &uploadedAtStr)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query document: %w", err)
	}

	doc.UploadedAt, err = parseTimestamp(uploadedAtStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse uploaded_at timestamp: %w", err)
	}

	return &doc, nil
}

// Upsert inserts a new document or updates an existing one.
// If the document doesn't exist (by name), generates a new UUID.
// If it exists, updates path, content_hash, size_bytes, and uploaded_at
// while preserving the ID.
func (r *DocumentRepo) Upsert(ctx context.Context, doc *DocumentRecord) error {
	// Check if document exists to determine if we need to generate a UUID
	existing, err := r.GetByName(ctx, doc.Name)
	if err != nil && err != ErrNotFound {
		return fmt.Errorf("failed to check existing document: %w", err)
	}

	// Generate UUID for new documents only
	if existing == nil && doc.ID == "" {
		doc.ID = uuid.New().String()
	} else if existing != nil {
		// Preserve existing ID
		doc.ID = existing.ID
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO documents (id, name, path, content_hash, size_bytes, uploaded_at)
		 VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (name) DO UPDATE SET
		 path = excluded.path, content_hash = excluded.content_hash,
		 size_bytes = excluded.size_bytes, uploaded_at = CURRENT_TIMESTAMP`,
		doc.ID, doc.Name, doc.Path, doc.ContentHash, doc.SizeBytes,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}

	return nil
}

// List returns all documents ordered by name.
// Returns an empty slice if no documents exist (not an error).
func (r *DocumentRepo) List(ctx context.Context) ([]DocumentRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, path, content_hash, size_bytes, uploaded_at FROM documents ORDER BY name",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var docs []DocumentRecord
	for rows.Next() {
		var doc DocumentRecord
		var uploadedAtStr string
		if err := rows.Scan(&doc.ID, &doc.Name, &doc.Path, &doc.ContentHash, &doc.SizeBytes, &uploadedAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}

		doc.UploadedAt, err = parseTimestamp(uploadedAtStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse uploaded_at timestamp: %w", err)
		}

		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return docs, nil
}
