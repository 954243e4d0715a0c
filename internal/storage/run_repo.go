package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_run_store.go -package=mocks chunklab/internal/storage RunStore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// RunStore defines the interface for processing run bookkeeping.
type RunStore interface {
	// Insert records a processing run. If run.ID is empty a new UUID
	// is generated.
	Insert(ctx context.Context, run *RunRecord) error
	// ListByDocument returns all runs for a given document ID, newest first.
	ListByDocument(ctx context.Context, documentID string) ([]RunRecord, error)
	// List returns all runs, newest first.
	List(ctx context.Context) ([]RunRecord, error)
}

// RunRepo provides methods for run bookkeeping.
// It implements the RunStore interface.
type RunRepo struct {
	db *sql.DB
}

// NewRunRepo creates a new RunRepo.
func NewRunRepo(db *sql.DB) *RunRepo {
	return &RunRepo{db: db}
}

// Insert records a processing run. If run.ID is empty a new UUID is generated.
func (r *RunRepo) Insert(ctx context.Context, run *RunRecord) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO runs (id, document_id, strategy, collection, chunk_count, extractor, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`,
		run.ID, run.DocumentID, run.Strategy, run.Collection, run.ChunkCount, run.Extractor, run.DurationMS,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	return nil
}

// ListByDocument returns all runs for a given document ID, newest first.
// Returns an empty slice if no runs exist (not an error).
func (r *RunRepo) ListByDocument(ctx context.Context, documentID string) ([]RunRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, document_id, strategy, collection, chunk_count, extractor, duration_ms, created_at
		 FROM runs WHERE document_id = ? ORDER BY created_at DESC, rowid DESC`,
		documentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	return scanRuns(rows)
}

// List returns all runs, newest first.
// Returns an empty slice if no runs exist (not an error).
func (r *RunRepo) List(ctx context.Context) ([]RunRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, document_id, strategy, collection, chunk_count, extractor, duration_ms, created_at
		 FROM runs ORDER BY created_at DESC, rowid DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	return scanRuns(rows)
}

func scanRuns(rows *sql.Rows) ([]RunRecord, error) {
	defer func() {
		_ = rows.Close()
	}()

	var runs []RunRecord
	for rows.Next() {
		var run RunRecord
		var createdAtStr string
		if err := rows.Scan(&run.ID, &run.DocumentID, &run.Strategy, &run.Collection,
			&run.ChunkCount, &run.Extractor, &run.DurationMS, &createdAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		var err error
		run.CreatedAt, err = parseTimestamp(createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at timestamp: %w", err)
		}

		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, nil
}
