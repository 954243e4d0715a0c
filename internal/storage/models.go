package storage

import "time"

// DocumentRecord represents an uploaded source document in the database.
type DocumentRecord struct {
	ID          string // UUID
	Name        string // Original filename, unique per registry
	Path        string // Path the uploaded file was saved to
	ContentHash string // SHA256 hex string of file content
	SizeBytes   int64
	UploadedAt  time.Time
}

// RunRecord represents one processing run of a document: a single
// extract-chunk-embed-upsert pass into a vector collection.
type RunRecord struct {
	ID         string // UUID
	DocumentID string // Foreign key to documents.id
	Strategy   string // Chunking strategy used ("recursive" or "semantic")
	Collection string // Vector collection the run wrote to
	ChunkCount int
	Extractor  string // Extraction strategy that produced the elements
	DurationMS int64
	CreatedAt  time.Time
}

// parseTimestamp parses a SQLite DATETIME string. SQLite may store either
// the default "YYYY-MM-DD HH:MM:SS" format or RFC3339 depending on how the
// value was written.
func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
