package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks chunklab/internal/vectorstore VectorStore

import "context"

// Point represents a vector point with its chunk text and metadata payload.
type Point struct {
	ID   string
	Vec  []float32
	Text string
	Meta map[string]any
}

// SearchResult represents a search result from vector search. Text is the
// stored chunk content; Meta holds the remaining payload fields.
type SearchResult struct {
	PointID string
	Score   float32
	Text    string
	Meta    map[string]any
}

// CollectionInfo contains information about a collection.
type CollectionInfo struct {
	VectorSize  int
	PointsCount int
	Status      string
}

// VectorStore defines the interface for vector storage operations.
type VectorStore interface {
	// EnsureCollection creates the collection if missing and validates its
	// vector size if present.
	EnsureCollection(ctx context.Context, collection string, vectorSize int) error

	// CollectionExists checks if a collection exists.
	CollectionExists(ctx context.Context, collection string) (bool, error)

	// GetCollectionInfo returns collection details including point count.
	GetCollectionInfo(ctx context.Context, collection string) (*CollectionInfo, error)

	// ListCollections returns the names of all collections.
	ListCollections(ctx context.Context) ([]string, error)

	// DeleteCollection removes a collection and all its points.
	DeleteCollection(ctx context.Context, collection string) error

	// CopyCollection copies every point from src into dst, creating dst
	// if needed.
	CopyCollection(ctx context.Context, src, dst string, vectorSize int) error

	// Upsert inserts or updates points in the collection.
	Upsert(ctx context.Context, collection string, points []Point) error

	// Search performs a similarity search with optional equality filters.
	Search(ctx context.Context, collection string, query []float32, k int, filters map[string]any) ([]SearchResult, error)

	// Delete removes points by their IDs.
	Delete(ctx context.Context, collection string, ids []string) error
}
