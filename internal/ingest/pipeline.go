package ingest

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_embedder.go -package=mocks chunklab/internal/ingest Embedder

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"chunklab/internal/chunking"
	"chunklab/internal/contextutil"
	"chunklab/internal/extract"
	"chunklab/internal/storage"
	"chunklab/internal/vectorstore"
)

// upsertBatchSize is the number of points sent per vector store upsert.
const upsertBatchSize = 100

var (
	// ErrFileNotFound is returned when the file to process does not exist.
	ErrFileNotFound = errors.New("file not found")
	// ErrUnknownStrategy is returned for a chunking strategy the pipeline
	// does not implement.
	ErrUnknownStrategy = errors.New("unknown chunking strategy")
)

// Embedder generates vector embeddings for chunk texts.
// This interface is defined from the pipeline's perspective (consumer-first).
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Result summarizes one processing run.
type Result struct {
	Collection string
	Strategy   chunking.ChunkingType
	Chunks     int
	Extractor  string
	DurationMS int64
}

// Pipeline orchestrates document processing: extract elements, chunk with the
// requested strategy, embed, and rebuild the target vector collection.
type Pipeline struct {
	docRepo     storage.DocumentStore
	runRepo     storage.RunStore
	embedder    Embedder
	vectorStore vectorstore.VectorStore
	vectorSize  int
	semantic    *chunking.SemanticChunker
	recursive   *chunking.RecursiveChunker
	logger      *slog.Logger
}

// NewPipeline creates a new processing pipeline. Chunk size and overlap are
// configured per strategy.
func NewPipeline(
	docRepo storage.DocumentStore,
	runRepo storage.RunStore,
	embedder Embedder,
	vectorStore vectorstore.VectorStore,
	vectorSize int,
	recursiveChunkSize int,
	recursiveChunkOverlap int,
	semanticChunkSize int,
	semanticChunkOverlap int,
) (*Pipeline, error) {
	semantic, err := chunking.NewSemanticChunker(semanticChunkSize, semanticChunkOverlap)
	if err != nil {
		return nil, fmt.Errorf("failed to create semantic chunker: %w", err)
	}
	recursive, err := chunking.NewRecursiveChunker(recursiveChunkSize, recursiveChunkOverlap)
	if err != nil {
		return nil, fmt.Errorf("failed to create recursive chunker: %w", err)
	}

	return &Pipeline{
		docRepo:     docRepo,
		runRepo:     runRepo,
		embedder:    embedder,
		vectorStore: vectorStore,
		vectorSize:  vectorSize,
		semantic:    semantic,
		recursive:   recursive,
		logger:      slog.Default(),
	}, nil
}

// getLogger extracts logger from context or returns default logger.
func (p *Pipeline) getLogger(ctx context.Context) *slog.Logger {
	if ctxLogger := ctx.Value(contextutil.LoggerKey()); ctxLogger != nil {
		if l, ok := ctxLogger.(*slog.Logger); ok {
			return l
		}
	}
	return p.logger
}

// DefaultCollectionName derives the collection name for a file processed with
// the given strategy: the strategy name joined to the file's base name with
// dots replaced by underscores, so "report.pdf" processed semantically lands
// in "semantic_report_pdf".
func DefaultCollectionName(strategy chunking.ChunkingType, path string) string {
	base := strings.ReplaceAll(filepath.Base(path), ".", "_")
	return string(strategy) + "_" + base
}

// Process runs one chunking strategy over the file at path and rebuilds the
// target collection with the resulting chunks. The collection is deleted and
// recreated so reprocessing never leaves stale points behind.
func (p *Pipeline) Process(ctx context.Context, path string, strategy chunking.ChunkingType, collection string) (*Result, error) {
	logger := p.getLogger(ctx)
	start := time.Now()

	if strategy != chunking.ChunkingRecursive && strategy != chunking.ChunkingSemantic {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStrategy, strategy)
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat file %s: %w", path, err)
	}

	if collection == "" {
		collection = DefaultCollectionName(strategy, path)
	}

	// Extract typed elements from the document
	extractor, err := extract.ForFile(path)
	if err != nil {
		return nil, err
	}
	elements, extractorName, err := extractor.Extract(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to extract %s: %w", path, err)
	}

	var chunks []chunking.Chunk
	switch strategy {
	case chunking.ChunkingSemantic:
		chunks = p.semantic.ChunkElements(elements)
	case chunking.ChunkingRecursive:
		chunks = p.recursive.ChunkElements(elements)
	}

	// Embed chunk contents
	var vectors [][]float32
	if len(chunks) > 0 {
		texts := make([]string, len(chunks))
		for i, chunk := range chunks {
			texts[i] = chunk.Content
		}

		vectors, err = p.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("failed to generate embeddings: %w", err)
		}
		if len(vectors) != len(chunks) {
			return nil, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(chunks), len(vectors))
		}
	}

	// Rebuild the collection from scratch
	exists, err := p.vectorStore.CollectionExists(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to check collection %s: %w", collection, err)
	}
	if exists {
		if err := p.vectorStore.DeleteCollection(ctx, collection); err != nil {
			return nil, fmt.Errorf("failed to delete collection %s: %w", collection, err)
		}
	}
	if err := p.vectorStore.EnsureCollection(ctx, collection, p.vectorSize); err != nil {
		return nil, fmt.Errorf("failed to create collection %s: %w", collection, err)
	}

	// Batch upsert points
	points := make([]vectorstore.Point, len(chunks))
	for i, chunk := range chunks {
		points[i] = vectorstore.Point{
			ID:   uuid.New().String(),
			Vec:  vectors[i],
			Text: chunk.Content,
			Meta: chunk.Metadata.ToPayload(),
		}
	}
	for i := 0; i < len(points); i += upsertBatchSize {
		end := i + upsertBatchSize
		if end > len(points) {
			end = len(points)
		}
		if err := p.vectorStore.Upsert(ctx, collection, points[i:end]); err != nil {
			return nil, fmt.Errorf("failed to upsert vectors: %w", err)
		}
	}

	result := &Result{
		Collection: collection,
		Strategy:   strategy,
		Chunks:     len(chunks),
		Extractor:  extractorName,
		DurationMS: time.Since(start).Milliseconds(),
	}

	// Registry bookkeeping is advisory: the collection is already written,
	// so failures here are logged instead of failing the run.
	p.recordRun(ctx, path, result)

	logger.InfoContext(ctx, "processed document",
		"path", path,
		"strategy", string(strategy),
		"collection", collection,
		"chunks", result.Chunks,
		"extractor", extractorName,
		"duration_ms", result.DurationMS,
	)
	return result, nil
}

// recordRun upserts the document record and appends a run record.
func (p *Pipeline) recordRun(ctx context.Context, path string, result *Result) {
	logger := p.getLogger(ctx)

	hash, size, err := fileDigest(path)
	if err != nil {
		logger.WarnContext(ctx, "failed to hash processed file", "path", path, "error", err)
		return
	}

	doc := &storage.DocumentRecord{
		Name:        filepath.Base(path),
		Path:        path,
		ContentHash: hash,
		SizeBytes:   size,
	}
	if err := p.docRepo.Upsert(ctx, doc); err != nil {
		logger.WarnContext(ctx, "failed to record document", "path", path, "error", err)
		return
	}

	run := &storage.RunRecord{
		DocumentID: doc.ID,
		Strategy:   string(result.Strategy),
		Collection: result.Collection,
		ChunkCount: result.Chunks,
		Extractor:  result.Extractor,
		DurationMS: result.DurationMS,
	}
	if err := p.runRepo.Insert(ctx, run); err != nil {
		logger.WarnContext(ctx, "failed to record run", "path", path, "error", err)
	}
}

// fileDigest returns the SHA256 hex digest and size of the file at path.
func fileDigest(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer func() {
		_ = f.Close()
	}()

	hasher := sha256.New()
	size, err := io.Copy(hasher, f)
	if err != nil {
		return "", 0, err
	}
	return hex.EncodeToString(hasher.Sum(nil)), size, nil
}
