package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"chunklab/internal/config"
	"chunklab/internal/http"
	"chunklab/internal/ingest"
	"chunklab/internal/llm"
	"chunklab/internal/rag"
	"chunklab/internal/storage"
	"chunklab/internal/upload"
	"chunklab/internal/vectorstore"
)

//go:generate swagger generate spec -o swagger.json

// General API information
//
// This API processes documents with two chunking strategies (recursive and
// semantic) and answers the same question against both, so the retrieval and
// answer quality of the strategies can be compared side by side.
//
// swagger:meta
//
// ---
// swagger: '2.0'
// info:
//   title: Chunklab API
//   description: |
//     Document chunking comparison API. Upload a document, process it with
//     recursive and semantic chunking into separate vector collections, then
//     query both collections with the same question and compare the answers.
//   version: 1.0.0
// schemes:
//   - http
//   - https
// consumes:
//   - application/json
// produces:
//   - application/json

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize the registry database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	// Create repository instances
	docRepo := storage.NewDocumentRepo(db)
	runRepo := storage.NewRunRepo(db)

	// Initialize Qdrant vector store
	ctx := context.Background()

	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}
	slog.Info("Qdrant client ready", "url", cfg.QdrantURL, "collection_prefix", cfg.QdrantCollectionPrefix)

	// Validate embedding client vector size (fail-fast)
	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModelName, cfg.QdrantVectorSize)
	testEmbeddings, err := embedder.EmbedTexts(ctx, []string{"test"})
	if err != nil {
		log.Fatalf("Failed to validate embedding client: %v", err)
	}
	if len(testEmbeddings) == 0 || len(testEmbeddings[0]) != cfg.QdrantVectorSize {
		log.Fatalf("Embedding vector size mismatch: expected %d, got %d", cfg.QdrantVectorSize, len(testEmbeddings[0]))
	}
	slog.Info("Embedding client validated", "vector_size", cfg.QdrantVectorSize)

	// Create the upload store
	uploadStore, err := upload.NewStore(cfg.UploadDir, cfg.MaxUploadBytes)
	if err != nil {
		log.Fatalf("Failed to create upload store: %v", err)
	}
	slog.Info("Upload store ready", "dir", uploadStore.Dir(), "max_bytes", cfg.MaxUploadBytes)

	// Create the processing pipeline
	pipeline, err := ingest.NewPipeline(
		docRepo,
		runRepo,
		embedder,
		vectorStore,
		cfg.QdrantVectorSize,
		cfg.RecursiveChunkSize,
		cfg.RecursiveChunkOverlap,
		cfg.SemanticChunkSize,
		cfg.SemanticChunkOverlap,
	)
	if err != nil {
		log.Fatalf("Failed to create processing pipeline: %v", err)
	}

	// Create LLM client (external service layer)
	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName)

	// Create the comparison engine
	ragEngine := rag.NewEngine(embedder, vectorStore, llmClient)
	slog.Info("Comparison engine initialized")

	// Create router with dependencies
	deps := &http.Deps{
		RAGEngine:        ragEngine,
		Pipeline:         pipeline,
		UploadStore:      uploadStore,
		DocRepo:          docRepo,
		RunRepo:          runRepo,
		VectorStore:      vectorStore,
		DB:               db,
		CollectionPrefix: cfg.QdrantCollectionPrefix,
		VectorSize:       cfg.QdrantVectorSize,
	}
	router := http.NewRouter(deps)

	// Start API server
	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	slog.Debug("LLM configuration", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModelName)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
