package http

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"chunklab/internal/chunking"
	"chunklab/internal/handlers"
	"chunklab/internal/ingest"
	"chunklab/internal/rag"
	"chunklab/internal/storage"
	"chunklab/internal/upload"
	"chunklab/internal/vectorstore"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	RAGEngine        rag.Engine
	Pipeline         *ingest.Pipeline
	UploadStore      *upload.Store
	DocRepo          storage.DocumentStore
	RunRepo          storage.RunStore
	VectorStore      vectorstore.VectorStore
	DB               *sql.DB
	CollectionPrefix string
	VectorSize       int
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	// Add chi middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Add request logger and CORS middleware
	r.Use(LoggerMiddleware)
	r.Use(CORS)

	uploadHandler := handlers.NewUploadHandler(deps.UploadStore, deps.DocRepo)
	recursiveHandler := handlers.NewProcessHandler(deps.Pipeline, chunking.ChunkingRecursive, deps.CollectionPrefix)
	semanticHandler := handlers.NewProcessHandler(deps.Pipeline, chunking.ChunkingSemantic, deps.CollectionPrefix)
	queryHandler := handlers.NewQueryHandler(deps.RAGEngine, deps.CollectionPrefix)
	collectionsHandler := handlers.NewCollectionsHandler(deps.VectorStore, deps.CollectionPrefix, deps.VectorSize)
	documentsHandler := handlers.NewDocumentsHandler(deps.DocRepo, deps.RunRepo)
	statsHandler := handlers.NewStatsHandler(deps.Pipeline)
	healthHandler := handlers.NewHealthHandler(deps.VectorStore, deps.DB)

	// Register API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Method(http.MethodPost, "/upload", uploadHandler)
		r.Method(http.MethodPost, "/process/recursive", recursiveHandler)
		r.Method(http.MethodPost, "/process/semantic", semanticHandler)
		r.Method(http.MethodPost, "/query", queryHandler)
		r.Get("/collections", collectionsHandler.List)
		r.Post("/collections/create", collectionsHandler.Create)
		r.Post("/collections/rename", collectionsHandler.Rename)
		r.Post("/collections/sanitize", collectionsHandler.Sanitize)
		r.Delete("/collections/{name}", collectionsHandler.Delete)
		r.Method(http.MethodGet, "/documents", documentsHandler)
		r.Method(http.MethodGet, "/stats", statsHandler)
	})

	r.Method(http.MethodGet, "/api/health", healthHandler)

	return r
}
