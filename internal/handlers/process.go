package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"chunklab/internal/chunking"
	"chunklab/internal/contextutil"
	"chunklab/internal/ingest"
	"chunklab/internal/vectorstore"
)

// ProcessHandler handles HTTP requests for processing a document with one
// chunking strategy. Two instances are registered, one per strategy.
type ProcessHandler struct {
	pipeline *ingest.Pipeline
	strategy chunking.ChunkingType
	prefix   string
}

// NewProcessHandler creates a new ProcessHandler for the given strategy.
func NewProcessHandler(pipeline *ingest.Pipeline, strategy chunking.ChunkingType, prefix string) *ProcessHandler {
	return &ProcessHandler{
		pipeline: pipeline,
		strategy: strategy,
		prefix:   prefix,
	}
}

// ProcessRequest represents the HTTP request payload for processing.
//
// swagger:model ProcessRequest
type ProcessRequest struct {
	// Path to a previously uploaded file
	FilePath string `json:"file_path"`

	// Optional collection name; derived from the strategy and filename when empty
	CollectionName string `json:"collection_name,omitempty"`
}

// ProcessResponse represents the HTTP response payload for processing.
//
// swagger:model ProcessResponse
type ProcessResponse struct {
	Message    string `json:"message"`
	Collection string `json:"collection"`
	Chunks     int    `json:"chunks"`
	Extractor  string `json:"extractor"`
}

// ServeHTTP handles HTTP requests for processing a document.
//
// Extracts, chunks, embeds, and upserts a previously uploaded document into a
// vector collection using the strategy this handler was constructed with.
//
// swagger:route POST /api/v1/process/{strategy} processDocument
//
// # Process a document
//
// Runs the extract-chunk-embed-store pipeline over an uploaded file. The
// strategy path segment is either "recursive" or "semantic"; each strategy
// writes to its own collection so the two can be queried side by side.
//
// ---
// consumes:
// - application/json
// produces:
// - application/json
// parameters:
//   - in: body
//     name: body
//     required: true
//     schema:
//     "$ref": "#/definitions/ProcessRequest"
//
// responses:
//
//	'200':
//	  description: Document processed and stored
//	  schema:
//	    "$ref": "#/definitions/ProcessResponse"
//	'400':
//	  description: Missing file_path or unsupported file type
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
//	'404':
//	  description: File does not exist
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
//	'502':
//	  description: Embedding service unavailable
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
//	'500':
//	  description: Internal server error
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *ProcessHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.FilePath == "" {
		logger.WarnContext(ctx, "missing file_path in process request")
		writeError(w, http.StatusBadRequest, "file_path is required")
		return
	}

	collection := req.CollectionName
	if collection == "" {
		collection = ingest.DefaultCollectionName(h.strategy, req.FilePath)
	}
	collection = vectorstore.WithPrefix(h.prefix, collection)

	result, err := h.pipeline.Process(ctx, req.FilePath, h.strategy, collection)
	if err != nil {
		if errors.Is(err, ingest.ErrFileNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		handleServiceError(w, ctx, err, "Failed to process document")
		return
	}

	resp := ProcessResponse{
		Message:    fmt.Sprintf("Document processed successfully with %s chunking", h.strategy),
		Collection: result.Collection,
		Chunks:     result.Chunks,
		Extractor:  result.Extractor,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to encode response")
		return
	}
}
