package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"chunklab/internal/contextutil"
	"chunklab/internal/storage"
)

// DocumentsHandler handles HTTP requests for the document registry.
type DocumentsHandler struct {
	docRepo storage.DocumentStore
	runRepo storage.RunStore
}

// NewDocumentsHandler creates a new DocumentsHandler.
func NewDocumentsHandler(docRepo storage.DocumentStore, runRepo storage.RunStore) *DocumentsHandler {
	return &DocumentsHandler{
		docRepo: docRepo,
		runRepo: runRepo,
	}
}

// RunResponse represents one processing run of a document.
//
// swagger:model RunResponse
type RunResponse struct {
	// Chunking strategy the run used
	Strategy string `json:"strategy"`

	// Collection the run wrote to
	Collection string `json:"collection"`

	// Number of chunks the run produced
	ChunkCount int `json:"chunk_count"`

	// Extraction strategy that parsed the document
	Extractor string `json:"extractor"`

	// Wall-clock processing time in milliseconds
	DurationMS int64 `json:"duration_ms"`

	// When the run happened (RFC 3339)
	CreatedAt string `json:"created_at"`
}

// DocumentResponse represents one document with its processing history.
//
// swagger:model DocumentResponse
type DocumentResponse struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Path        string        `json:"path"`
	SizeBytes   int64         `json:"size_bytes"`
	ContentHash string        `json:"content_hash"`
	UploadedAt  string        `json:"uploaded_at"`
	Runs        []RunResponse `json:"runs"`
}

// DocumentsResponse represents the document listing payload.
//
// swagger:model DocumentsResponse
type DocumentsResponse struct {
	Documents []DocumentResponse `json:"documents"`
}

// ServeHTTP handles GET requests for the document registry listing.
//
// swagger:route GET /api/v1/documents listDocuments
//
// # List processed documents
//
// Returns every document in the registry together with its processing runs,
// newest run first.
//
// ---
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: Documents with their processing history
//	  schema:
//	    "$ref": "#/definitions/DocumentsResponse"
//	'500':
//	  description: Internal server error
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *DocumentsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	docs, err := h.docRepo.List(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list documents", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list documents")
		return
	}

	out := make([]DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		runs, err := h.runRepo.ListByDocument(ctx, doc.ID)
		if err != nil {
			logger.ErrorContext(ctx, "failed to list runs", "document_id", doc.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to list documents")
			return
		}

		runResponses := make([]RunResponse, len(runs))
		for i, run := range runs {
			runResponses[i] = RunResponse{
				Strategy:   run.Strategy,
				Collection: run.Collection,
				ChunkCount: run.ChunkCount,
				Extractor:  run.Extractor,
				DurationMS: run.DurationMS,
				CreatedAt:  run.CreatedAt.UTC().Format(time.RFC3339),
			}
		}

		out = append(out, DocumentResponse{
			ID:          doc.ID,
			Name:        doc.Name,
			Path:        doc.Path,
			SizeBytes:   doc.SizeBytes,
			ContentHash: doc.ContentHash,
			UploadedAt:  doc.UploadedAt.UTC().Format(time.RFC3339),
			Runs:        runResponses,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(DocumentsResponse{Documents: out}); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to encode response")
		return
	}
}
