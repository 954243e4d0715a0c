package handlers

import (
	"encoding/json"
	"net/http"

	"chunklab/internal/contextutil"
	"chunklab/internal/storage"
	"chunklab/internal/upload"
)

// UploadHandler handles HTTP requests for document uploads.
type UploadHandler struct {
	store   *upload.Store
	docRepo storage.DocumentStore
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(store *upload.Store, docRepo storage.DocumentStore) *UploadHandler {
	return &UploadHandler{
		store:   store,
		docRepo: docRepo,
	}
}

// UploadResponse represents the HTTP response payload for uploads.
//
// swagger:model UploadResponse
type UploadResponse struct {
	// Sanitized filename the upload was stored under
	Filename string `json:"filename"`

	// Path to the stored file, usable as file_path with the process endpoints
	Path string `json:"path"`

	// Size of the stored file in bytes
	Size int64 `json:"size"`
}

// ServeHTTP handles HTTP requests for document uploads.
//
// Accepts a multipart form with a single "file" field. Only document types
// the extractors can handle are accepted, and the upload size is capped.
//
// swagger:route POST /api/v1/upload uploadFile
//
// # Upload a document
//
// Stores the uploaded file under the configured upload directory with a
// sanitized filename and records it in the document registry.
//
// ---
// consumes:
// - multipart/form-data
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: File stored
//	  schema:
//	    "$ref": "#/definitions/UploadResponse"
//	'400':
//	  description: Missing file field, unsupported file type, or oversize upload
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
//	'500':
//	  description: Internal server error
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *UploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		logger.WarnContext(ctx, "missing file in upload request", "error", err)
		writeError(w, http.StatusBadRequest, "A file form field is required")
		return
	}
	defer func() {
		_ = file.Close()
	}()

	saved, err := h.store.Save(header.Filename, file)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to store upload")
		return
	}

	// Registry bookkeeping is advisory: the file is already stored, and the
	// process endpoints record the document again. Log and keep going.
	doc := &storage.DocumentRecord{
		Name:        saved.Name,
		Path:        saved.Path,
		ContentHash: saved.ContentHash,
		SizeBytes:   saved.SizeBytes,
	}
	if err := h.docRepo.Upsert(ctx, doc); err != nil {
		logger.WarnContext(ctx, "failed to record uploaded document", "path", saved.Path, "error", err)
	}

	logger.InfoContext(ctx, "stored upload", "filename", saved.Name, "size_bytes", saved.SizeBytes)

	resp := UploadResponse{
		Filename: saved.Name,
		Path:     saved.Path,
		Size:     saved.SizeBytes,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to encode response")
		return
	}
}
