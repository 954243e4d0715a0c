package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"chunklab/internal/contextutil"
	"chunklab/internal/vectorstore"
)

// CollectionsHandler handles HTTP requests for collection management.
type CollectionsHandler struct {
	vectorStore vectorstore.VectorStore
	prefix      string
	vectorSize  int
}

// NewCollectionsHandler creates a new CollectionsHandler.
func NewCollectionsHandler(vectorStore vectorstore.VectorStore, prefix string, vectorSize int) *CollectionsHandler {
	return &CollectionsHandler{
		vectorStore: vectorStore,
		prefix:      prefix,
		vectorSize:  vectorSize,
	}
}

// CollectionSummary describes one collection in a listing.
//
// swagger:model CollectionSummary
type CollectionSummary struct {
	// Collection name as stored
	Name string `json:"name"`

	// Number of points in the collection
	VectorCount int `json:"vector_count"`

	// Chunking strategy inferred from the name: "recursive", "semantic", or "unknown"
	ChunkingType string `json:"chunking_type"`

	// Set when collection details could not be fetched
	Error string `json:"error,omitempty"`
}

// CollectionsResponse represents the collection listing payload.
//
// swagger:model CollectionsResponse
type CollectionsResponse struct {
	Collections []CollectionSummary `json:"collections"`
}

// MessageResponse carries a human-readable confirmation message.
//
// swagger:model MessageResponse
type MessageResponse struct {
	Message string `json:"message"`
}

// CreateCollectionRequest represents the payload for creating a collection.
//
// swagger:model CreateCollectionRequest
type CreateCollectionRequest struct {
	Name string `json:"name"`
}

// RenameCollectionRequest represents the payload for renaming a collection.
//
// swagger:model RenameCollectionRequest
type RenameCollectionRequest struct {
	OldName string `json:"old_name"`
	NewName string `json:"new_name"`
}

// RenamedCollection records one rename performed by the sanitize operation.
//
// swagger:model RenamedCollection
type RenamedCollection struct {
	OldName string `json:"old_name"`
	NewName string `json:"new_name"`
}

// SanitizeResponse lists the renames the sanitize operation performed.
//
// swagger:model SanitizeResponse
type SanitizeResponse struct {
	Renamed []RenamedCollection `json:"renamed"`
}

// List handles GET requests for the collection listing. Collections whose
// details cannot be fetched are still listed, with the error recorded on the
// entry.
//
// swagger:route GET /api/v1/collections listCollections
//
// # List collections
//
// Returns every collection in the vector store with its point count and the
// chunking strategy inferred from its name.
//
// ---
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: Collection listing
//	  schema:
//	    "$ref": "#/definitions/CollectionsResponse"
//	'500':
//	  description: Internal server error
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *CollectionsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	names, err := h.vectorStore.ListCollections(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list collections", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list collections")
		return
	}

	summaries := make([]CollectionSummary, 0, len(names))
	for _, name := range names {
		summary := CollectionSummary{
			Name:         name,
			ChunkingType: vectorstore.InferChunkingType(h.prefix, name),
		}
		info, err := h.vectorStore.GetCollectionInfo(ctx, name)
		if err != nil {
			logger.WarnContext(ctx, "failed to get collection info", "collection", name, "error", err)
			summary.Error = err.Error()
		} else {
			summary.VectorCount = info.PointsCount
		}
		summaries = append(summaries, summary)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(CollectionsResponse{Collections: summaries}); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to encode response")
		return
	}
}

// Create handles POST requests for creating an empty collection.
//
// swagger:route POST /api/v1/collections/create createCollection
//
// # Create a collection
//
// Creates an empty collection with the configured vector size. Creating a
// collection that already exists is not an error.
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
//     "$ref": "#/definitions/CreateCollectionRequest"
//
// responses:
//
//	'200':
//	  description: Collection created
//	  schema:
//	    "$ref": "#/definitions/MessageResponse"
//	'400':
//	  description: Missing collection name
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
//	'500':
//	  description: Internal server error
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *CollectionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req CreateCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Collection name is required")
		return
	}

	name := vectorstore.WithPrefix(h.prefix, req.Name)
	if err := h.vectorStore.EnsureCollection(ctx, name, h.vectorSize); err != nil {
		logger.ErrorContext(ctx, "failed to create collection", "collection", name, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create collection")
		return
	}

	logger.InfoContext(ctx, "created collection", "collection", name)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(MessageResponse{
		Message: fmt.Sprintf("Collection %s created successfully", name),
	})
}

// Delete handles DELETE requests for removing a collection by name.
//
// swagger:route DELETE /api/v1/collections/{name} deleteCollection
//
// # Delete a collection
//
// Removes the named collection and all of its points.
//
// ---
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: Collection deleted
//	  schema:
//	    "$ref": "#/definitions/MessageResponse"
//	'400':
//	  description: Missing collection name
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
//	'404':
//	  description: Collection does not exist
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
//	'500':
//	  description: Internal server error
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *CollectionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	rawName := chi.URLParam(r, "name")
	decoded, err := url.PathUnescape(rawName)
	if err != nil || strings.TrimSpace(decoded) == "" {
		writeError(w, http.StatusBadRequest, "Collection name is required")
		return
	}

	name := vectorstore.WithPrefix(h.prefix, decoded)
	exists, err := h.vectorStore.CollectionExists(ctx, name)
	if err != nil {
		logger.ErrorContext(ctx, "failed to check collection", "collection", name, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete collection")
		return
	}
	if !exists {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Collection %s not found", name))
		return
	}

	if err := h.vectorStore.DeleteCollection(ctx, name); err != nil {
		logger.ErrorContext(ctx, "failed to delete collection", "collection", name, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete collection")
		return
	}

	logger.InfoContext(ctx, "deleted collection", "collection", name)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(MessageResponse{
		Message: fmt.Sprintf("Collection %s deleted successfully", name),
	})
}

// Rename handles POST requests for renaming a collection. The rename is a
// copy into the new name followed by a delete of the old one.
//
// swagger:route POST /api/v1/collections/rename renameCollection
//
// # Rename a collection
//
// Copies every point from the old collection into the new name, then deletes
// the old collection.
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
//     "$ref": "#/definitions/RenameCollectionRequest"
//
// responses:
//
//	'200':
//	  description: Collection renamed
//	  schema:
//	    "$ref": "#/definitions/MessageResponse"
//	'400':
//	  description: Missing old or new name
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
//	'404':
//	  description: Old collection does not exist
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
//	'500':
//	  description: Internal server error
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *CollectionsHandler) Rename(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req RenameCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.OldName == "" || req.NewName == "" {
		writeError(w, http.StatusBadRequest, "Both old_name and new_name are required")
		return
	}

	oldName := vectorstore.WithPrefix(h.prefix, req.OldName)
	newName := vectorstore.WithPrefix(h.prefix, req.NewName)

	exists, err := h.vectorStore.CollectionExists(ctx, oldName)
	if err != nil {
		logger.ErrorContext(ctx, "failed to check collection", "collection", oldName, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to rename collection")
		return
	}
	if !exists {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Collection %s not found", oldName))
		return
	}

	if err := h.vectorStore.CopyCollection(ctx, oldName, newName, h.vectorSize); err != nil {
		logger.ErrorContext(ctx, "failed to copy collection", "from", oldName, "to", newName, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to rename collection")
		return
	}
	if err := h.vectorStore.DeleteCollection(ctx, oldName); err != nil {
		// New collection holds the data already; report the rename but log
		// that the source was left behind.
		logger.ErrorContext(ctx, "failed to delete old collection after rename", "collection", oldName, "error", err)
	}

	logger.InfoContext(ctx, "renamed collection", "from", oldName, "to", newName)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(MessageResponse{
		Message: fmt.Sprintf("Collection %s renamed to %s successfully", oldName, newName),
	})
}

// Sanitize handles POST requests that repair collection names containing
// characters outside [A-Za-z0-9_]. Each offending collection is copied to its
// sanitized name and the original is deleted.
//
// swagger:route POST /api/v1/collections/sanitize sanitizeCollections
//
// # Sanitize collection names
//
// Renames every collection whose name contains characters outside
// [A-Za-z0-9_] and reports the renames performed. Collections that cannot be
// renamed are skipped.
//
// ---
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: Renames performed
//	  schema:
//	    "$ref": "#/definitions/SanitizeResponse"
//	'500':
//	  description: Internal server error
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *CollectionsHandler) Sanitize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	names, err := h.vectorStore.ListCollections(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list collections", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to sanitize collections")
		return
	}

	renamed := make([]RenamedCollection, 0)
	for _, name := range names {
		valid := vectorstore.SanitizeName(name)
		if valid == name {
			continue
		}

		if err := h.vectorStore.CopyCollection(ctx, name, valid, h.vectorSize); err != nil {
			logger.ErrorContext(ctx, "failed to copy collection during sanitize", "from", name, "to", valid, "error", err)
			continue
		}
		if err := h.vectorStore.DeleteCollection(ctx, name); err != nil {
			logger.ErrorContext(ctx, "failed to delete collection during sanitize", "collection", name, "error", err)
			continue
		}
		renamed = append(renamed, RenamedCollection{OldName: name, NewName: valid})
		logger.InfoContext(ctx, "sanitized collection name", "from", name, "to", valid)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(SanitizeResponse{Renamed: renamed}); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to encode response")
		return
	}
}
