package handlers

import (
	"encoding/json"
	"net/http"

	"chunklab/internal/contextutil"
	"chunklab/internal/ingest"
)

// StatsHandler handles HTTP requests for processing statistics.
type StatsHandler struct {
	pipeline *ingest.Pipeline
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(pipeline *ingest.Pipeline) *StatsHandler {
	return &StatsHandler{
		pipeline: pipeline,
	}
}

// ServeHTTP handles GET requests for processing statistics.
//
// swagger:route GET /api/v1/stats processingStats
//
// # Processing statistics
//
// Summarizes the registry: document and run counts, runs per strategy, and
// the distribution of chunk counts per run.
//
// ---
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: Registry statistics
//	  schema:
//	    "$ref": "#/definitions/ProcessingStats"
//	'500':
//	  description: Internal server error
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	stats, err := h.pipeline.GetProcessingStats(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to compute processing stats", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to compute processing stats")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(stats); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to encode response")
		return
	}
}
