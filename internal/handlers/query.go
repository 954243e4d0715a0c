package handlers

import (
	"encoding/json"
	"net/http"

	"chunklab/internal/contextutil"
	"chunklab/internal/rag"
	"chunklab/internal/vectorstore"
)

// QueryHandler handles HTTP requests for comparison queries.
type QueryHandler struct {
	engine rag.Engine
	prefix string
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(engine rag.Engine, prefix string) *QueryHandler {
	return &QueryHandler{
		engine: engine,
		prefix: prefix,
	}
}

// QueryRequest represents the HTTP request payload for comparison queries.
// This mirrors rag.QueryRequest but is defined here for HTTP layer separation.
//
// swagger:model QueryRequest
type QueryRequest struct {
	Query               string `json:"query"`
	RecursiveCollection string `json:"recursive_collection,omitempty"`
	SemanticCollection  string `json:"semantic_collection,omitempty"`
	Limit               int    `json:"limit,omitempty"`
}

// ChunkResponse represents one retrieved chunk in the HTTP response.
//
// swagger:model ChunkResponse
type ChunkResponse struct {
	// The chunk text
	Content string `json:"content"`

	// Chunk payload fields (chunking_type, page_number, table metadata, ...)
	Metadata map[string]any `json:"metadata"`

	// Similarity score from the vector search
	Score float32 `json:"score"`
}

// StrategyResultResponse represents one strategy's retrieval and answer.
//
// swagger:model StrategyResultResponse
type StrategyResultResponse struct {
	// Collection that was searched
	Collection string `json:"collection"`

	// Answer generated from this strategy's retrieved context
	Answer string `json:"answer"`

	// Retrieved chunks in rank order
	Chunks []ChunkResponse `json:"chunks"`
}

// AnalysisResponse holds both comparison reports.
//
// swagger:model AnalysisResponse
type AnalysisResponse struct {
	// LLM-generated comparison of the two answers
	RAGComparison string `json:"rag_comparison"`

	// Rule-based comparison of the two retrieval sets
	VectorComparison string `json:"vector_comparison"`
}

// QueryResponse represents the HTTP response payload for comparison queries.
//
// swagger:model QueryResponse
type QueryResponse struct {
	// The query that was asked
	Query string `json:"query"`

	// Results from the recursive-chunking collection
	Recursive StrategyResultResponse `json:"recursive"`

	// Results from the semantic-chunking collection
	Semantic StrategyResultResponse `json:"semantic"`

	// Comparison of the two strategies
	Analysis AnalysisResponse `json:"analysis"`
}

// ServeHTTP handles HTTP requests for comparison queries.
//
// Runs the same question against a recursive-chunked and a semantic-chunked
// collection, generates an answer from each, and compares both the answers
// and the retrieval sets.
//
// swagger:route POST /api/v1/query compareQuery
//
// # Query both chunking strategies
//
// Searches the recursive and semantic collections with the same question,
// generates an answer per strategy, and returns both result sets together
// with an answer comparison and a retrieval comparison.
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
//     "$ref": "#/definitions/QueryRequest"
//
// responses:
//
//	'200':
//	  description: Results and analysis for both strategies
//	  schema:
//	    "$ref": "#/definitions/QueryResponse"
//	'400':
//	  description: Missing or invalid query
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
//	'404':
//	  description: A requested collection does not exist
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
//	'502':
//	  description: Embedding or LLM service unavailable
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
//	'500':
//	  description: Internal server error
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *QueryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Query == "" {
		logger.WarnContext(ctx, "empty query in request")
		writeError(w, http.StatusBadRequest, "Query parameter is required")
		return
	}

	recursive := req.RecursiveCollection
	if recursive == "" {
		recursive = rag.DefaultRecursiveCollection
	}
	semantic := req.SemanticCollection
	if semantic == "" {
		semantic = rag.DefaultSemanticCollection
	}

	ragReq := rag.QueryRequest{
		Query:               req.Query,
		RecursiveCollection: vectorstore.WithPrefix(h.prefix, recursive),
		SemanticCollection:  vectorstore.WithPrefix(h.prefix, semantic),
		Limit:               req.Limit,
	}

	ragResp, err := h.engine.Query(ctx, ragReq)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to query collections")
		return
	}

	resp := QueryResponse{
		Query:     ragResp.Query,
		Recursive: toStrategyResultResponse(ragResp.Recursive),
		Semantic:  toStrategyResultResponse(ragResp.Semantic),
		Analysis: AnalysisResponse{
			RAGComparison:    ragResp.Analysis.RAGComparison,
			VectorComparison: ragResp.Analysis.VectorComparison,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to encode response")
		return
	}
}

// toStrategyResultResponse converts an engine strategy result to its HTTP shape.
func toStrategyResultResponse(result rag.StrategyResult) StrategyResultResponse {
	chunks := make([]ChunkResponse, len(result.Chunks))
	for i, doc := range result.Chunks {
		chunks[i] = ChunkResponse{
			Content:  doc.Content,
			Metadata: doc.Meta,
			Score:    doc.Score,
		}
	}
	return StrategyResultResponse{
		Collection: result.Collection,
		Answer:     result.Answer,
		Chunks:     chunks,
	}
}
