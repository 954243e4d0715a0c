package rag

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_embedder.go -package=mocks chunklab/internal/rag Embedder
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_llm.go -package=mocks chunklab/internal/rag LLM
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_engine.go -package=mocks chunklab/internal/rag Engine

import (
	"context"
	"fmt"
	"log/slog"

	"chunklab/internal/contextutil"
	"chunklab/internal/llm"
	"chunklab/internal/service"
	"chunklab/internal/vectorstore"
)

const (
	// DefaultRecursiveCollection is searched when a query names no recursive collection.
	DefaultRecursiveCollection = "recursive"
	// DefaultSemanticCollection is searched when a query names no semantic collection.
	DefaultSemanticCollection = "semantic"
)

// Embedder embeds query text into vectors.
// This interface is defined from the engine's perspective (consumer-first).
type Embedder interface {
	// EmbedTexts returns one embedding per input text, in input order.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// LLM generates chat completions.
// This interface is defined from the engine's perspective (consumer-first).
type LLM interface {
	// ChatWithMessages sends messages to the LLM and returns the reply.
	ChatWithMessages(ctx context.Context, messages []llm.Message, params llm.ChatParams) (string, error)
}

// Engine answers a question against both chunking strategies and compares the results.
type Engine interface {
	// Query retrieves from both collections, generates both answers, and compares them.
	Query(ctx context.Context, req QueryRequest) (QueryResponse, error)
}

// ragEngine implements the Engine interface.
type ragEngine struct {
	embedder    Embedder
	vectorStore vectorstore.VectorStore
	llmClient   LLM
	logger      *slog.Logger
}

// NewEngine creates a new comparison engine.
func NewEngine(embedder Embedder, vectorStore vectorstore.VectorStore, llmClient LLM) Engine {
	return &ragEngine{
		embedder:    embedder,
		vectorStore: vectorStore,
		llmClient:   llmClient,
		logger:      slog.Default(),
	}
}

// getLogger extracts logger from context or returns default logger.
func (e *ragEngine) getLogger(ctx context.Context) *slog.Logger {
	if ctxLogger := ctx.Value(contextutil.LoggerKey()); ctxLogger != nil {
		if l, ok := ctxLogger.(*slog.Logger); ok {
			return l
		}
	}
	return e.logger
}

// Query runs the side-by-side comparison for one question.
func (e *ragEngine) Query(ctx context.Context, req QueryRequest) (QueryResponse, error) {
	logger := e.getLogger(ctx)

	// Business validation
	if req.Query == "" {
		logger.WarnContext(ctx, "empty query in comparison request")
		return QueryResponse{}, &service.ValidationError{
			Field:   "query",
			Message: "cannot be empty",
		}
	}

	recursiveCollection := req.RecursiveCollection
	if recursiveCollection == "" {
		recursiveCollection = DefaultRecursiveCollection
	}
	semanticCollection := req.SemanticCollection
	if semanticCollection == "" {
		semanticCollection = DefaultSemanticCollection
	}

	// Default limit to 5, enforce max 20
	limit := req.Limit
	if limit == 0 {
		limit = 5
	}
	if limit > 20 {
		limit = 20
	}

	logger.InfoContext(ctx, "comparison query started",
		"query", req.Query,
		"recursive_collection", recursiveCollection,
		"semantic_collection", semanticCollection,
		"limit", limit,
	)

	for _, collection := range []string{recursiveCollection, semanticCollection} {
		exists, err := e.vectorStore.CollectionExists(ctx, collection)
		if err != nil {
			logger.ErrorContext(ctx, "failed to check collection", "collection", collection, "error", err)
			return QueryResponse{}, fmt.Errorf("failed to check collection %q: %w", collection, err)
		}
		if !exists {
			return QueryResponse{}, fmt.Errorf("collection %q: %w", collection, service.ErrNotFound)
		}
	}

	// Embed the question once; both collections share the same query vector.
	embeddings, err := e.embedder.EmbedTexts(ctx, []string{req.Query})
	if err != nil {
		logger.ErrorContext(ctx, "failed to embed query", "error", err)
		return QueryResponse{}, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(embeddings) == 0 {
		return QueryResponse{}, fmt.Errorf("no embedding returned for query")
	}
	queryVector := embeddings[0]

	tableQuery := IsTableQuery(req.Query)

	recursiveDocs, err := e.searchCollection(ctx, recursiveCollection, queryVector, limit, false)
	if err != nil {
		return QueryResponse{}, fmt.Errorf("failed to search collection %q: %w", recursiveCollection, err)
	}
	// Table-shaped queries get purpose-ranked table views on the semantic side.
	semanticDocs, err := e.searchCollection(ctx, semanticCollection, queryVector, limit, tableQuery)
	if err != nil {
		return QueryResponse{}, fmt.Errorf("failed to search collection %q: %w", semanticCollection, err)
	}

	logger.InfoContext(ctx, "vector search completed",
		"recursive_results", len(recursiveDocs),
		"semantic_results", len(semanticDocs),
		"table_query", tableQuery,
	)

	recursiveAnswer, err := e.generateAnswer(ctx, req.Query, recursiveDocs)
	if err != nil {
		return QueryResponse{}, fmt.Errorf("failed to answer from %q: %w", recursiveCollection, err)
	}
	semanticAnswer, err := e.generateAnswer(ctx, req.Query, semanticDocs)
	if err != nil {
		return QueryResponse{}, fmt.Errorf("failed to answer from %q: %w", semanticCollection, err)
	}

	comparison, err := e.compareAnswers(ctx, req.Query, recursiveAnswer, semanticAnswer)
	if err != nil {
		return QueryResponse{}, err
	}

	// The rule-based report samples the top results from each side.
	vectorComparison := CompareRetrieval(headDocs(recursiveDocs, 5), headDocs(semanticDocs, 5))

	logger.InfoContext(ctx, "comparison query completed",
		"recursive_chunks", len(recursiveDocs),
		"semantic_chunks", len(semanticDocs),
		"recursive_answer_length", len(recursiveAnswer),
		"semantic_answer_length", len(semanticAnswer),
	)

	return QueryResponse{
		Query: req.Query,
		Recursive: StrategyResult{
			Collection: recursiveCollection,
			Answer:     recursiveAnswer,
			Chunks:     recursiveDocs,
		},
		Semantic: StrategyResult{
			Collection: semanticCollection,
			Answer:     semanticAnswer,
			Chunks:     semanticDocs,
		},
		Analysis: Analysis{
			RAGComparison:    comparison,
			VectorComparison: vectorComparison,
		},
	}, nil
}

// searchCollection retrieves the top chunks for the query vector. With
// boostTables set, extra candidates are fetched and table views are regrouped
// before the list is cut back to k.
func (e *ragEngine) searchCollection(ctx context.Context, collection string, queryVector []float32, k int, boostTables bool) ([]ScoredDoc, error) {
	logger := e.getLogger(ctx)

	fetch := k
	if boostTables {
		// Extra candidates so regrouping has sibling views to choose from.
		fetch = k + 3
	}

	results, err := e.vectorStore.Search(ctx, collection, queryVector, fetch, nil)
	if err != nil {
		logger.ErrorContext(ctx, "failed to search vector store", "collection", collection, "error", err)
		return nil, fmt.Errorf("failed to search vector store: %w", err)
	}

	docs := make([]ScoredDoc, 0, len(results))
	for _, result := range results {
		docs = append(docs, ScoredDoc{
			Content: result.Text,
			Meta:    result.Meta,
			Score:   result.Score,
		})
	}

	if boostTables {
		docs = boostTableDocs(docs)
	}
	if len(docs) > k {
		docs = docs[:k]
	}
	return docs, nil
}

// headDocs returns at most n leading docs.
func headDocs(docs []ScoredDoc, n int) []ScoredDoc {
	if len(docs) > n {
		return docs[:n]
	}
	return docs
}
