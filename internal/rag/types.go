package rag

// QueryRequest represents a chunking comparison query.
type QueryRequest struct {
	// Query is the question to answer against both collections.
	Query string `json:"query"`
	// RecursiveCollection names the recursive-chunking collection to search.
	// Defaults to "recursive".
	RecursiveCollection string `json:"recursive_collection,omitempty"`
	// SemanticCollection names the semantic-chunking collection to search.
	// Defaults to "semantic".
	SemanticCollection string `json:"semantic_collection,omitempty"`
	// Limit optionally caps the number of chunks retrieved per collection.
	Limit int `json:"limit,omitempty"`
}

// ScoredDoc is a retrieved chunk with its stored payload and similarity score.
type ScoredDoc struct {
	// Content is the chunk text as stored in the vector store.
	Content string `json:"content"`
	// Meta holds the chunk's metadata payload.
	Meta map[string]any `json:"metadata"`
	// Score is the vector similarity score.
	Score float32 `json:"score"`
}

// StrategyResult holds one chunking strategy's retrieval and generated answer.
type StrategyResult struct {
	// Collection is the collection that was searched.
	Collection string `json:"collection"`
	// Answer is the LLM answer generated from the retrieved chunks.
	Answer string `json:"answer"`
	// Chunks are the retrieved chunks in ranked order.
	Chunks []ScoredDoc `json:"chunks"`
}

// Analysis compares the two strategies' results.
type Analysis struct {
	// RAGComparison is the LLM's judgement of the two generated answers.
	RAGComparison string `json:"rag_comparison"`
	// VectorComparison is the rule-based retrieval comparison report.
	VectorComparison string `json:"vector_comparison"`
}

// QueryResponse is the full side-by-side comparison for one query.
type QueryResponse struct {
	// Query echoes the question that was asked.
	Query string `json:"query"`
	// Recursive holds the recursive-chunking retrieval and answer.
	Recursive StrategyResult `json:"recursive"`
	// Semantic holds the semantic-chunking retrieval and answer.
	Semantic StrategyResult `json:"semantic"`
	// Analysis holds the answer and retrieval comparisons.
	Analysis Analysis `json:"analysis"`
}

// metaString reads a string payload field, returning "" when absent.
func metaString(meta map[string]any, key string) string {
	value, _ := meta[key].(string)
	return value
}

// metaStrings reads a string-list payload field.
func metaStrings(meta map[string]any, key string) []string {
	raw, ok := meta[key].([]any)
	if !ok {
		return nil
	}
	values := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			values = append(values, s)
		}
	}
	return values
}
