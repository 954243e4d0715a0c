package rag

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"chunklab/internal/llm"
	"chunklab/internal/service"
)

const (
	answerTemperature = 0.2
	answerMaxTokens   = 1000
)

// insufficientInfoSentinel marks answers produced without retrieved context.
const insufficientInfoSentinel = "I don't have enough information"

const noContextAnswer = insufficientInfoSentinel + " to answer this question. " +
	"It appears that no documents have been processed yet, or the collections don't exist. " +
	"Please upload and process a document first using the /upload and /process endpoints."

const noContextComparison = "One or both chunking methods didn't have enough information to provide a complete answer. " +
	"Please ensure that documents have been processed with both chunking methods before comparing results."

const tableAnswerPrompt = `<context>
%s
</context>

Based on the context provided, please answer the following question about tabular data: %s

When analyzing tables:
1. Extract relevant data points from the tables
2. Perform calculations if needed (sums, averages, comparisons, etc.)
3. Present the data in a clear, structured format
4. If appropriate, create a markdown table in your response
5. Explain what the data means and its significance`

const generalAnswerPrompt = `<context>
%s
</context>

Based on the context provided, please answer the following question thoroughly and accurately: %s
If the context contains tables, please analyze the table data and include relevant information in your answer.`

const tableComparisonPrompt = `I have two different answers to the same question about tabular data. Please compare them and explain which one is better and why.

Question: %s

Answer 1 (Recursive Chunking): %s

Answer 2 (Semantic Chunking with Structured Tables): %s

Compare these answers in terms of:
1. Accuracy of data extraction and calculations
2. Completeness of table information
3. Clarity of data presentation
4. Insights derived from the tabular data
5. Overall usefulness for understanding the tables

Which answer is better overall and why? Be specific about how the structured representation of tables affected the quality of the answers.`

const generalComparisonPrompt = `I have two different answers to the same question. Please compare them and explain which one is better and why.

Question: %s

Answer 1 (Recursive Chunking): %s

Answer 2 (Semantic Chunking with Structured Tables): %s

Compare these answers in terms of:
1. Accuracy
2. Completeness
3. Relevance
4. Coherence
5. Handling of structured data (if applicable)

Which answer is better overall and why?`

// generateAnswer asks the LLM to answer from the retrieved chunks. With no
// chunks there is nothing to ground an answer on, so a fixed message is
// returned without calling the LLM.
func (e *ragEngine) generateAnswer(ctx context.Context, query string, docs []ScoredDoc) (string, error) {
	logger := e.getLogger(ctx)

	if len(docs) == 0 {
		logger.InfoContext(ctx, "no chunks retrieved, skipping answer generation")
		return noContextAnswer, nil
	}

	contextText := buildContext(docs)

	var prompt string
	if IsTableQuery(query) {
		prompt = fmt.Sprintf(tableAnswerPrompt, contextText, query)
	} else {
		prompt = fmt.Sprintf(generalAnswerPrompt, contextText, query)
	}

	logger.DebugContext(ctx, "generating answer", "chunks", len(docs), "context_length", len(contextText))

	answer, err := e.llmClient.ChatWithMessages(ctx, []llm.Message{{Role: "user", Content: prompt}}, llm.ChatParams{
		MaxTokens:   answerMaxTokens,
		Temperature: answerTemperature,
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to get LLM response", "error", err)
		return "", service.WrapError(err, "failed to generate answer")
	}
	return answer, nil
}

// compareAnswers asks the LLM to judge the two generated answers. When either
// answer was produced without context the comparison is skipped in favor of a
// fixed guidance message.
func (e *ragEngine) compareAnswers(ctx context.Context, query, recursiveAnswer, semanticAnswer string) (string, error) {
	logger := e.getLogger(ctx)

	if strings.HasPrefix(recursiveAnswer, insufficientInfoSentinel) || strings.HasPrefix(semanticAnswer, insufficientInfoSentinel) {
		return noContextComparison, nil
	}

	var prompt string
	if IsTableQuery(query) {
		prompt = fmt.Sprintf(tableComparisonPrompt, query, recursiveAnswer, semanticAnswer)
	} else {
		prompt = fmt.Sprintf(generalComparisonPrompt, query, recursiveAnswer, semanticAnswer)
	}

	comparison, err := e.llmClient.ChatWithMessages(ctx, []llm.Message{{Role: "user", Content: prompt}}, llm.ChatParams{
		MaxTokens:   answerMaxTokens,
		Temperature: answerTemperature,
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to get LLM response", "error", err)
		return "", service.WrapError(err, "failed to compare answers")
	}
	return comparison, nil
}

// buildContext renders the retrieved chunks into one prompt context block.
func buildContext(docs []ScoredDoc) string {
	formatted := make([]string, 0, len(docs))
	for _, doc := range docs {
		formatted = append(formatted, formatDocForContext(doc))
	}
	return strings.Join(formatted, "\n\n---\n\n")
}

// formatDocForContext renders one chunk for the LLM. Table views get a header
// naming the table and view; json views are expanded into a readable grid plus
// their raw records; sectioned text is labeled with its section title.
func formatDocForContext(doc ScoredDoc) string {
	if metaString(doc.Meta, "type") == "table" {
		tableID := metaString(doc.Meta, "table_id")
		if tableID == "" {
			tableID = "unknown"
		}
		format := metaString(doc.Meta, "table_format")

		if format == "json" {
			if jsonData := metaString(doc.Meta, "json_data"); jsonData != "" {
				if rendered, ok := formatJSONTable(tableID, jsonData, doc.Meta); ok {
					return rendered
				}
			}
		}

		purpose := metaString(doc.Meta, "table_purpose")
		return fmt.Sprintf("TABLE (ID: %s, FORMAT: %s, PURPOSE: %s):\n%s", tableID, format, purpose, doc.Content)
	}

	if section := metaString(doc.Meta, "section_title"); section != "" {
		return fmt.Sprintf("SECTION: %s\n\n%s", section, doc.Content)
	}
	return doc.Content
}

// formatJSONTable renders parsed records as a pipe-delimited grid followed by
// the raw JSON, so the LLM sees both a readable and a machine-shaped form.
// Column order follows the stored field list when present.
func formatJSONTable(tableID, jsonData string, meta map[string]any) (string, bool) {
	var records []map[string]any
	if err := json.Unmarshal([]byte(jsonData), &records); err != nil || len(records) == 0 {
		return "", false
	}

	headers := metaStrings(meta, "fields")
	if len(headers) == 0 {
		headers = make([]string, 0, len(records[0]))
		for key := range records[0] {
			headers = append(headers, key)
		}
		sort.Strings(headers)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "TABLE DATA (ID: %s, FORMAT: JSON):\n", tableID)
	headerLine := strings.Join(headers, " | ")
	b.WriteString(headerLine + "\n")
	b.WriteString(strings.Repeat("-", len(headerLine)) + "\n")
	for _, record := range records {
		row := make([]string, len(headers))
		for i, header := range headers {
			if value, ok := record[header]; ok {
				row[i] = fmt.Sprintf("%v", value)
			}
		}
		b.WriteString(strings.Join(row, " | ") + "\n")
	}
	fmt.Fprintf(&b, "\nJSON Representation:\n%s", jsonData)
	return b.String(), true
}
