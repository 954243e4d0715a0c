package rag

import (
	"regexp"
	"strings"
)

// tableQueryKeywords are terms that signal a question about tabular data.
var tableQueryKeywords = []string{
	"table", "row", "column", "cell", "data",
	"value", "statistic", "average", "mean", "sum",
	"total", "maximum", "minimum", "count", "percentage",
	"compare", "comparison", "trend", "growth", "decline",
	"increase", "decrease", "ratio", "proportion", "distribution",
}

var tableQueryPattern = regexp.MustCompile(`\b(` + strings.Join(tableQueryKeywords, "|") + `)\b`)

// IsTableQuery reports whether a query is likely about tabular data. Matching
// is case-insensitive and on whole words only.
func IsTableQuery(query string) bool {
	return tableQueryPattern.MatchString(strings.ToLower(query))
}
