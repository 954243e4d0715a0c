package rag

import (
	"fmt"
	"strings"
)

// comparatorFallback is returned when building the report itself fails.
const comparatorFallback = "Error comparing results"

// CompareRetrieval summarizes how two retrieval result sets differ
// structurally. Every observation is keyed off a boolean predicate over the
// chunk metadata: the result counts always lead; table data, type diversity,
// metadata richness, and section structure are reported when the semantic
// side wins them. The report is best effort and never fails; an internal
// failure yields a fixed fallback message instead.
func CompareRetrieval(recursiveDocs, semanticDocs []ScoredDoc) (report string) {
	defer func() {
		if r := recover(); r != nil {
			report = comparatorFallback
		}
	}()

	observations := []string{
		fmt.Sprintf("Found %d recursive chunks and %d semantic chunks.", len(recursiveDocs), len(semanticDocs)),
	}

	recursiveTypes := docTypes(recursiveDocs)
	semanticTypes := docTypes(semanticDocs)

	if _, ok := semanticTypes["table"]; ok {
		observations = append(observations, "Semantic chunking found relevant table data.")
	}
	if len(semanticTypes) > len(recursiveTypes) {
		observations = append(observations, "Semantic chunking provided more diverse content types.")
	}
	if len(metadataKeys(semanticDocs)) > len(metadataKeys(recursiveDocs)) {
		observations = append(observations, "Semantic chunking preserved more metadata.")
	}
	if hasSectionMetadata(semanticDocs) && !hasSectionMetadata(recursiveDocs) {
		observations = append(observations, "Semantic chunking better preserved document structure.")
	}

	return strings.Join(observations, "\n")
}

// docTypes collects the distinct type values across docs; a doc without one
// counts as "unknown".
func docTypes(docs []ScoredDoc) map[string]struct{} {
	types := make(map[string]struct{}, len(docs))
	for _, doc := range docs {
		docType := metaString(doc.Meta, "type")
		if docType == "" {
			docType = "unknown"
		}
		types[docType] = struct{}{}
	}
	return types
}

// metadataKeys collects the union of payload keys across docs.
func metadataKeys(docs []ScoredDoc) map[string]struct{} {
	keys := make(map[string]struct{})
	for _, doc := range docs {
		for key := range doc.Meta {
			keys[key] = struct{}{}
		}
	}
	return keys
}

// hasSectionMetadata reports whether any doc carries a section title.
func hasSectionMetadata(docs []ScoredDoc) bool {
	for _, doc := range docs {
		if _, ok := doc.Meta["section_title"]; ok {
			return true
		}
	}
	return false
}
