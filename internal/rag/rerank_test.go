package rag

import "testing"

func tableDoc(tableID, format, purpose string) ScoredDoc {
	return ScoredDoc{
		Content: format + " view of " + tableID,
		Meta: map[string]any{
			"type":          "table",
			"table_id":      tableID,
			"table_format":  format,
			"table_purpose": purpose,
		},
	}
}

func textDoc(content string) ScoredDoc {
	return ScoredDoc{Content: content, Meta: map[string]any{"type": "text"}}
}

func TestBoostTableDocs_PicksBestPurposePerTable(t *testing.T) {
	docs := []ScoredDoc{
		tableDoc("table_1_0", "readable", "display"),
		tableDoc("table_1_0", "column", "analysis"),
		tableDoc("table_1_0", "json", "query"),
	}

	got := boostTableDocs(docs)
	if len(got) != 1 {
		t.Fatalf("boostTableDocs() returned %d docs, want 1", len(got))
	}
	if metaString(got[0].Meta, "table_purpose") != "query" {
		t.Errorf("expected the query-purpose view to win, got %q", metaString(got[0].Meta, "table_purpose"))
	}
}

func TestBoostTableDocs_AddsJSONVariantWhenAnotherViewWins(t *testing.T) {
	docs := []ScoredDoc{
		tableDoc("table_1_0", "column", "analysis"),
		tableDoc("table_1_0", "json", "overview"),
	}

	got := boostTableDocs(docs)
	if len(got) != 2 {
		t.Fatalf("boostTableDocs() returned %d docs, want 2", len(got))
	}
	if metaString(got[0].Meta, "table_format") != "column" {
		t.Errorf("best-purpose view should lead, got format %q", metaString(got[0].Meta, "table_format"))
	}
	if metaString(got[1].Meta, "table_format") != "json" {
		t.Errorf("json variant should follow the winning view, got format %q", metaString(got[1].Meta, "table_format"))
	}
}

func TestBoostTableDocs_GroupedTablesPrecedeText(t *testing.T) {
	docs := []ScoredDoc{
		textDoc("Intro paragraph."),
		tableDoc("table_1_0", "readable", "display"),
		textDoc("Closing paragraph."),
		tableDoc("table_2_0", "column", "analysis"),
	}

	got := boostTableDocs(docs)
	if len(got) != 4 {
		t.Fatalf("boostTableDocs() returned %d docs, want 4", len(got))
	}
	if metaString(got[0].Meta, "table_id") != "table_1_0" || metaString(got[1].Meta, "table_id") != "table_2_0" {
		t.Errorf("table groups should lead in first-seen order, got %q then %q",
			metaString(got[0].Meta, "table_id"), metaString(got[1].Meta, "table_id"))
	}
	if got[2].Content != "Intro paragraph." || got[3].Content != "Closing paragraph." {
		t.Errorf("text docs should keep retrieval order after tables, got %q then %q", got[2].Content, got[3].Content)
	}
}

func TestBoostTableDocs_TieKeepsRetrievalOrder(t *testing.T) {
	first := tableDoc("table_1_0", "column", "analysis")
	first.Content = "first column view"
	second := tableDoc("table_1_0", "statistics", "analysis")
	second.Content = "statistics view"

	got := boostTableDocs([]ScoredDoc{first, second})
	if len(got) != 1 {
		t.Fatalf("boostTableDocs() returned %d docs, want 1", len(got))
	}
	if got[0].Content != "first column view" {
		t.Errorf("equal purposes should keep the earlier doc, got %q", got[0].Content)
	}
}

func TestBoostTableDocs_MissingTableIDGroupsAsUnknown(t *testing.T) {
	docs := []ScoredDoc{
		{Content: "one", Meta: map[string]any{"type": "table", "table_purpose": "display"}},
		{Content: "two", Meta: map[string]any{"type": "table", "table_purpose": "analysis"}},
	}

	got := boostTableDocs(docs)
	if len(got) != 1 {
		t.Fatalf("docs without table_id should collapse into one group, got %d docs", len(got))
	}
	if got[0].Content != "two" {
		t.Errorf("analysis purpose should beat display, got %q", got[0].Content)
	}
}

func TestBoostTableDocs_NoTables(t *testing.T) {
	docs := []ScoredDoc{textDoc("a"), textDoc("b")}

	got := boostTableDocs(docs)
	if len(got) != 2 || got[0].Content != "a" || got[1].Content != "b" {
		t.Errorf("text-only input should pass through unchanged, got %+v", got)
	}
}

func TestPurposeRank(t *testing.T) {
	tests := []struct {
		purpose string
		want    int
	}{
		{"query", 0},
		{"analysis", 1},
		{"overview", 2},
		{"display", 3},
		{"", 4},
		{"decorative", 4},
	}

	for _, tt := range tests {
		meta := map[string]any{"table_purpose": tt.purpose}
		if got := purposeRank(meta); got != tt.want {
			t.Errorf("purposeRank(%q) = %d, want %d", tt.purpose, got, tt.want)
		}
	}
}
