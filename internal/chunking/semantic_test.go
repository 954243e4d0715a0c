package chunking

import (
	"testing"
)

func newSemanticChunker(t *testing.T) *SemanticChunker {
	t.Helper()
	c, err := NewSemanticChunker(1000, 200)
	if err != nil {
		t.Fatalf("NewSemanticChunker() error = %v", err)
	}
	return c
}

func TestNewSemanticChunker_InvalidWindow(t *testing.T) {
	if _, err := NewSemanticChunker(100, 100); err == nil {
		t.Error("NewSemanticChunker(100, 100) error = nil, want error")
	}
}

func TestSemanticChunker_TablesBeforeText(t *testing.T) {
	c := newSemanticChunker(t)

	tableA := `<table><tr><th>Name</th><th>Revenue</th></tr><tr><td>A</td><td>100</td></tr></table>`
	tableB := `<table><tr><th>City</th></tr><tr><td>Oslo</td></tr></table>`
	elements := []Element{
		{Kind: KindTitle, Text: "Overview", PageNumber: 1, Position: 0},
		{Kind: KindNarrativeText, Text: "Revenue grew steadily.", PageNumber: 1, Position: 1},
		{Kind: KindTable, Text: "Name Revenue A 100", HTML: tableA, PageNumber: 1, Position: 2},
		{Kind: KindTable, Text: "City Oslo", HTML: tableB, PageNumber: 1, Position: 3},
		{Kind: KindTitle, Text: "Details", PageNumber: 2, Position: 0},
		{Kind: KindNarrativeText, Text: "More detail follows.", PageNumber: 2, Position: 1},
	}

	chunks := c.ChunkElements(elements)

	// Table A renders readable, json, two columns, statistics, and
	// description; table B has no numeric column so it skips statistics.
	if len(chunks) != 12 {
		t.Fatalf("ChunkElements() returned %d chunks, want 12", len(chunks))
	}
	for i, ch := range chunks[:10] {
		if ch.Metadata.Type != ChunkTypeTable {
			t.Errorf("chunk %d type = %q, want %q", i, ch.Metadata.Type, ChunkTypeTable)
		}
	}
	for i, ch := range chunks[10:] {
		if ch.Metadata.Type != ChunkTypeText {
			t.Errorf("chunk %d type = %q, want %q", 10+i, ch.Metadata.Type, ChunkTypeText)
		}
	}
	for i, ch := range chunks {
		if ch.Metadata.ChunkingType != ChunkingSemantic {
			t.Errorf("chunk %d chunking type = %q, want %q", i, ch.Metadata.ChunkingType, ChunkingSemantic)
		}
	}

	for i, ch := range chunks[:6] {
		if ch.Metadata.TableID != "table_1_1" {
			t.Errorf("chunk %d table id = %q, want table_1_1", i, ch.Metadata.TableID)
		}
	}
	for i, ch := range chunks[6:10] {
		if ch.Metadata.TableID != "table_1_2" {
			t.Errorf("chunk %d table id = %q, want table_1_2", 6+i, ch.Metadata.TableID)
		}
	}

	first := chunks[10]
	if first.Content != "Revenue grew steadily." {
		t.Errorf("first text chunk content = %q", first.Content)
	}
	if first.Metadata.SectionTitle != "Overview" || first.Metadata.SectionIndex != 0 {
		t.Errorf("first text chunk section = %q/%d, want Overview/0",
			first.Metadata.SectionTitle, first.Metadata.SectionIndex)
	}
	if first.Metadata.PageNumber != 1 {
		t.Errorf("first text chunk page = %d, want 1", first.Metadata.PageNumber)
	}

	second := chunks[11]
	if second.Content != "More detail follows." {
		t.Errorf("second text chunk content = %q", second.Content)
	}
	if second.Metadata.SectionTitle != "Details" || second.Metadata.SectionIndex != 1 {
		t.Errorf("second text chunk section = %q/%d, want Details/1",
			second.Metadata.SectionTitle, second.Metadata.SectionIndex)
	}
	if second.Metadata.PageNumber != 2 {
		t.Errorf("second text chunk page = %d, want 2", second.Metadata.PageNumber)
	}
}

func TestSemanticChunker_TableIDsPerPage(t *testing.T) {
	c := newSemanticChunker(t)

	tbl := `<table><tr><th>K</th></tr><tr><td>v</td></tr></table>`
	elements := []Element{
		{Kind: KindTable, HTML: tbl, PageNumber: 1},
		{Kind: KindTable, HTML: tbl, PageNumber: 2},
		{Kind: KindTable, HTML: tbl, PageNumber: 1},
	}

	ids := make(map[string]bool)
	for _, ch := range c.ChunkElements(elements) {
		ids[ch.Metadata.TableID] = true
	}

	want := []string{"table_1_1", "table_2_1", "table_1_2"}
	if len(ids) != len(want) {
		t.Fatalf("distinct table ids = %v, want %v", ids, want)
	}
	for _, id := range want {
		if !ids[id] {
			t.Errorf("table id %q missing from %v", id, ids)
		}
	}
}

func TestSemanticChunker_TableWithoutHTML(t *testing.T) {
	c := newSemanticChunker(t)

	chunks := c.ChunkElements([]Element{
		{Kind: KindTable, Text: "plain table text", PageNumber: 3},
	})

	if len(chunks) != 1 {
		t.Fatalf("ChunkElements() returned %d chunks, want 1", len(chunks))
	}
	ch := chunks[0]
	if ch.Content != "TABLE:\nplain table text\n" {
		t.Errorf("content = %q", ch.Content)
	}
	if ch.Metadata.TableID != "table_3_1" {
		t.Errorf("table id = %q, want table_3_1", ch.Metadata.TableID)
	}
	if ch.Metadata.Error != "" {
		t.Errorf("error = %q, want empty", ch.Metadata.Error)
	}
}

func TestSemanticChunker_TableErrorRecorded(t *testing.T) {
	c := newSemanticChunker(t)

	chunks := c.ChunkElements([]Element{
		{Kind: KindTable, Text: "caption only", HTML: "<div>no table here</div>", PageNumber: 1},
	})

	if len(chunks) != 1 {
		t.Fatalf("ChunkElements() returned %d chunks, want 1", len(chunks))
	}
	if chunks[0].Metadata.Error == "" {
		t.Error("metadata error is empty, want decomposition failure recorded")
	}
}

func TestSemanticChunker_NoElements(t *testing.T) {
	c := newSemanticChunker(t)
	if got := c.ChunkElements(nil); len(got) != 0 {
		t.Errorf("ChunkElements(nil) = %v, want none", got)
	}
}

func TestSemanticChunker_ChunkHTML(t *testing.T) {
	c := newSemanticChunker(t)

	content := `<html><body>
<h1>Report</h1>
<p>Sales went up.</p>
<table><tr><th>Name</th><th>Revenue</th></tr><tr><td>A</td><td>100</td></tr></table>
<h2>Notes</h2>
<ul><li>First note</li></ul>
</body></html>`

	chunks := c.ChunkHTML(content)
	if len(chunks) != 8 {
		t.Fatalf("ChunkHTML() returned %d chunks, want 8", len(chunks))
	}

	for i, ch := range chunks[:6] {
		if ch.Metadata.Type != ChunkTypeTable {
			t.Errorf("chunk %d type = %q, want %q", i, ch.Metadata.Type, ChunkTypeTable)
		}
		if ch.Metadata.TableID != "table_0_1" {
			t.Errorf("chunk %d table id = %q, want table_0_1", i, ch.Metadata.TableID)
		}
	}

	if got := chunks[6]; got.Content != "Sales went up." ||
		got.Metadata.SectionTitle != "Report" || got.Metadata.SectionIndex != 0 {
		t.Errorf("first section chunk = %q (%q/%d), want Sales went up. (Report/0)",
			got.Content, got.Metadata.SectionTitle, got.Metadata.SectionIndex)
	}
	if got := chunks[7]; got.Content != "First note" ||
		got.Metadata.SectionTitle != "Notes" || got.Metadata.SectionIndex != 1 {
		t.Errorf("second section chunk = %q (%q/%d), want First note (Notes/1)",
			got.Content, got.Metadata.SectionTitle, got.Metadata.SectionIndex)
	}
}

func TestSemanticChunker_ChunkHTMLEmpty(t *testing.T) {
	c := newSemanticChunker(t)
	if got := c.ChunkHTML(""); len(got) != 0 {
		t.Errorf("ChunkHTML(\"\") = %v, want none", got)
	}
}
