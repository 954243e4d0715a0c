package chunking

import (
	"testing"
)

func TestGroupSections(t *testing.T) {
	tests := []struct {
		name     string
		elements []Element
		want     []Section
	}{
		{
			name: "titles start new sections",
			elements: []Element{
				{Kind: KindTitle, Text: "Intro", PageNumber: 1},
				{Kind: KindNarrativeText, Text: "First paragraph.", PageNumber: 1, Position: 1},
				{Kind: KindListItem, Text: "a point", PageNumber: 1, Position: 2},
				{Kind: KindTitle, Text: "Details", PageNumber: 2},
				{Kind: KindNarrativeText, Text: "More text.", PageNumber: 2, Position: 1},
			},
			want: []Section{
				{Title: "Intro", Content: "First paragraph.\n\na point", Page: 1},
				{Title: "Details", Content: "More text.", Page: 2},
			},
		},
		{
			name: "no titles collapse into one document section",
			elements: []Element{
				{Kind: KindNarrativeText, Text: "Alpha.", PageNumber: 1},
				{Kind: KindNarrativeText, Text: "Beta.", PageNumber: 2},
			},
			want: []Section{
				{Title: "Document", Content: "Alpha.\n\nBeta.", Page: 1},
			},
		},
		{
			name: "content before the first title gets the synthetic section",
			elements: []Element{
				{Kind: KindNarrativeText, Text: "Preamble.", PageNumber: 1},
				{Kind: KindTitle, Text: "Chapter", PageNumber: 1, Position: 5},
				{Kind: KindNarrativeText, Text: "Body.", PageNumber: 1, Position: 6},
			},
			want: []Section{
				{Title: "Document", Content: "Preamble.", Page: 1},
				{Title: "Chapter", Content: "Body.", Page: 1},
			},
		},
		{
			name: "empty sections are dropped",
			elements: []Element{
				{Kind: KindTitle, Text: "Orphan", PageNumber: 1},
				{Kind: KindTitle, Text: "Real", PageNumber: 1, Position: 1},
				{Kind: KindNarrativeText, Text: "Content.", PageNumber: 1, Position: 2},
			},
			want: []Section{
				{Title: "Real", Content: "Content.", Page: 1},
			},
		},
		{
			name: "elements are ordered by page then position",
			elements: []Element{
				{Kind: KindNarrativeText, Text: "Second.", PageNumber: 1, Position: 2},
				{Kind: KindNarrativeText, Text: "Third.", PageNumber: 2},
				{Kind: KindNarrativeText, Text: "First.", PageNumber: 1, Position: 1},
			},
			want: []Section{
				{Title: "Document", Content: "First.\n\nSecond.\n\nThird.", Page: 1},
			},
		},
		{
			name: "tables are skipped",
			elements: []Element{
				{Kind: KindTitle, Text: "Data", PageNumber: 1},
				{Kind: KindTable, Text: "A | B", PageNumber: 1, Position: 1},
				{Kind: KindNarrativeText, Text: "Caption text.", PageNumber: 1, Position: 2},
			},
			want: []Section{
				{Title: "Data", Content: "Caption text.", Page: 1},
			},
		},
		{
			name:     "no elements",
			elements: nil,
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GroupSections(tt.elements)
			if len(got) != len(tt.want) {
				t.Fatalf("GroupSections() returned %d sections, want %d: %+v", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("section %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestGroupSections_StableOrder(t *testing.T) {
	// Equal sort keys keep input order.
	elements := []Element{
		{Kind: KindNarrativeText, Text: "one", PageNumber: 1},
		{Kind: KindNarrativeText, Text: "two", PageNumber: 1},
		{Kind: KindNarrativeText, Text: "three", PageNumber: 1},
	}

	got := GroupSections(elements)
	if len(got) != 1 {
		t.Fatalf("GroupSections() returned %d sections, want 1", len(got))
	}
	if want := "one\n\ntwo\n\nthree"; got[0].Content != want {
		t.Errorf("Content = %q, want %q", got[0].Content, want)
	}
}
