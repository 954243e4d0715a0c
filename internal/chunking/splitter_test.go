package chunking

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNewSplitter_Validation(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
		wantErr bool
	}{
		{name: "valid", size: 1000, overlap: 200, wantErr: false},
		{name: "zero overlap", size: 100, overlap: 0, wantErr: false},
		{name: "zero size", size: 0, overlap: 0, wantErr: true},
		{name: "negative size", size: -5, overlap: 0, wantErr: true},
		{name: "negative overlap", size: 100, overlap: -1, wantErr: true},
		{name: "overlap equals size", size: 100, overlap: 100, wantErr: true},
		{name: "overlap exceeds size", size: 100, overlap: 150, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSplitter(tt.size, tt.overlap)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewSplitter(%d, %d) error = %v, wantErr %v", tt.size, tt.overlap, err, tt.wantErr)
			}
		})
	}
}

func TestSplitter_ShortTextUnchanged(t *testing.T) {
	s, err := NewSplitter(100, 20)
	if err != nil {
		t.Fatalf("NewSplitter() error = %v", err)
	}

	got := s.Split("  a short paragraph  ")
	want := []string{"a short paragraph"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Split() = %v, want %v", got, want)
	}
}

func TestSplitter_EmptyText(t *testing.T) {
	s, err := NewSplitter(100, 20)
	if err != nil {
		t.Fatalf("NewSplitter() error = %v", err)
	}

	if got := s.Split("   \n\n  "); got != nil {
		t.Errorf("Split() = %v, want nil", got)
	}
}

func TestSplitter_Overlap(t *testing.T) {
	s, err := NewSplitter(20, 10)
	if err != nil {
		t.Fatalf("NewSplitter() error = %v", err)
	}

	got := s.Split("aaaa bbbb cccc dddd eeee ffff")
	want := []string{"aaaa bbbb cccc dddd", "cccc dddd eeee ffff"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Split() = %v, want %v", got, want)
	}
}

func TestSplitter_ParagraphBoundaryPreferred(t *testing.T) {
	s, err := NewSplitter(30, 0)
	if err != nil {
		t.Fatalf("NewSplitter() error = %v", err)
	}

	got := s.Split("first paragraph here\n\nsecond paragraph here")
	want := []string{"first paragraph here", "second paragraph here"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Split() = %v, want %v", got, want)
	}
}

func TestSplitter_CharacterFallback(t *testing.T) {
	// No separator appears, so the splitter falls back to characters.
	s, err := NewSplitter(4, 1)
	if err != nil {
		t.Fatalf("NewSplitter() error = %v", err)
	}

	got := s.Split("aaaaaaaaaa")
	want := []string{"aaaa", "aaaa", "aaaa"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Split() = %v, want %v", got, want)
	}
}

func TestSplitter_ChunkSizeBound(t *testing.T) {
	s, err := NewSplitter(50, 10)
	if err != nil {
		t.Fatalf("NewSplitter() error = %v", err)
	}

	text := strings.Repeat("some words to split over and over. ", 30)
	chunks := s.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("Split() produced %d chunks, want several", len(chunks))
	}
	for i, c := range chunks {
		if n := utf8.RuneCountInString(c); n > 50 {
			t.Errorf("chunk %d has %d runes, want <= 50: %q", i, n, c)
		}
		if c != strings.TrimSpace(c) {
			t.Errorf("chunk %d has surrounding whitespace: %q", i, c)
		}
		if c == "" {
			t.Errorf("chunk %d is empty", i)
		}
	}
}

func TestSplitter_Deterministic(t *testing.T) {
	s, err := NewSplitter(40, 10)
	if err != nil {
		t.Fatalf("NewSplitter() error = %v", err)
	}

	text := "Alpha beta gamma delta.\n\nEpsilon zeta eta theta iota kappa lambda.\nMu nu xi omicron pi rho sigma tau."
	first := s.Split(text)
	for i := 0; i < 5; i++ {
		if got := s.Split(text); !reflect.DeepEqual(got, first) {
			t.Fatalf("Split() run %d = %v, want %v", i, got, first)
		}
	}
}

func TestSplitter_CoversAllContent(t *testing.T) {
	s, err := NewSplitter(25, 5)
	if err != nil {
		t.Fatalf("NewSplitter() error = %v", err)
	}

	text := "one two three four five six seven eight nine ten"
	chunks := s.Split(text)

	joined := strings.Join(chunks, " ")
	for _, word := range strings.Fields(text) {
		if !strings.Contains(joined, word) {
			t.Errorf("word %q missing from chunks %v", word, chunks)
		}
	}
}
