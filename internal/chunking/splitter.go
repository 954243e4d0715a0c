package chunking

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// defaultSeparators orders split boundaries coarsest first: paragraph break,
// line break, sentence end, word boundary, then single characters.
var defaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// Splitter cuts long text into overlapping windows along natural
// boundaries. Window size and overlap are measured in runes.
type Splitter struct {
	chunkSize    int
	chunkOverlap int
	separators   []string
}

// NewSplitter validates the window parameters. Overlap must be strictly
// smaller than the window size; violations are construction errors, never
// deferred to the first split.
func NewSplitter(chunkSize, chunkOverlap int) (*Splitter, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	if chunkOverlap < 0 {
		return nil, fmt.Errorf("chunk overlap must not be negative, got %d", chunkOverlap)
	}
	if chunkOverlap >= chunkSize {
		return nil, fmt.Errorf("chunk overlap %d must be smaller than chunk size %d", chunkOverlap, chunkSize)
	}
	return &Splitter{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		separators:   defaultSeparators,
	}, nil
}

// Split cuts text into windows of at most chunkSize runes. Consecutive
// windows share up to chunkOverlap runes, carried over as whole
// separator-delimited pieces rather than a raw character slice. Identical
// input always yields identical output.
func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return s.split(text, s.separators)
}

// split picks the coarsest separator present in the text, cuts on it, and
// re-splits any piece still at or over the window size with the finer
// separators that remain.
func (s *Splitter) split(text string, separators []string) []string {
	sep := separators[len(separators)-1]
	var finer []string
	for i, cand := range separators {
		if cand == "" {
			sep = ""
			break
		}
		if strings.Contains(text, cand) {
			sep = cand
			finer = separators[i+1:]
			break
		}
	}

	var final []string
	var pending []string
	for _, piece := range cut(text, sep) {
		if utf8.RuneCountInString(piece) < s.chunkSize {
			pending = append(pending, piece)
			continue
		}
		if len(pending) > 0 {
			final = append(final, s.merge(pending)...)
			pending = nil
		}
		if len(finer) == 0 {
			final = append(final, piece)
		} else {
			final = append(final, s.split(piece, finer)...)
		}
	}
	if len(pending) > 0 {
		final = append(final, s.merge(pending)...)
	}
	return final
}

// cut splits text on sep, keeping each separator attached to the front of
// the piece that follows it so rejoined windows retain their original
// boundaries. The empty separator cuts into single runes.
func cut(text, sep string) []string {
	if sep == "" {
		return strings.Split(text, "")
	}
	parts := strings.Split(text, sep)
	out := make([]string, 0, len(parts))
	for i, p := range parts {
		if i == 0 {
			if p != "" {
				out = append(out, p)
			}
			continue
		}
		out = append(out, sep+p)
	}
	return out
}

// merge packs undersized pieces into windows of at most chunkSize runes.
// When a window fills up it is emitted, and the tail pieces that fit within
// chunkOverlap carry over to start the next window.
func (s *Splitter) merge(pieces []string) []string {
	var windows []string
	var current []string
	total := 0

	for _, piece := range pieces {
		pieceLen := utf8.RuneCountInString(piece)
		if total+pieceLen > s.chunkSize && len(current) > 0 {
			if w := strings.TrimSpace(strings.Join(current, "")); w != "" {
				windows = append(windows, w)
			}
			for len(current) > 0 && (total > s.chunkOverlap || total+pieceLen > s.chunkSize) {
				total -= utf8.RuneCountInString(current[0])
				current = current[1:]
			}
		}
		current = append(current, piece)
		total += pieceLen
	}
	if w := strings.TrimSpace(strings.Join(current, "")); w != "" {
		windows = append(windows, w)
	}
	return windows
}
