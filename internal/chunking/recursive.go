package chunking

import (
	"fmt"
	"strings"
)

// RecursiveChunker is the baseline strategy: every element's text is
// concatenated and split with no table or section awareness, so semantic
// chunking has something honest to be measured against.
type RecursiveChunker struct {
	splitter     *Splitter
	chunkSize    int
	chunkOverlap int
}

// NewRecursiveChunker builds a recursive chunker with the given window
// parameters.
func NewRecursiveChunker(chunkSize, chunkOverlap int) (*RecursiveChunker, error) {
	sp, err := NewSplitter(chunkSize, chunkOverlap)
	if err != nil {
		return nil, fmt.Errorf("recursive chunker: %w", err)
	}
	return &RecursiveChunker{splitter: sp, chunkSize: chunkSize, chunkOverlap: chunkOverlap}, nil
}

// ChunkElements joins every non-blank element text with blank lines and
// applies the splitter once over the whole document. The first non-blank
// element's page number is kept as the shared base metadata.
func (c *RecursiveChunker) ChunkElements(elements []Element) []Chunk {
	var parts []string
	basePage := 0
	for _, el := range elements {
		if strings.TrimSpace(el.Text) == "" {
			continue
		}
		if len(parts) == 0 {
			basePage = el.PageNumber
		}
		parts = append(parts, el.Text)
	}

	var chunks []Chunk
	for _, window := range c.splitter.Split(strings.Join(parts, "\n\n")) {
		chunks = append(chunks, Chunk{
			Content: window,
			Metadata: Metadata{
				ChunkingType: ChunkingRecursive,
				PageNumber:   basePage,
				ChunkSize:    c.chunkSize,
				ChunkOverlap: c.chunkOverlap,
			},
		})
	}
	return chunks
}
