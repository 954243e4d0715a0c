package chunking

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// SemanticChunker implements structure-aware chunking: tables are decomposed
// into multi-view chunks while text elements are grouped into sections and
// split along natural boundaries.
type SemanticChunker struct {
	splitter *Splitter
}

// NewSemanticChunker builds a semantic chunker with the given window
// parameters.
func NewSemanticChunker(chunkSize, chunkOverlap int) (*SemanticChunker, error) {
	sp, err := NewSplitter(chunkSize, chunkOverlap)
	if err != nil {
		return nil, fmt.Errorf("semantic chunker: %w", err)
	}
	return &SemanticChunker{splitter: sp}, nil
}

// ChunkElements chunks parsed elements. Tables are decomposed and rendered
// through every applicable view; the remaining elements are grouped into
// sections and split. The output order is canonical: all table chunks
// first, then text chunks.
func (c *SemanticChunker) ChunkElements(elements []Element) []Chunk {
	var tables, texts []Element
	for _, el := range elements {
		if el.Kind == KindTable {
			tables = append(tables, el)
		} else {
			texts = append(texts, el)
		}
	}

	var chunks []Chunk
	ordinals := make(map[int]int)
	for _, el := range tables {
		t := DecomposeElement(el)
		ordinals[el.PageNumber]++
		base := Metadata{
			ChunkingType: ChunkingSemantic,
			Type:         ChunkTypeTable,
			TableID:      fmt.Sprintf("table_%d_%d", el.PageNumber, ordinals[el.PageNumber]),
			PageNumber:   el.PageNumber,
			Error:        t.Err,
		}
		chunks = append(chunks, GenerateTableChunks(t, base)...)
	}

	for i, sec := range GroupSections(texts) {
		for _, window := range c.splitter.Split(sec.Content) {
			chunks = append(chunks, Chunk{
				Content: window,
				Metadata: Metadata{
					ChunkingType: ChunkingSemantic,
					Type:         ChunkTypeText,
					SectionTitle: sec.Title,
					SectionIndex: i,
					PageNumber:   sec.Page,
				},
			})
		}
	}
	return chunks
}

// ChunkHTML chunks raw HTML directly, without a prior extraction pass:
// table elements feed the decomposer and h1..h6, p, and li elements feed
// section grouping. Elements keep document order.
func (c *SemanticChunker) ChunkHTML(content string) []Chunk {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return nil
	}

	var elements []Element
	pos := 0
	add := func(el Element) {
		el.Position = float64(pos)
		pos++
		elements = append(elements, el)
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "table":
				var buf bytes.Buffer
				if err := html.Render(&buf, n); err == nil {
					add(Element{Kind: KindTable, Text: textContent(n), HTML: buf.String()})
				}
			case "h1", "h2", "h3", "h4", "h5", "h6":
				if txt := textContent(n); txt != "" {
					add(Element{Kind: KindTitle, Text: txt})
				}
			case "p":
				if txt := textContent(n); txt != "" {
					add(Element{Kind: KindNarrativeText, Text: txt})
				}
			case "li":
				if txt := textContent(n); txt != "" {
					add(Element{Kind: KindListItem, Text: txt})
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	return c.ChunkElements(elements)
}
