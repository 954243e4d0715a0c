package extract

import (
	"context"
	"fmt"
	"html"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"chunklab/internal/chunking"
)

// MarkdownExtractor parses markdown using goldmark AST parsing. Headings,
// paragraphs, and list items become text elements; GFM tables are rebuilt
// as HTML so they flow through the same table decomposition as HTML input.
type MarkdownExtractor struct {
	parser goldmark.Markdown
}

// NewMarkdownExtractor creates a new markdown extractor.
func NewMarkdownExtractor() *MarkdownExtractor {
	return &MarkdownExtractor{
		parser: goldmark.New(
			goldmark.WithExtensions(extension.Table),
		),
	}
}

// Extract parses the markdown file at path.
func (e *MarkdownExtractor) Extract(_ context.Context, path string) ([]chunking.Element, string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read markdown file: %w", err)
	}
	return e.ExtractBytes(content), "markdown", nil
}

// ExtractBytes parses markdown content already in memory.
func (e *MarkdownExtractor) ExtractBytes(content []byte) []chunking.Element {
	reader := text.NewReader(content)
	doc := e.parser.Parser().Parse(reader)

	var elements []chunking.Element
	pos := 0
	add := func(el chunking.Element) {
		el.Position = float64(pos)
		pos++
		elements = append(elements, el)
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			if txt := nodeMarkdownText(node, content); txt != "" {
				add(chunking.Element{Kind: chunking.KindTitle, Text: txt})
			}
			return ast.WalkSkipChildren, nil

		case *ast.ListItem:
			if txt := nodeMarkdownText(node, content); txt != "" {
				add(chunking.Element{Kind: chunking.KindListItem, Text: txt})
			}
			return ast.WalkSkipChildren, nil

		case *ast.Paragraph:
			if txt := nodeMarkdownText(node, content); txt != "" {
				add(chunking.Element{Kind: chunking.KindNarrativeText, Text: txt})
			}
			return ast.WalkSkipChildren, nil

		case *ast.FencedCodeBlock:
			if txt := codeBlockText(node.Lines(), content); txt != "" {
				add(chunking.Element{Kind: chunking.KindNarrativeText, Text: txt})
			}
			return ast.WalkSkipChildren, nil

		case *ast.CodeBlock:
			if txt := codeBlockText(node.Lines(), content); txt != "" {
				add(chunking.Element{Kind: chunking.KindNarrativeText, Text: txt})
			}
			return ast.WalkSkipChildren, nil

		case *east.Table:
			add(chunking.Element{
				Kind: chunking.KindTable,
				Text: nodeMarkdownText(node, content),
				HTML: tableToHTML(node, content),
			})
			return ast.WalkSkipChildren, nil
		}

		return ast.WalkContinue, nil
	})

	return elements
}

// tableToHTML rebuilds a GFM table as minimal HTML markup.
func tableToHTML(table *east.Table, content []byte) string {
	var b strings.Builder
	b.WriteString("<table>")
	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		cellTag := "td"
		if _, ok := row.(*east.TableHeader); ok {
			cellTag = "th"
		}
		b.WriteString("<tr>")
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			b.WriteString("<" + cellTag + ">")
			b.WriteString(html.EscapeString(nodeMarkdownText(cell, content)))
			b.WriteString("</" + cellTag + ">")
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</table>")
	return b.String()
}

// nodeMarkdownText collects the plain text beneath a node.
func nodeMarkdownText(n ast.Node, content []byte) string {
	var textBuilder strings.Builder

	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch v := node.(type) {
		case *ast.Text:
			segment := v.Segment
			textBuilder.Write(segment.Value(content))
			if v.SoftLineBreak() || v.HardLineBreak() {
				textBuilder.WriteByte(' ')
			}
		case *ast.String:
			textBuilder.Write(v.Value)
		case *east.TableCell:
			if textBuilder.Len() > 0 {
				textBuilder.WriteByte(' ')
			}
		}
		return ast.WalkContinue, nil
	})

	return strings.Join(strings.Fields(textBuilder.String()), " ")
}

func codeBlockText(lines *text.Segments, content []byte) string {
	var b strings.Builder
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		b.Write(line.Value(content))
	}
	return strings.TrimSpace(b.String())
}
