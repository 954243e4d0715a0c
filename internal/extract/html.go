package extract

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/net/html"

	"chunklab/internal/chunking"
)

// HTMLExtractor parses HTML documents. Tables keep their raw markup so the
// table decomposer can rebuild their structure; headings, paragraphs, and
// list items become text elements in document order.
type HTMLExtractor struct{}

// Extract parses the HTML file at path.
func (e *HTMLExtractor) Extract(_ context.Context, path string) ([]chunking.Element, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open html file: %w", err)
	}
	defer f.Close()

	doc, err := html.Parse(f)
	if err != nil {
		return nil, "", fmt.Errorf("parse html: %w", err)
	}

	return ExtractHTMLElements(doc), "html", nil
}

// ExtractHTMLElements walks a parsed HTML tree and collects typed elements.
// The walk descends into every node, so a table nested inside another table
// is also emitted as its own element.
func ExtractHTMLElements(doc *html.Node) []chunking.Element {
	var elements []chunking.Element
	pos := 0
	add := func(el chunking.Element) {
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
					add(chunking.Element{
						Kind: chunking.KindTable,
						Text: nodeText(n),
						HTML: buf.String(),
					})
				}
			case "h1", "h2", "h3", "h4", "h5", "h6":
				if txt := nodeText(n); txt != "" {
					add(chunking.Element{Kind: chunking.KindTitle, Text: txt})
				}
			case "p":
				if txt := nodeText(n); txt != "" {
					add(chunking.Element{Kind: chunking.KindNarrativeText, Text: txt})
				}
			case "li":
				if txt := nodeText(n); txt != "" {
					add(chunking.Element{Kind: chunking.KindListItem, Text: txt})
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return elements
}

func nodeText(n *html.Node) string {
	var parts []string
	var collect func(*html.Node)
	collect = func(node *html.Node) {
		if node.Type == html.TextNode {
			parts = append(parts, node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}
