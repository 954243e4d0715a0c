package extract

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"chunklab/internal/chunking"
)

// PDFExtractor extracts text from PDF files. It tries the Go library first
// and falls back to the pdftotext binary when the library cannot read the
// file. Each page becomes one narrative element carrying its page number.
type PDFExtractor struct {
	FallbackPdftotext bool
}

// Extract reads the PDF at path and returns one element per non-empty page.
// The returned strategy names which of the two readers produced the text.
func (e *PDFExtractor) Extract(ctx context.Context, path string) ([]chunking.Element, string, error) {
	pages, err := extractPDFPages(path)
	strategy := "pdf"
	if err != nil && e.FallbackPdftotext {
		pages, err = extractPdftotextPages(ctx, path)
		strategy = "pdftotext"
	}
	if err != nil {
		return nil, "", fmt.Errorf("extract pdf text: %w", err)
	}

	var elements []chunking.Element
	for i, page := range pages {
		page = strings.TrimSpace(page)
		if page == "" {
			continue
		}
		elements = append(elements, chunking.Element{
			Kind:       chunking.KindNarrativeText,
			Text:       page,
			PageNumber: i + 1,
		})
	}
	return elements, strategy, nil
}

func extractPDFPages(path string) ([]string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var pages []string
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}
	return pages, nil
}

func extractPdftotextPages(ctx context.Context, path string) ([]string, error) {
	cmd := exec.CommandContext(ctx, "pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}
	// pdftotext separates pages with form feeds.
	return strings.Split(string(out), "\f"), nil
}
