package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"chunklab/internal/chunking"
	"chunklab/internal/service"
)

// Extractor converts a document file into typed elements ready for chunking.
type Extractor interface {
	// Extract parses the file at path and returns its elements together with
	// the name of the strategy that produced them.
	Extract(ctx context.Context, path string) ([]chunking.Element, string, error)
}

// SupportedExtensions lists the file extensions the extractors can handle.
var SupportedExtensions = map[string]bool{
	".pdf":      true,
	".html":     true,
	".htm":      true,
	".md":       true,
	".markdown": true,
}

// ForFile returns the extractor for a filename.
func ForFile(filename string) (Extractor, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return &PDFExtractor{FallbackPdftotext: true}, nil
	case ".html", ".htm":
		return &HTMLExtractor{}, nil
	case ".md", ".markdown":
		return NewMarkdownExtractor(), nil
	default:
		return nil, fmt.Errorf("unsupported file extension %q: %w", ext, service.ErrInvalidInput)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}
