package upload

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"chunklab/internal/extract"
	"chunklab/internal/service"
)

// DefaultMaxBytes caps uploaded file size when no limit is configured.
const DefaultMaxBytes = 16 << 20 // 16 MiB

// SavedFile describes a stored upload.
type SavedFile struct {
	Name        string // Sanitized filename
	Path        string // Full path under the upload directory
	SizeBytes   int64
	ContentHash string // SHA256 hex string of the stored content
}

// Store saves uploaded documents under a single directory with sanitized
// filenames.
type Store struct {
	dir      string
	maxBytes int64
}

// NewStore creates the upload directory if needed and returns a Store.
// A non-positive maxBytes falls back to DefaultMaxBytes.
func NewStore(dir string, maxBytes int64) (*Store, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Store{dir: dir, maxBytes: maxBytes}, nil
}

// Dir returns the upload directory.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes the uploaded content under a sanitized version of filename.
// The extension must be a supported document type and the content must not
// exceed the configured size cap. Validation failures wrap
// service.ErrInvalidInput so callers can map them to client errors.
func (s *Store) Save(filename string, r io.Reader) (*SavedFile, error) {
	name := SanitizeFilename(filename)
	if name == "" {
		return nil, fmt.Errorf("invalid filename %q: %w", filename, service.ErrInvalidInput)
	}
	if !extract.IsSupportedExtension(name) {
		return nil, fmt.Errorf("unsupported file type %q (allowed: %s): %w",
			strings.ToLower(filepath.Ext(name)), supportedList(), service.ErrInvalidInput)
	}

	path := filepath.Join(s.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload file: %w", err)
	}

	hasher := sha256.New()
	// Read one byte past the cap so an over-limit upload is detectable
	written, err := io.Copy(io.MultiWriter(f, hasher), io.LimitReader(r, s.maxBytes+1))
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("failed to write upload file: %w", err)
	}
	if written > s.maxBytes {
		_ = os.Remove(path)
		return nil, fmt.Errorf("file exceeds maximum upload size of %d bytes: %w", s.maxBytes, service.ErrInvalidInput)
	}

	return &SavedFile{
		Name:        name,
		Path:        path,
		SizeBytes:   written,
		ContentHash: hex.EncodeToString(hasher.Sum(nil)),
	}, nil
}

// SanitizeFilename strips any directory components and replaces characters
// outside [A-Za-z0-9._-] with underscores. Returns "" when nothing usable
// remains.
func SanitizeFilename(filename string) string {
	name := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == ".." || name == "/" {
		return ""
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	cleaned := b.String()
	if strings.Trim(cleaned, "._") == "" {
		return ""
	}
	return cleaned
}

func supportedList() string {
	exts := make([]string, 0, len(extract.SupportedExtensions))
	for ext := range extract.SupportedExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return strings.Join(exts, ", ")
}
