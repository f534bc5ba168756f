// Package loaders turns files on disk into plain text for chunking.
package loaders

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
)

// Extractor produces the textual content of a file, handling paginated PDF
// documents and plain text uniformly.
type Extractor struct{}

// NewExtractor creates an Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the text content of the file at path. It fails only when
// the file itself cannot be opened; a page that yields no text or a byte
// sequence that does not decode never aborts the document.
func (e *Extractor) Extract(path string) (string, error) {
	if e.isPDF(path) {
		return e.extractPDF(path)
	}
	return e.extractText(path)
}

// isPDF sniffs the file content, falling back to the extension when the file
// cannot be read for detection.
func (e *Extractor) isPDF(path string) bool {
	if mtype, err := mimetype.DetectFile(path); err == nil {
		return mtype.Is("application/pdf")
	}
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// extractPDF pulls the plain text of every page in order. An unextractable
// page contributes an empty string; pages are joined with a newline.
func (e *Extractor) extractPDF(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf %s: %w", path, err)
	}
	defer f.Close()

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			text = ""
		}
		pages = append(pages, text)
	}

	return strings.Join(pages, "\n"), nil
}

// extractText reads the file as text, dropping undecodable byte sequences.
func (e *Extractor) extractText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return strings.ToValidUTF8(string(data), ""), nil
}
