package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/papersect/internal/document"
)

// Parser converts raw document bytes into the line sequence the segmenter
// reads. Structured formats are flattened: every heading and paragraph
// becomes its own block of lines, blocks separated by one blank line.
type Parser interface {
	Parse(r io.Reader, filename string) (*document.Document, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// Options tunes parsers that shell out or need extra behavior.
type Options struct {
	FallbackPdftotext bool // Retry failed PDF extraction with pdftotext -layout.
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, opts Options) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{FallbackPdftotext: opts.FallbackPdftotext}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// lineBuilder collects text blocks into document lines.
type lineBuilder struct {
	lines []string
}

// block appends text as one block, one line per newline, preceded by a
// blank separator line when it is not the first block.
func (b *lineBuilder) block(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if len(b.lines) > 0 {
		b.lines = append(b.lines, "")
	}
	for _, line := range strings.Split(text, "\n") {
		b.lines = append(b.lines, strings.TrimRight(line, " \t\r"))
	}
}

func (b *lineBuilder) document(filename string) *document.Document {
	return &document.Document{Name: filepath.Base(filename), Lines: b.lines}
}
