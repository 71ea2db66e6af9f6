package parser

import (
	"fmt"
	"testing"
)

func TestForFile(t *testing.T) {
	tests := []struct {
		filename string
		wantType string
	}{
		{"a.txt", "*parser.TextParser"},
		{"a.TXT", "*parser.TextParser"},
		{"a.md", "*parser.MarkdownParser"},
		{"a.markdown", "*parser.MarkdownParser"},
		{"a.html", "*parser.HTMLParser"},
		{"a.htm", "*parser.HTMLParser"},
		{"a.pdf", "*parser.PDFParser"},
		{"a.docx", "*parser.DOCXParser"},
	}
	for _, tt := range tests {
		p, err := ForFile(tt.filename, Options{})
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.filename, err)
			continue
		}
		if got := fmt.Sprintf("%T", p); got != tt.wantType {
			t.Errorf("%s: expected %s, got %s", tt.filename, tt.wantType, got)
		}
	}

	if _, err := ForFile("a.csv", Options{}); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestForFile_PDFFallbackOption(t *testing.T) {
	p, err := ForFile("a.pdf", Options{FallbackPdftotext: true})
	if err != nil {
		t.Fatal(err)
	}
	if !p.(*PDFParser).FallbackPdftotext {
		t.Error("expected the pdftotext fallback to be enabled")
	}
}

func TestIsSupportedExtension(t *testing.T) {
	if !IsSupportedExtension("paper.PDF") {
		t.Error("expected .PDF to be supported")
	}
	if IsSupportedExtension("data.csv") {
		t.Error("expected .csv to be unsupported")
	}
}

func TestLineBuilder(t *testing.T) {
	var b lineBuilder
	b.block("  first  ")
	b.block("")
	b.block("two\nlines  ")
	doc := b.document("/x/y/z.docx")
	if doc.Name != "z.docx" {
		t.Errorf("expected name %q, got %q", "z.docx", doc.Name)
	}
	assertLines(t, doc.Lines, []string{"first", "", "two", "lines"})
}
