package parser

import (
	"strings"
	"testing"
)

func TestMarkdownParser_HeadingsBecomeLines(t *testing.T) {
	input := `# Title

Intro text.

## Section A

Section A content.

### Subsection A1

Subsection A1 content.

## Section B

Section B content.
`
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Name != "doc.md" {
		t.Errorf("expected name %q, got %q", "doc.md", doc.Name)
	}
	want := []string{
		"Title", "",
		"Intro text.", "",
		"Section A", "",
		"Section A content.", "",
		"Subsection A1", "",
		"Subsection A1 content.", "",
		"Section B", "",
		"Section B content.",
	}
	assertLines(t, doc.Lines, want)
}

func TestMarkdownParser_SoftBreaksAndInlines(t *testing.T) {
	input := "First line with *emphasis* here\nsecond line with `code` too.\n\n- item one\n- item two\n"

	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "plain.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"First line with emphasis here",
		"second line with code too.",
		"",
		"item one",
		"",
		"item two",
	}
	assertLines(t, doc.Lines, want)
}

func TestMarkdownParser_CodeBlocks(t *testing.T) {
	input := "# API Reference\n\nList of endpoints:\n\n```\nGET /api/users\nPOST /api/users\n```\n\nMore text after code.\n"

	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "api.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	joined := strings.Join(doc.Lines, "\n")
	if !strings.Contains(joined, "GET /api/users\nPOST /api/users") {
		t.Errorf("expected code block lines, got %q", joined)
	}
	if doc.Lines[len(doc.Lines)-1] != "More text after code." {
		t.Errorf("expected post-code text last, got %q", doc.Lines[len(doc.Lines)-1])
	}
}

func TestMarkdownParser_EmptyInput(t *testing.T) {
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(""), "empty.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Lines) != 0 {
		t.Errorf("expected 0 lines for empty input, got %d", len(doc.Lines))
	}
}

func assertLines(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d lines, got %d: %q", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}
