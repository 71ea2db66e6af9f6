package parser

import (
	"bytes"
	"io"

	"github.com/dgallion1/papersect/internal/document"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark. Headings,
// paragraphs and code blocks become blocks; lists and quotes are walked
// into their children.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*document.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(src))

	var b lineBuilder
	var walk func(ast.Node)
	walk = func(n ast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch c.Kind() {
			case ast.KindHeading, ast.KindParagraph, ast.KindTextBlock:
				b.block(inlineText(c, src))
			case ast.KindCodeBlock, ast.KindFencedCodeBlock, ast.KindHTMLBlock:
				b.block(blockLines(c, src))
			case ast.KindThematicBreak:
			default:
				walk(c)
			}
		}
	}
	walk(root)

	return b.document(filename), nil
}

// inlineText gets the text of a block's inline children, keeping the
// source line breaks.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			buf.Write(node.Segment.Value(src))
			if node.HardLineBreak() || node.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.String:
			buf.Write(node.Value)
		default:
			// Recurse for nested inlines (emphasis, links, code spans).
			buf.WriteString(inlineText(c, src))
		}
	}
	return buf.String()
}

// blockLines returns the raw source lines of a literal block.
func blockLines(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(src))
	}
	return buf.String()
}
