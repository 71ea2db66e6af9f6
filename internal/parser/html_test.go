package parser

import (
	"strings"
	"testing"
)

func TestHTMLParser_Blocks(t *testing.T) {
	input := `<html><head><title>A Study Of Widgets</title><style>p{}</style></head>
<body>
<nav>skip me</nav>
<h1>A Study Of Widgets</h1>
<p>John   Smith,
   Jane Doe</p>
<h2>Abstract</h2>
<p>We study widgets.<br>Second line.</p>
<script>var x = 1;</script>
<ul><li>one</li><li>two</li></ul>
</body></html>`

	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader(input), "paper.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		"A Study Of Widgets", "",
		"John Smith, Jane Doe", "",
		"Abstract", "",
		"We study widgets. Second line.", "",
		"one", "",
		"two",
	}
	assertLines(t, doc.Lines, want)
}

func TestHTMLParser_TitleLeadsWhenMissingFromBody(t *testing.T) {
	input := `<html><head><title>Widgets</title></head><body><p>Body text.</p></body></html>`
	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader(input), "paper.htm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertLines(t, doc.Lines, []string{"Widgets", "", "Body text."})
}

func TestHTMLParser_PreKeepsLines(t *testing.T) {
	input := "<body><pre>line one\nline two</pre></body>"
	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader(input), "pre.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertLines(t, doc.Lines, []string{"line one", "line two"})
}
