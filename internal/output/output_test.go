package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/papersect/internal/document"
)

func sampleRecords() []document.Record {
	return []document.Record{
		{
			Filename:     "widget_paper.txt",
			Title:        "A Study Of Widgets",
			Authors:      "Jane Doe",
			Abstract:     "We study widgets & gadgets.",
			Introduction: "Widgets matter.",
			Conclusion:   "Done.",
			Discussion:   document.NoDiscussion,
			Bibliography: "[1] x",
		},
		{Filename: "b.txt", Title: "B"},
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
		ok   bool
	}{
		{"xml", ModeXML, true},
		{"XML", ModeXML, true},
		{"Txt", ModeText, true},
		{"pdf", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("ParseMode(%q): unexpected error state %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestWriteXML(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXML(&buf, sampleRecords()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "<articles>\n") || !strings.HasSuffix(out, "</articles>\n") {
		t.Errorf("expected <articles> root, got %q", out)
	}
	if n := strings.Count(out, "<article>"); n != 2 {
		t.Errorf("expected 2 articles, got %d", n)
	}
	for _, want := range []string{
		"\t\t<preamble>widget_paper.txt</preamble>\n",
		"\t\t<titre>A Study Of Widgets</titre>\n",
		"\t\t<auteur>Jane Doe</auteur>\n",
		"\t\t<abstract>We study widgets & gadgets.</abstract>\n",
		"\t\t<corps></corps>\n",
		"\t\t<discussion>no discussion found</discussion>\n",
		"\t\t<biblio>[1] x</biblio>\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
	tags := []string{"<preamble>", "<titre>", "<auteur>", "<abstract>", "<introduction>", "<corps>", "<conclusion>", "<discussion>", "<biblio>"}
	last := -1
	for _, tag := range tags {
		idx := strings.Index(out, tag)
		if idx <= last {
			t.Errorf("expected %s after previous tag", tag)
		}
		last = idx
	}
}

func TestWriteXML_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXML(&buf, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := buf.String(); got != "<articles>\n</articles>\n" {
		t.Errorf("expected empty root, got %q", got)
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteText(&buf, sampleRecords(), 1500*time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if n := strings.Count(out, separator); n != 3 {
		t.Errorf("expected 3 separators, got %d", n)
	}
	if !strings.HasSuffix(out, "Processing finished in 1500 ms\n") {
		t.Errorf("expected elapsed line last, got %q", out)
	}
	// 27 + 15 + 5 + len("no discussion found")
	if !strings.Contains(out, "Text length  : 66 characters") {
		t.Errorf("expected text length line, got %q", out)
	}
	labels := []string{"File ", "Title ", "Authors ", "Abstract ", "Introduction ", "Body ", "Discussion ", "Conclusion ", "References ", "Text length "}
	last := -1
	for _, l := range labels {
		idx := strings.Index(out, l)
		if idx <= last {
			t.Errorf("expected label %q after previous label", l)
		}
		last = idx
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "[]" {
		t.Errorf("expected empty array, got %q", got)
	}

	buf.Reset()
	if err := WriteJSON(&buf, sampleRecords()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var back []document.Record
	if err := json.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(back) != 2 || back[0].Title != "A Study Of Widgets" {
		t.Errorf("unexpected records %+v", back)
	}
}

func TestWriteFile_CreatesFolder(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	path, err := WriteFile(dir, ModeXML, sampleRecords(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(path) != "articles.xml" {
		t.Errorf("expected articles.xml, got %q", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %v", err)
	}

	path, err = WriteFile(dir, ModeText, nil, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(path) != "resumes.txt" {
		t.Errorf("expected resumes.txt, got %q", path)
	}
}
