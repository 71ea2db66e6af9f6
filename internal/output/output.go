// Package output serializes segmented records.
package output

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/papersect/internal/document"
)

// Mode selects the report format.
type Mode string

const (
	ModeText Mode = "txt"
	ModeXML  Mode = "xml"
)

// ParseMode accepts a mode name in any letter case.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(s)); m {
	case ModeText, ModeXML:
		return m, nil
	default:
		return "", fmt.Errorf("invalid mode %q: use txt or xml", s)
	}
}

// FileName is the report file written for mode.
func (m Mode) FileName() string {
	if m == ModeXML {
		return "articles.xml"
	}
	return "resumes.txt"
}

const separator = "=============================="

// WriteXML writes records under an <articles> root. Field values are
// written verbatim, without XML escaping, so the file mirrors the text
// that was extracted.
func WriteXML(w io.Writer, records []document.Record) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "<articles>")
	for _, r := range records {
		fmt.Fprintln(bw, "\t<article>")
		for _, f := range []struct{ tag, value string }{
			{"preamble", r.Filename},
			{"titre", r.Title},
			{"auteur", r.Authors},
			{"abstract", r.Abstract},
			{"introduction", r.Introduction},
			{"corps", r.Body},
			{"conclusion", r.Conclusion},
			{"discussion", r.Discussion},
			{"biblio", r.Bibliography},
		} {
			fmt.Fprintf(bw, "\t\t<%s>%s</%s>\n", f.tag, f.value, f.tag)
		}
		fmt.Fprintln(bw, "\t</article>")
	}
	fmt.Fprintln(bw, "</articles>")
	return bw.Flush()
}

// WriteText writes one labeled block per record followed by the total
// processing time.
func WriteText(w io.Writer, records []document.Record, elapsed time.Duration) error {
	bw := bufio.NewWriter(w)
	for _, r := range records {
		fmt.Fprintln(bw, separator)
		fmt.Fprintf(bw, "File         : %s\n", r.Filename)
		fmt.Fprintf(bw, "Title        : %s\n", r.Title)
		fmt.Fprintf(bw, "Authors      : %s\n", r.Authors)
		fmt.Fprintf(bw, "Abstract     : %s\n", r.Abstract)
		fmt.Fprintf(bw, "Introduction : %s\n", r.Introduction)
		fmt.Fprintf(bw, "Body         : %s\n", r.Body)
		fmt.Fprintf(bw, "Discussion   : %s\n", r.Discussion)
		fmt.Fprintf(bw, "Conclusion   : %s\n", r.Conclusion)
		fmt.Fprintf(bw, "References   : %s\n", r.Bibliography)
		fmt.Fprintf(bw, "Text length  : %d characters\n\n", r.TextLength())
	}
	fmt.Fprintln(bw, separator)
	fmt.Fprintf(bw, "Processing finished in %d ms\n", elapsed.Milliseconds())
	return bw.Flush()
}

// WriteJSON writes records as an indented JSON array.
func WriteJSON(w io.Writer, records []document.Record) error {
	if records == nil {
		records = []document.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// WriteFile creates dir if needed and writes the report for mode into it.
// It returns the path written.
func WriteFile(dir string, mode Mode, records []document.Record, elapsed time.Duration) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output folder: %w", err)
	}
	path := filepath.Join(dir, mode.FileName())
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}

	switch mode {
	case ModeXML:
		err = WriteXML(f, records)
	default:
		err = WriteText(f, records, elapsed)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
