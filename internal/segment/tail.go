package segment

import (
	"strings"
	"unicode"

	"github.com/dgallion1/papersect/internal/document"
	"github.com/dgallion1/papersect/internal/rules"
)

// Body returns the lines from start up to, but not including, the first
// terminal section header. End is that header's line, so later stages see it.
func (s *Segmenter) Body(doc *document.Document, start document.Position) document.SectionResult {
	start = doc.Clamp(start)
	end := doc.Len()
	for i := start; i < end; i++ {
		if s.rules.Body.Terminal.MatchString(NormalizeLine(doc.Lines[i])) {
			end = i
			break
		}
	}
	text := doc.Join(start, end, "\n")
	return document.SectionResult{Text: text, End: end, Found: text != ""}
}

// Conclusion returns the text under the first conclusion header at or after
// start, up to the references or acknowledgements header.
func (s *Segmenter) Conclusion(doc *document.Document, start document.Position) document.SectionResult {
	return span(doc, start, s.rules.Conclusion)
}

// Discussion returns the text under the first line mentioning a discussion
// at or after start. It does not depend on Conclusion.
func (s *Segmenter) Discussion(doc *document.Document, start document.Position) document.SectionResult {
	return span(doc, start, s.rules.Discussion)
}

func span(doc *document.Document, start document.Position, sr rules.SpanRules) document.SectionResult {
	start = doc.Clamp(start)
	n := doc.Len()

	header := document.Position(-1)
	for i := start; i < n; i++ {
		if matchForms(&sr.Start, doc.Lines[i]) {
			header = i
			break
		}
	}
	if header < 0 {
		return document.SectionResult{End: start}
	}

	end := n
	for i := header + 1; i < n; i++ {
		if matchForms(&sr.End, doc.Lines[i]) {
			end = i
			break
		}
	}
	return document.SectionResult{
		Text:  doc.Join(header+1, end, "\n"),
		End:   end,
		Found: true,
	}
}

// matchForms tries r against the trimmed, normalized and letters-only forms
// of line, so "5.1 Concluding remarks" and "C O N C L U S I O N" both match.
func matchForms(r *rules.Rule, line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	return r.MatchString(trimmed) ||
		r.MatchString(NormalizeLine(trimmed)) ||
		r.MatchString(LettersOnly(trimmed))
}

// Bibliography returns everything after the first references header.
func (s *Segmenter) Bibliography(doc *document.Document) document.SectionResult {
	br := s.rules.Bibliography
	headers := make(map[string]bool, len(br.Headers))
	for _, h := range br.Headers {
		headers[headerKey(h, false)] = true
	}

	n := doc.Len()
	for i := document.Position(0); i < n; i++ {
		if headers[headerKey(doc.Lines[i], br.StripNumbering)] {
			text := doc.Join(i+1, n, "\n")
			return document.SectionResult{Text: text, End: n, Found: true}
		}
	}
	return document.SectionResult{End: n}
}

// headerKey reduces a line to its lower-cased letters and digits, dropping
// leading section numbers when stripNumbering is set.
func headerKey(line string, stripNumbering bool) string {
	var b strings.Builder
	for _, r := range NormalizeLine(line) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	key := b.String()
	if stripNumbering {
		key = strings.TrimLeftFunc(key, unicode.IsDigit)
	}
	return key
}
