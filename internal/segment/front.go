package segment

import (
	"strings"

	"github.com/dgallion1/papersect/internal/document"
	"github.com/dgallion1/papersect/internal/rules"
)

// maxTitleLines bounds how many lines a title may span.
const maxTitleLines = 2

// Title returns the first line that is not front-matter noise, joined with
// one follow-on line when that line does not look like the author block or
// an abstract or introduction heading.
func (s *Segmenter) Title(doc *document.Document) (document.SectionResult, error) {
	tr := s.rules.Title
	n := doc.Len()

	seed := document.Position(-1)
	for i := document.Position(0); i < n; i++ {
		if !rules.AnyMatch(tr.Noise, doc.Trimmed(i)) {
			seed = i
			break
		}
	}
	if seed < 0 {
		return document.SectionResult{}, ErrTitleNotFound
	}

	parts := []string{doc.Trimmed(seed)}
	end := seed + 1
	for len(parts) < maxTitleLines && end < n {
		next := doc.Trimmed(end)
		if next == "" ||
			rules.AnyMatch(tr.Noise, next) ||
			rules.AnyMatch(tr.AuthorHints, next) ||
			s.isAbstractAnchor(next) ||
			s.isIntroHeading(next) {
			break
		}
		parts = append(parts, next)
		end++
	}

	return document.SectionResult{
		Text:  collapseSpaces(strings.Join(parts, " ")),
		End:   end,
		Found: true,
	}, nil
}

// Authors collects the lines between the title and the abstract. Scanning
// stops at an abstract anchor, an introduction heading, the first line that
// reads like running prose, or after the configured number of lines.
func (s *Segmenter) Authors(doc *document.Document, start document.Position) document.SectionResult {
	ar := s.rules.Authors
	n := doc.Len()

	var parts []string
	i := doc.Clamp(start)
	for ; i < n; i++ {
		line := doc.Trimmed(i)
		if line == "" {
			continue
		}
		if s.isAbstractAnchor(line) || s.isIntroHeading(line) {
			break
		}
		if len(parts) > 0 && ar.BodyLike.MatchString(line) {
			break
		}
		parts = append(parts, line)
		if len(parts) >= ar.MaxLines {
			i++
			break
		}
	}

	return document.SectionResult{
		Text:  collapseSpaces(strings.Join(parts, " ")),
		End:   i,
		Found: len(parts) > 0,
	}
}

// Abstract finds the abstract anchor and collects lines until the
// introduction heading. An inline abstract that already reads as a finished
// paragraph is closed on its own line, unless the heading is only a few lines
// away, in which case those lines are the abstract's continuation. Without an
// anchor, the first long line is taken instead.
func (s *Segmenter) Abstract(doc *document.Document) document.SectionResult {
	ar := s.rules.Abstract
	n := doc.Len()

	var parts []string
	inAbstract := false
	fallback := document.SectionResult{}
	end := n

scan:
	for i := document.Position(0); i < n; i++ {
		raw := doc.Trimmed(i)

		if !inAbstract {
			norm := NormalizeLine(raw)
			if ar.Anchor.MatchString(norm) {
				inAbstract = true
				rest := strings.TrimSpace(ar.Strip.Regexp().ReplaceAllString(norm, ""))
				if len(strings.Fields(rest)) >= ar.MinInlineWords {
					parts = append(parts, rest)
					if ar.CloseInlineSentence && endsSentence(rest) && s.nextStartsSentence(doc, i+1) &&
						!s.introHeadingWithin(doc, i+1, ar.CloseInlineWindow) {
						end = i + 1
						break scan
					}
				}
				continue
			}
			if !fallback.Found && len([]rune(raw)) > ar.FallbackMinLength && !s.isIntroHeading(raw) {
				fallback = document.SectionResult{Text: collapseSpaces(raw), End: i + 1, Found: true}
			}
			continue
		}

		if s.isIntroHeading(raw) {
			end = i
			break
		}
		if raw != "" {
			parts = append(parts, raw)
		}
	}

	if !inAbstract {
		if !fallback.Found {
			fallback.End = 0
		}
		return fallback
	}
	return document.SectionResult{
		Text:  collapseSpaces(strings.Join(parts, " ")),
		End:   end,
		Found: true,
	}
}

// nextStartsSentence reports whether the first non-blank line at or after p
// opens a new sentence. The end of the document counts as a new sentence.
func (s *Segmenter) nextStartsSentence(doc *document.Document, p document.Position) bool {
	for ; p < doc.Len(); p++ {
		if line := doc.Trimmed(p); line != "" {
			return startsSentence(line)
		}
	}
	return true
}

// introHeadingWithin reports whether an introduction heading is among the
// first window non-blank lines at or after p.
func (s *Segmenter) introHeadingWithin(doc *document.Document, p document.Position, window int) bool {
	for seen := 0; p < doc.Len() && seen < window; p++ {
		line := doc.Trimmed(p)
		if line == "" {
			continue
		}
		if s.isIntroHeading(line) {
			return true
		}
		seen++
	}
	return false
}
