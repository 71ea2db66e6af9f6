package segment

import (
	"strings"
	"unicode"

	"github.com/dgallion1/papersect/internal/document"
	"github.com/dgallion1/papersect/internal/rules"
)

// Introduction locates the line holding the abstract's first sentence, finds
// the introduction heading after it and collects lines until a stop rule
// fires. Without a heading the text is empty and End is the abstract line.
func (s *Segmenter) Introduction(doc *document.Document, abstract string) document.SectionResult {
	start := s.locateAbstract(doc, abstract)
	n := doc.Len()

	var parts []string
	inIntro := false
	i := start
	for ; i < n; i++ {
		line := doc.Trimmed(i)

		if !inIntro {
			if s.isIntroHeading(line) || s.looksLikeIntroHeading(line) {
				inIntro = true
			}
			continue
		}

		if line == "" {
			continue
		}
		action := s.introAction(doc, i)
		if action == rules.ActionStop {
			break
		}
		if action == rules.ActionSkip {
			continue
		}
		parts = append(parts, line)
		if action == rules.ActionIncludeStop {
			i++
			break
		}
	}

	if !inIntro {
		return document.SectionResult{End: start}
	}
	return document.SectionResult{
		Text:  strings.Join(parts, " "),
		End:   i,
		Found: true,
	}
}

// locateAbstract returns the first line holding the abstract's opening
// sentence, or 0 when it cannot be found.
func (s *Segmenter) locateAbstract(doc *document.Document, abstract string) document.Position {
	needle := NormalizeLine(firstSentence(abstract))
	if needle == "" {
		return 0
	}
	strip := s.rules.Abstract.Strip.Regexp()
	for i := document.Position(0); i < doc.Len(); i++ {
		line := NormalizeLine(doc.Lines[i])
		if line == "" {
			continue
		}
		if strings.Contains(line, needle) {
			return i
		}
		// A wrapped first sentence: the line is only its beginning.
		if s.isAbstractAnchor(line) {
			line = strings.TrimSpace(strip.ReplaceAllString(line, ""))
		}
		if line != "" && strings.HasPrefix(needle, line) && len(line) >= minPrefixLen(needle) {
			return i
		}
	}
	return 0
}

// minPrefixLen keeps one-word lines (a lone "A", "The") from matching
// every sentence that starts with them.
func minPrefixLen(needle string) int {
	if len(needle) < 16 {
		return len(needle)
	}
	return 16
}

// looksLikeIntroHeading is the loose fallback for headings the strict
// pattern misses, such as "I.Introduction" or "1.INTRODUCTION:".
func (s *Segmenter) looksLikeIntroHeading(line string) bool {
	ir := s.rules.Introduction
	if line == "" || len([]rune(line)) > ir.LooseMaxLength {
		return false
	}
	rest := strings.TrimLeftFunc(line, func(r rune) bool {
		return unicode.IsDigit(r) || unicode.IsSpace(r) || r == '.' || r == 'I' || r == 'i'
	})
	rest = strings.ToLower(strings.Join(strings.Fields(rest), ""))
	// Stripping 'I' also eats the first letter of "Introduction".
	return strings.Contains(rest, "introduction") || strings.HasPrefix(rest, "ntroduction")
}

// introAction evaluates the introduction stop rules on line p in order and
// returns the action of the first one that fires, or "" to keep the line.
func (s *Segmenter) introAction(doc *document.Document, p document.Position) rules.Action {
	line := doc.Trimmed(p)
	for i := range s.rules.Introduction.Stops {
		r := &s.rules.Introduction.Stops[i]
		var fired bool
		if r.Builtin != "" {
			fired = s.builtin(r.Builtin, doc, p)
		} else {
			fired = r.MatchString(line)
		}
		if fired {
			return r.Action
		}
	}
	return ""
}

func (s *Segmenter) builtin(name string, doc *document.Document, p document.Position) bool {
	ir := s.rules.Introduction
	line := doc.Trimmed(p)

	switch name {
	case "section-number-gap":
		// "2" / blank / "Related Work": a heading split over lines.
		return p+2 < doc.Len() &&
			ir.SectionNumber.MatchString(line) &&
			doc.Blank(p+1) &&
			ir.CapitalizedLine.MatchString(doc.Trimmed(p+2))

	case "shouted-title":
		title := strings.TrimLeft(line, "0123456789. ")
		ratio, count := uppercaseRatio(title)
		return count > ir.UppercaseMinLength && ratio > ir.UppercaseRatio

	case "paragraph-end":
		return strings.HasSuffix(line, ".") && doc.Blank(p+1) && p+1 < doc.Len()
	}
	return false
}
