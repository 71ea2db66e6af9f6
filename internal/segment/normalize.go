package segment

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// NormalizeLine cleans a converted line for pattern matching: control and
// format characters (form feeds, zero-width marks, soft hyphens, BOMs)
// removed, whitespace runs collapsed to one space, NFC composition, and
// letter-spaced words ("D I S C U S S I O N") glued back together.
// NormalizeLine is idempotent.
func NormalizeLine(s string) string {
	// Composition runs after stripping: a soft hyphen between a letter and
	// its combining accent would otherwise block it.
	s = norm.NFC.String(stripControls(s))
	// Gluing letters can form new composable pairs.
	return norm.NFC.String(mergeSpacedLetters(s))
}

// stripControls drops control, format and invalid runes and collapses
// whitespace runs to one space, trimming both ends.
func stripControls(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			pendingSpace = true
			continue
		}
		if unicode.In(r, unicode.Cc, unicode.Cf) || r == utf8.RuneError {
			continue
		}
		if pendingSpace && b.Len() > 0 {
			b.WriteByte(' ')
		}
		pendingSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// mergeSpacedLetters joins runs of three or more single-letter tokens.
// Input must already be single-space separated.
func mergeSpacedLetters(s string) string {
	if s == "" {
		return s
	}
	tokens := strings.Split(s, " ")
	out := make([]string, 0, len(tokens))
	for i := 0; i < len(tokens); {
		j := i
		for j < len(tokens) && isSingleLetter(tokens[j]) {
			j++
		}
		switch {
		case j-i >= 3:
			out = append(out, strings.Join(tokens[i:j], ""))
			i = j
		case j > i:
			out = append(out, tokens[i:j]...)
			i = j
		default:
			out = append(out, tokens[i])
			i++
		}
	}
	return strings.Join(out, " ")
}

func isSingleLetter(tok string) bool {
	r, size := utf8.DecodeRuneInString(tok)
	return size == len(tok) && size > 0 && unicode.IsLetter(r)
}

// LettersOnly is NormalizeLine with every rune that is neither a letter nor
// a space removed: "5.1 Concluding remarks" becomes "Concluding remarks".
func LettersOnly(s string) string {
	s = NormalizeLine(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || r == ' ' {
			b.WriteRune(r)
		}
	}
	return collapseSpaces(b.String())
}

// collapseSpaces reduces every whitespace run to a single space and trims.
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// firstSentence returns text up to and including the first '.', '!' or '?'
// that is followed by a space, or all of text when there is none.
func firstSentence(text string) string {
	text = strings.TrimSpace(text)
	for i, r := range text {
		if (r == '.' || r == '!' || r == '?') && i+1 < len(text) && text[i+1] == ' ' {
			return text[:i+1]
		}
	}
	return text
}

// endsSentence reports whether s ends with sentence-final punctuation.
func endsSentence(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasSuffix(s, ".") || strings.HasSuffix(s, "!") || strings.HasSuffix(s, "?")
}

// startsSentence reports whether s opens with an upper-case letter or a digit.
func startsSentence(s string) bool {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(s))
	return unicode.IsUpper(r) || unicode.IsDigit(r)
}

// uppercaseRatio is the share of upper-case letters among the non-space
// runes of s, together with that non-space rune count.
func uppercaseRatio(s string) (float64, int) {
	total, upper := 0, 0
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsUpper(r) {
			upper++
		}
	}
	if total == 0 {
		return 0, 0
	}
	return float64(upper) / float64(total), total
}
