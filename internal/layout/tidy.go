package layout

import (
	"regexp"
	"strings"
)

var (
	blankRunRe = regexp.MustCompile(`\n{2,}`)
	spaceRunRe = regexp.MustCompile(` {2,}`)
)

// sectionNames are the headings MarkSections upper-cases.
var sectionNames = []string{
	"abstract",
	"introduction",
	"state of the art",
	"méthode",
	"method",
	"experiments",
	"results",
	"discussion",
	"conclusion",
	"references",
	"bibliography",
}

var sectionLineRe = regexp.MustCompile(`^\s*(` + strings.Join(sectionNames, "|") + `)[ .:–-]*$`)

// Tidy collapses runs of blank lines to a single blank line and runs of
// spaces to one space, then trims the text.
func Tidy(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = blankRunRe.ReplaceAllString(text, "\n\n")
	text = spaceRunRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// MarkSections trims every line and upper-cases the ones that consist of a
// well-known section name alone ("Conclusion:" becomes "CONCLUSION:").
func MarkSections(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		l := strings.TrimSpace(line)
		if sectionLineRe.MatchString(strings.ToLower(l)) {
			l = strings.ToUpper(l)
		}
		out[i] = l
	}
	return out
}
