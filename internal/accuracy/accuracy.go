// Package accuracy scores a generated articles.xml against a hand-labeled
// reference file.
package accuracy

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/dgallion1/papersect/internal/document"
)

// Sections in report order, by XML tag.
var Sections = []string{"titre", "auteur", "abstract", "introduction", "corps", "conclusion", "discussion", "biblio"}

var allowedTags = map[string]bool{
	"articles": true, "article": true, "preamble": true,
	"titre": true, "auteur": true, "abstract": true, "introduction": true,
	"corps": true, "conclusion": true, "discussion": true, "biblio": true,
}

var (
	anyTagRe   = regexp.MustCompile(`<(/?)([A-Za-z0-9]+)[^>]*>`)
	articleRe  = regexp.MustCompile(`(?is)<article>(.*?)</article>`)
	sectionRes = func() map[string]*regexp.Regexp {
		m := make(map[string]*regexp.Regexp)
		for _, tag := range append([]string{"preamble"}, Sections...) {
			m[tag] = regexp.MustCompile(`(?is)<` + tag + `>(.*?)</` + tag + `>`)
		}
		return m
	}()
)

// Article is one <article> element. Fields holds the text of every tag
// present; a tag missing from the file is missing from the map.
type Article struct {
	Preamble string
	Fields   map[string]string
}

// Parse reads articles leniently: field text is not expected to be XML
// escaped, and tags outside the article vocabulary are dropped.
func Parse(r io.Reader) ([]Article, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	text := anyTagRe.ReplaceAllStringFunc(string(raw), func(tag string) string {
		m := anyTagRe.FindStringSubmatch(tag)
		if allowedTags[strings.ToLower(m[2])] {
			return "<" + m[1] + strings.ToLower(m[2]) + ">"
		}
		return ""
	})

	var out []Article
	for _, m := range articleRe.FindAllStringSubmatch(text, -1) {
		a := Article{Fields: make(map[string]string)}
		for tag, re := range sectionRes {
			if sm := re.FindStringSubmatch(m[1]); sm != nil {
				a.Fields[tag] = sm[1]
			}
		}
		a.Preamble = strings.TrimSpace(a.Fields["preamble"])
		delete(a.Fields, "preamble")
		out = append(out, a)
	}
	if out == nil {
		return nil, fmt.Errorf("no <article> elements found")
	}
	return out, nil
}

// ParseFile opens and parses path.
func ParseFile(path string) ([]Article, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	arts, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return arts, nil
}

// Report holds per-section match counts.
type Report struct {
	Correct  map[string]int
	Checked  int // sections compared across all paired articles
	Paired   int // generated articles that found a reference
	Unpaired int
}

// Total is the number of correct sections.
func (r Report) Total() int {
	n := 0
	for _, c := range r.Correct {
		n += c
	}
	return n
}

// Precision is Total/Checked, or 0 when nothing was checked.
func (r Report) Precision() float64 {
	if r.Checked == 0 {
		return 0
	}
	return float64(r.Total()) / float64(r.Checked)
}

// Print writes a human-readable summary.
func (r Report) Print(w io.Writer) {
	fmt.Fprintln(w, "Section matches:")
	for _, s := range Sections {
		fmt.Fprintf(w, "  %-13s %d\n", s, r.Correct[s])
	}
	fmt.Fprintf(w, "Articles paired   : %d (%d unpaired)\n", r.Paired, r.Unpaired)
	fmt.Fprintf(w, "Correct sections  : %d\n", r.Total())
	fmt.Fprintf(w, "Checked sections  : %d\n", r.Checked)
	fmt.Fprintf(w, "Precision         : %.2f %%\n", r.Precision()*100)
}

// Compare pairs generated articles with expected ones by preamble and
// scores every section. Duplicate preambles pair in file order.
func Compare(generated, expected []Article) Report {
	pending := make(map[string][]Article)
	for _, e := range expected {
		if e.Preamble != "" {
			pending[e.Preamble] = append(pending[e.Preamble], e)
		}
	}

	rep := Report{Correct: make(map[string]int, len(Sections))}
	for _, g := range generated {
		queue := pending[g.Preamble]
		if g.Preamble == "" || len(queue) == 0 {
			rep.Unpaired++
			continue
		}
		exp := queue[0]
		pending[g.Preamble] = queue[1:]
		rep.Paired++

		for _, s := range Sections {
			rep.Checked++
			gv, gok := g.Fields[s]
			ev, eok := exp.Fields[s]
			if !gok || !eok {
				continue
			}
			if Match(s, gv, ev) {
				rep.Correct[s]++
			}
		}
	}
	return rep
}

// Match reports whether a generated section agrees with the reference.
// Titles must be equal once trimmed; other sections match when either
// normalized text contains the other. An empty reference conclusion or
// discussion only matches the not-found placeholder.
func Match(section, generated, expected string) bool {
	if section == "titre" {
		return strings.TrimSpace(generated) == strings.TrimSpace(expected)
	}
	g, e := Normalize(generated), Normalize(expected)
	if e == "" {
		switch section {
		case "conclusion":
			return g == Normalize(document.NoConclusion)
		case "discussion":
			return g == Normalize(document.NoDiscussion)
		}
	}
	return strings.Contains(g, e) || strings.Contains(e, g)
}

// Normalize joins lines, collapses whitespace, removes hyphens and lowers
// the case.
func Normalize(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = strings.ReplaceAll(s, "-", "")
	return strings.ToLower(strings.TrimSpace(s))
}
