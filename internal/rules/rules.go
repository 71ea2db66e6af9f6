// Package rules holds the heuristic tables that drive article segmentation.
// Every stage reads its patterns from a Set instead of hard-coding them, so
// the heuristics can be tuned from a YAML file without touching control flow.
package rules

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Action tells a scanner what to do with a line a rule matched.
type Action string

const (
	ActionSkip        Action = "skip"         // drop the line, keep scanning
	ActionStop        Action = "stop"         // end the section before the line
	ActionIncludeStop Action = "include-stop" // keep the line, then end the section
)

// Builtins are the structural rules implemented in code. A Rule names one of
// these instead of carrying a pattern.
var Builtins = map[string]bool{
	"section-number-gap": true,
	"shouted-title":      true,
	"paragraph-end":      true,
}

// Rule is one entry of a rule table: a pattern (or a builtin predicate) plus
// the action to take when it matches.
type Rule struct {
	Name    string `yaml:"name" json:"name"`
	Pattern string `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	Builtin string `yaml:"builtin,omitempty" json:"builtin,omitempty"`
	Action  Action `yaml:"action,omitempty" json:"action,omitempty"`

	compiled *regexp.Regexp
}

// MatchString reports whether the rule's pattern matches s. Builtin rules and
// rules without a pattern never match here.
func (r *Rule) MatchString(s string) bool {
	return r.compiled != nil && r.compiled.MatchString(s)
}

// Regexp returns the compiled pattern, or nil for builtin rules.
func (r *Rule) Regexp() *regexp.Regexp {
	return r.compiled
}

func (r *Rule) compile(requireAction bool) error {
	switch {
	case r.Pattern != "" && r.Builtin != "":
		return fmt.Errorf("rule %q: pattern and builtin are mutually exclusive", r.Name)
	case r.Builtin != "":
		if !Builtins[r.Builtin] {
			return fmt.Errorf("rule %q: unknown builtin %q", r.Name, r.Builtin)
		}
	case r.Pattern != "":
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return fmt.Errorf("rule %q: %w", r.Name, err)
		}
		r.compiled = re
	default:
		return fmt.Errorf("rule %q: needs a pattern or a builtin", r.Name)
	}

	if requireAction {
		switch r.Action {
		case ActionSkip, ActionStop, ActionIncludeStop:
		default:
			return fmt.Errorf("rule %q: invalid action %q", r.Name, r.Action)
		}
	}
	return nil
}

// AnyMatch reports whether any rule in rs matches s.
func AnyMatch(rs []Rule, s string) bool {
	for i := range rs {
		if rs[i].MatchString(s) {
			return true
		}
	}
	return false
}

// TitleRules configures title detection.
type TitleRules struct {
	Noise       []Rule `yaml:"noise"`
	AuthorHints []Rule `yaml:"author_hints"`
}

// AuthorRules configures the author block.
type AuthorRules struct {
	BodyLike Rule `yaml:"body_like"`
	MaxLines int  `yaml:"max_lines"`
}

// AbstractRules configures the abstract state machine and its fallback.
type AbstractRules struct {
	Anchor              Rule `yaml:"anchor"`
	Strip               Rule `yaml:"strip"`
	FallbackMinLength   int  `yaml:"fallback_min_length"`
	MinInlineWords      int  `yaml:"min_inline_words"`
	CloseInlineSentence bool `yaml:"close_inline_sentence"`
	CloseInlineWindow   int  `yaml:"close_inline_window"`
}

// IntroductionRules configures the introduction scanner.
type IntroductionRules struct {
	Heading            Rule    `yaml:"heading"`
	LooseMaxLength     int     `yaml:"loose_max_length"`
	SectionNumber      Rule    `yaml:"section_number"`
	CapitalizedLine    Rule    `yaml:"capitalized_line"`
	UppercaseRatio     float64 `yaml:"uppercase_ratio"`
	UppercaseMinLength int     `yaml:"uppercase_min_length"`
	Stops              []Rule  `yaml:"stops"`
}

// BodyRules configures the end of the body.
type BodyRules struct {
	Terminal Rule `yaml:"terminal"`
}

// SpanRules is a start header plus the header that ends the section.
type SpanRules struct {
	Start Rule `yaml:"start"`
	End   Rule `yaml:"end"`
}

// BibliographyRules configures the bibliography header match.
type BibliographyRules struct {
	Headers        []string `yaml:"headers"`
	StripNumbering bool     `yaml:"strip_numbering"`
}

// Set is a complete, compiled rule table. A Set returned by Default, Load or
// Parse is never modified afterwards and is safe for concurrent use.
type Set struct {
	Title        TitleRules        `yaml:"title"`
	Authors      AuthorRules       `yaml:"authors"`
	Abstract     AbstractRules     `yaml:"abstract"`
	Introduction IntroductionRules `yaml:"introduction"`
	Body         BodyRules         `yaml:"body"`
	Conclusion   SpanRules         `yaml:"conclusion"`
	Discussion   SpanRules         `yaml:"discussion"`
	Bibliography BibliographyRules `yaml:"bibliography"`
}

var defaultSet = sync.OnceValues(func() (*Set, error) {
	return Parse(nil)
})

// Default returns the built-in rule table. It is compiled once per process.
func Default() *Set {
	s, err := defaultSet()
	if err != nil {
		panic(fmt.Sprintf("rules: embedded defaults: %v", err))
	}
	return s
}

// Parse compiles the built-in table with overlay merged over it. yaml.v3
// only overwrites keys present in the overlay, so a partial file tunes just
// the stages it mentions; lists are replaced wholesale.
func Parse(overlay []byte) (*Set, error) {
	var s Set
	if err := yaml.Unmarshal(defaultYAML, &s); err != nil {
		return nil, fmt.Errorf("parse default rules: %w", err)
	}
	if len(overlay) > 0 {
		if err := yaml.Unmarshal(overlay, &s); err != nil {
			return nil, fmt.Errorf("parse rules overlay: %w", err)
		}
	}
	if err := s.compile(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads a YAML rules file and merges it over the defaults. An empty
// path returns the defaults.
func Load(path string) (*Set, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules file: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func (s *Set) compile() error {
	for i := range s.Title.Noise {
		if err := s.Title.Noise[i].compile(true); err != nil {
			return fmt.Errorf("title.noise: %w", err)
		}
	}
	for i := range s.Title.AuthorHints {
		if err := s.Title.AuthorHints[i].compile(false); err != nil {
			return fmt.Errorf("title.author_hints: %w", err)
		}
	}
	for i := range s.Introduction.Stops {
		if err := s.Introduction.Stops[i].compile(true); err != nil {
			return fmt.Errorf("introduction.stops: %w", err)
		}
	}

	single := []struct {
		key  string
		rule *Rule
	}{
		{"authors.body_like", &s.Authors.BodyLike},
		{"abstract.anchor", &s.Abstract.Anchor},
		{"abstract.strip", &s.Abstract.Strip},
		{"introduction.heading", &s.Introduction.Heading},
		{"introduction.section_number", &s.Introduction.SectionNumber},
		{"introduction.capitalized_line", &s.Introduction.CapitalizedLine},
		{"body.terminal", &s.Body.Terminal},
		{"conclusion.start", &s.Conclusion.Start},
		{"conclusion.end", &s.Conclusion.End},
		{"discussion.start", &s.Discussion.Start},
		{"discussion.end", &s.Discussion.End},
	}
	for _, sr := range single {
		if sr.rule.Builtin != "" {
			return fmt.Errorf("%s: must be a pattern", sr.key)
		}
		if err := sr.rule.compile(false); err != nil {
			return fmt.Errorf("%s: %w", sr.key, err)
		}
	}

	if len(s.Bibliography.Headers) == 0 {
		return fmt.Errorf("bibliography.headers: at least one header is required")
	}
	if s.Introduction.UppercaseRatio <= 0 || s.Introduction.UppercaseRatio > 1 {
		return fmt.Errorf("introduction.uppercase_ratio: must be in (0, 1], got %v", s.Introduction.UppercaseRatio)
	}
	if s.Authors.MaxLines <= 0 {
		s.Authors.MaxLines = 12
	}
	if s.Abstract.FallbackMinLength <= 0 {
		s.Abstract.FallbackMinLength = 100
	}
	if s.Abstract.MinInlineWords <= 0 {
		s.Abstract.MinInlineWords = 3
	}
	return nil
}
