package rules

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault_Compiles(t *testing.T) {
	s := Default()
	if s == nil {
		t.Fatal("expected default rules")
	}
	if s != Default() {
		t.Error("expected Default to return the same compiled set")
	}
	if len(s.Title.Noise) == 0 {
		t.Error("expected title noise rules")
	}
	if len(s.Introduction.Stops) != 5 {
		t.Errorf("expected 5 introduction stop rules, got %d", len(s.Introduction.Stops))
	}
	if s.Body.Terminal.Regexp() == nil {
		t.Error("expected body terminal pattern to be compiled")
	}
	if s.Abstract.CloseInlineWindow != 3 {
		t.Errorf("expected close_inline_window 3, got %d", s.Abstract.CloseInlineWindow)
	}
}

func TestDefault_Patterns(t *testing.T) {
	s := Default()

	tests := []struct {
		name string
		rule *Rule
		line string
		want bool
	}{
		{"abstract alone", &s.Abstract.Anchor, "Abstract", true},
		{"abstract colon", &s.Abstract.Anchor, "Abstract: We study widgets.", true},
		{"abstract em dash", &s.Abstract.Anchor, "Abstract—We study widgets.", true},
		{"abstract shouted inline", &s.Abstract.Anchor, "ABSTRACT We study widgets.", true},
		{"abstract in prose", &s.Abstract.Anchor, "Abstract syntax trees are built first.", false},
		{"resume", &s.Abstract.Anchor, "Résumé", true},
		{"intro plain", &s.Introduction.Heading, "Introduction", true},
		{"intro numbered", &s.Introduction.Heading, "1 Introduction", true},
		{"intro roman", &s.Introduction.Heading, "I. INTRODUCTION", true},
		{"intro prose", &s.Introduction.Heading, "Introduction of widgets has been slow", false},
		{"terminal conclusion", &s.Body.Terminal, "5 Conclusion", true},
		{"terminal references", &s.Body.Terminal, "References", true},
		{"terminal acknowledgements", &s.Body.Terminal, "Acknowledgements", true},
		{"terminal prose", &s.Body.Terminal, "Experiments were run on a cluster of sixteen machines.", false},
		{"conclusion start", &s.Conclusion.Start, "6. Conclusions and Future Work", true},
		{"conclusion end", &s.Conclusion.End, "References", true},
		{"discussion substring", &s.Discussion.Start, "4 Results and Discussion", true},
		{"discussion end", &s.Discussion.End, "5 Conclusion", true},
		{"body-like prose", &s.Authors.BodyLike, "We study the effect of widgets on gadgets", true},
		{"body-like affiliation", &s.Authors.BodyLike, "Department of Computer Science, University X", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rule.MatchString(tt.line); got != tt.want {
				t.Errorf("%s on %q: expected %v, got %v", tt.rule.Name, tt.line, tt.want, got)
			}
		})
	}
}

func TestDefault_TitleNoise(t *testing.T) {
	s := Default()
	noisy := []string{
		"",
		"Journal of Widget Studies",
		"Vol. 12, Issue 3",
		"doi:10.1000/xyz123",
		"© 2021 Elsevier",
		"Received 12 March 2020",
		"Accepted: 3 May 2020",
		"Revised on 14 June 2020",
		"Proceedings of the Widget Conference",
		"Volume 7 (2019)",
		"arXiv:2101.00001v1 [cs.CL]",
		"jane@example.org",
		"12/03/2020",
		"2021",
	}
	for _, line := range noisy {
		if !AnyMatch(s.Title.Noise, line) {
			t.Errorf("expected %q to be title noise", line)
		}
	}
	titles := []string{
		"A Study Of Widgets",
		"Volume Rendering of Widget Meshes",
		"Revised Estimates of Widget Demand",
		"Accepted Wisdom on Gadget Design",
		"Received Signal Strength for Widget Localization",
		"Journaling File Systems for Widgets",
	}
	for _, line := range titles {
		if AnyMatch(s.Title.Noise, line) {
			t.Errorf("expected %q not to be title noise", line)
		}
	}
}

func TestParse_OverlayMergesFields(t *testing.T) {
	overlay := []byte(`
abstract:
  fallback_min_length: 42
bibliography:
  headers: [literature]
`)
	s, err := Parse(overlay)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Abstract.FallbackMinLength != 42 {
		t.Errorf("expected fallback length 42, got %d", s.Abstract.FallbackMinLength)
	}
	if s.Abstract.Anchor.Regexp() == nil {
		t.Error("expected untouched anchor to survive the overlay")
	}
	if len(s.Bibliography.Headers) != 1 || s.Bibliography.Headers[0] != "literature" {
		t.Errorf("expected headers to be replaced, got %v", s.Bibliography.Headers)
	}
	if Default().Abstract.FallbackMinLength != 100 {
		t.Error("expected overlay not to touch the default set")
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		overlay string
		want    string
	}{
		{"bad regex", "body:\n  terminal:\n    name: broken\n    pattern: '(unclosed'\n", "body.terminal"},
		{"unknown builtin", "introduction:\n  stops:\n    - name: x\n      builtin: nope\n      action: stop\n", "unknown builtin"},
		{"bad action", "introduction:\n  stops:\n    - name: x\n      pattern: 'x'\n      action: explode\n", "invalid action"},
		{"no headers", "bibliography:\n  headers: []\n", "bibliography.headers"},
		{"not yaml", "title: [", "parse rules overlay"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.overlay))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %q", tt.want, err.Error())
			}
		})
	}
}

func TestLoad(t *testing.T) {
	s, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != Default() {
		t.Error("expected empty path to return the defaults")
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte("authors:\n  max_lines: 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err = Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Authors.MaxLines != 3 {
		t.Errorf("expected max_lines 3, got %d", s.Authors.MaxLines)
	}
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	if err := os.WriteFile(path, []byte("authors:\n  max_lines: 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	initial, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	store := NewStore(initial)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	w, err := Watch(path, store, log)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(path, []byte("authors:\n  max_lines: 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if store.Load().Authors.MaxLines == 7 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Errorf("expected reloaded max_lines 7, got %d", store.Load().Authors.MaxLines)
}

func TestWatch_KeepsPreviousOnBadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	if err := os.WriteFile(path, []byte("authors:\n  max_lines: 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	initial, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	store := NewStore(initial)
	w := &Watcher{path: path, store: store, log: slog.New(slog.NewTextHandler(io.Discard, nil))}

	if err := os.WriteFile(path, []byte("body:\n  terminal:\n    pattern: '('\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	w.reload()
	if store.Load() != initial {
		t.Error("expected the previous rules to stay active after a bad reload")
	}
}
