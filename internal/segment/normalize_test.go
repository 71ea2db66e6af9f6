package segment

import "testing"

func TestNormalizeLine(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Introduction", "Introduction"},
		{"collapse spaces", "  1   Related\t work  ", "1 Related work"},
		{"spaced letters", "D I S C U S S I O N", "DISCUSSION"},
		{"spaced after number", "5 C O N C L U S I O N", "5 CONCLUSION"},
		{"two letters kept", "a b test", "a b test"},
		{"form feed", "\fReferences", "References"},
		{"zero width", "Refer\u200bences", "References"},
		{"soft hyphen", "intro\u00adduction", "introduction"},
		{"bom", "\ufeffAbstract", "Abstract"},
		{"decomposed accent", "Re\u0301sume\u0301", "R\u00e9sum\u00e9"},
		{"soft hyphen before accent", "re\u00ad\u0301sume", "r\u00e9sume"},
		{"joiner before accent", "Caf\u00ade\u200d\u0301 noir", "Caf\u00e9 noir"},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeLine(tt.in); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNormalizeLine_Idempotent(t *testing.T) {
	inputs := []string{
		"D I S C U S S I O N and a b c d",
		"  x  y   z  ",
		"I. I N T R O D U C T I O N",
		"\u200b\u00ad \t mixed\fcontrol\x00chars",
		"Résumé   é é é",
		"re\u00ad\u0301sume",
		"re\u00ad\u0301sum\u00e9",
		"Caf\u00ade\u200d\u0301 noir",
		"e\u200b\u0301 t u d e",
		"a b",
		"",
	}
	for _, in := range inputs {
		once := NormalizeLine(in)
		if twice := NormalizeLine(once); twice != once {
			t.Errorf("not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestLettersOnly(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"5.1 Concluding remarks", "Concluding remarks"},
		{"VI. CONCLUSION:", "VI CONCLUSION"},
		{"[1] ---", ""},
		{"C O N C L U S I O N S", "CONCLUSIONS"},
	}
	for _, tt := range tests {
		if got := LettersOnly(tt.in); got != tt.want {
			t.Errorf("LettersOnly(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestFirstSentence(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"One. Two.", "One."},
		{"No terminator here", "No terminator here"},
		{"Version 2.5 is out! Yes.", "Version 2.5 is out!"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := firstSentence(tt.in); got != tt.want {
			t.Errorf("firstSentence(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}
