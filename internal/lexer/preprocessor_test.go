package lexer

import (
	"strings"
	"testing"
)

// TestPreprocessStripsComments covers P1: no // or /* */ survives outside a
// string/char literal, and nested block comments close correctly.
func TestPreprocessStripsComments(t *testing.T) {
	input := "let x = 1; // trailing line comment\n" +
		"/* block /* nested */ still-comment */ let y = \"not // a comment\";\n"

	pp, err := Preprocess(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Preprocess: %v", err)
	}
	if strings.Contains(pp.Content, "trailing") {
		t.Fatalf("line comment survived: %q", pp.Content)
	}
	if strings.Contains(pp.Content, "still-comment") {
		t.Fatalf("nested block comment survived: %q", pp.Content)
	}
	if !strings.Contains(pp.Content, "not // a comment") {
		t.Fatalf("comment marker inside a string literal was stripped: %q", pp.Content)
	}
	if len(pp.Positions) != len(pp.Content) {
		t.Fatalf("positions table length %d != content length %d", len(pp.Positions), len(pp.Content))
	}
}

func TestPreprocessPositionsMatchOriginalLines(t *testing.T) {
	input := "ab\ncd\n"
	pp, err := Preprocess(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Preprocess: %v", err)
	}
	lines := strings.Split(input, "\n")
	for i, b := range pp.Content {
		pos := pp.Positions[i]
		if pos.Line < 1 || pos.Line > len(lines) {
			t.Fatalf("byte %d (%q) has out-of-range line %d", i, b, pos.Line)
		}
	}
}

func TestPreprocessUnterminatedBlockComment(t *testing.T) {
	_, err := Preprocess(strings.NewReader("let x = 1; /* never closed"))
	if err == nil {
		t.Fatalf("expected an error for an unterminated block comment")
	}
}

func TestPreprocessStripsLeadingBOM(t *testing.T) {
	input := "\xEF\xBB\xBFfn main() {}\n"
	pp, err := Preprocess(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Preprocess: %v", err)
	}
	if strings.HasPrefix(pp.Content, "\xEF\xBB\xBF") {
		t.Fatalf("BOM survived preprocessing: %q", pp.Content)
	}
	if !strings.HasPrefix(pp.Content, "fn main") {
		t.Fatalf("content after BOM was altered: %q", pp.Content)
	}
}
