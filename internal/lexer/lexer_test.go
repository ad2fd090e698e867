package lexer

import (
	"strings"
	"testing"
)

func lexString(t *testing.T, src string) []Token {
	t.Helper()
	pp, err := Preprocess(strings.NewReader(src))
	if err != nil {
		t.Fatalf("preprocess: %v", err)
	}
	toks, errs := New(pp).Lex()
	if len(errs) != 0 {
		t.Fatalf("unexpected lex errors: %v", errs)
	}
	return toks
}

func TestNextToken(t *testing.T) {
	input := "fn main() { let mut x: i32 = 5; x += 10; }"

	tests := []struct {
		kind   Kind
		lexeme string
	}{
		{KwFn, "fn"},
		{IDENT, "main"},
		{LPAREN, "("},
		{RPAREN, ")"},
		{LBRACE, "{"},
		{KwLet, "let"},
		{KwMut, "mut"},
		{IDENT, "x"},
		{COLON, ":"},
		{IDENT, "i32"},
		{EQ, "="},
		{INT, "5"},
		{SEMI, ";"},
		{IDENT, "x"},
		{PLUSEQ, "+="},
		{INT, "10"},
		{SEMI, ";"},
		{RBRACE, "}"},
		{EOF, ""},
	}

	toks := lexString(t, input)
	if len(toks) != len(tests) {
		t.Fatalf("token count mismatch: got %d want %d (%v)", len(toks), len(tests), toks)
	}
	for i, tt := range tests {
		if toks[i].Kind != tt.kind {
			t.Fatalf("token[%d]: kind = %s, want %s", i, toks[i].Kind, tt.kind)
		}
		if toks[i].Lexeme != tt.lexeme {
			t.Fatalf("token[%d]: lexeme = %q, want %q", i, toks[i].Lexeme, tt.lexeme)
		}
	}
}

func TestOperatorMaximalMunch(t *testing.T) {
	cases := []struct {
		src  string
		want []Kind
	}{
		{">>=", []Kind{SHREQ, EOF}},
		{">>", []Kind{SHR, EOF}},
		{">=", []Kind{GE, EOF}},
		{">", []Kind{GT, EOF}},
		{"..=", []Kind{DOTDOTEQ, EOF}},
		{"..", []Kind{DOTDOT, EOF}},
		{".", []Kind{DOT, EOF}},
		{"&&", []Kind{AMPAMP, EOF}},
		{"&", []Kind{AMP, EOF}},
	}
	for _, c := range cases {
		toks := lexString(t, c.src)
		if len(toks) != len(c.want) {
			t.Fatalf("%q: got %d tokens, want %d", c.src, len(toks), len(c.want))
		}
		for i, k := range c.want {
			if toks[i].Kind != k {
				t.Fatalf("%q: token[%d] = %s, want %s", c.src, i, toks[i].Kind, k)
			}
		}
	}
}

func TestNumberSuffixesAndBases(t *testing.T) {
	toks := lexString(t, "0xFF 0o17 0b101 42u32 7isize 1_000")
	wantLexeme := []string{"0xFF", "0o17", "0b101", "42u32", "7isize", "1_000"}
	wantSuffix := []string{"", "", "", "u32", "isize", ""}
	for i, tok := range toks[:len(toks)-1] {
		if tok.Kind != INT {
			t.Fatalf("token[%d] kind = %s, want INT", i, tok.Kind)
		}
		if tok.Lexeme != wantLexeme[i] {
			t.Fatalf("token[%d] lexeme = %q, want %q", i, tok.Lexeme, wantLexeme[i])
		}
		if tok.Suffix != wantSuffix[i] {
			t.Fatalf("token[%d] suffix = %q, want %q", i, tok.Suffix, wantSuffix[i])
		}
	}
}

func TestStringFamilyLiterals(t *testing.T) {
	toks := lexString(t, `"hi\n" b'x' c"cstr" r"raw\nnoesc"`)
	if toks[0].Kind != STRING || toks[0].Lexeme != `hi\n` {
		t.Fatalf("string literal: %+v", toks[0])
	}
	if toks[1].Kind != BYTE || toks[1].Lexeme != "x" {
		t.Fatalf("byte literal: %+v", toks[1])
	}
	if toks[2].Kind != CSTRING || toks[2].Lexeme != "cstr" {
		t.Fatalf("c-string literal: %+v", toks[2])
	}
	if toks[3].Kind != STRING || !toks[3].Raw || toks[3].Lexeme != `raw\nnoesc` {
		t.Fatalf("raw string literal: %+v", toks[3])
	}
}

func TestUnterminatedStringIsLexError(t *testing.T) {
	pp, err := Preprocess(strings.NewReader(`"unterminated`))
	if err != nil {
		t.Fatalf("preprocess: %v", err)
	}
	_, errs := New(pp).Lex()
	if len(errs) == 0 {
		t.Fatalf("expected a lex error for an unterminated string")
	}
}

// TestRoundTrip is property P2: concatenating token lexemes with enough
// separating whitespace and re-lexing reproduces the same token kinds.
func TestRoundTrip(t *testing.T) {
	src := "fn main() { let x: i32 = 1 + 2 * 3; if (x == 6) { x } else { 0 } }"
	first := lexString(t, src)

	var sb strings.Builder
	for _, tok := range first {
		if tok.Kind == EOF {
			continue
		}
		sb.WriteString(tok.Lexeme)
		sb.WriteByte(' ')
	}
	second := lexString(t, sb.String())

	if len(first) != len(second) {
		t.Fatalf("round trip token count: got %d, want %d", len(second), len(first))
	}
	for i := range first {
		if first[i].Kind != second[i].Kind {
			t.Fatalf("round trip token[%d]: got %s, want %s", i, second[i].Kind, first[i].Kind)
		}
	}
}
