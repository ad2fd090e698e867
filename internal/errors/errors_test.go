package errors

import (
	"bytes"
	"testing"

	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/lexer"
)

func TestEmitFormatsErrorsAndWarnings(t *testing.T) {
	r := NewReporter()
	r.Errorf(TypeError, lexer.Position{Line: 1, Column: 14}, "Mismatched types. Expected 'i32' but found 'bool'")
	r.Warnf(ParseError, lexer.Position{Line: 2, Column: 1}, "unreachable arm")

	var buf bytes.Buffer
	r.Emit(&buf)

	want := "Error at line 1, column 14: Mismatched types. Expected 'i32' but found 'bool'\n" +
		"Warning at line 2, column 1: unreachable arm\n"
	if buf.String() != want {
		t.Fatalf("Emit() = %q, want %q", buf.String(), want)
	}
}

func TestHasErrorsIgnoresWarnings(t *testing.T) {
	r := NewReporter()
	r.Warnf(ParseError, lexer.Position{}, "just a warning")
	if r.HasErrors() {
		t.Fatalf("HasErrors() = true for a reporter with only warnings")
	}
	r.Errorf(NameError, lexer.Position{}, "undefined identifier")
	if !r.HasErrors() {
		t.Fatalf("HasErrors() = false after recording an error")
	}
}

func TestIOErrorHasNoPosition(t *testing.T) {
	r := NewReporter()
	r.IOErrorf("failed to read stdin: %s", "broken pipe")
	var buf bytes.Buffer
	r.Emit(&buf)
	want := "Error: failed to read stdin: broken pipe\n"
	if buf.String() != want {
		t.Fatalf("Emit() = %q, want %q", buf.String(), want)
	}
}
