// Package errors formats and accumulates compiler diagnostics: each pipeline
// stage consults a Reporter on completion and later stages are skipped once
// it holds any Error-severity diagnostic.
//
// Adapted from the teacher's CompilerError (internal/errors/errors.go): same
// position-plus-message shape, generalized to a seven-kind taxonomy and
// stripped of ANSI colorization.
package errors

import (
	"fmt"
	"io"

	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/lexer"
)

// Kind is one of the seven diagnostic kinds a pipeline stage can raise.
type Kind string

const (
	IoError        Kind = "IoError"
	LexError       Kind = "LexError"
	ParseError     Kind = "ParseError"
	NameError      Kind = "NameError"
	TypeError      Kind = "TypeError"
	ConstEvalError Kind = "ConstEvalError"
	IRGenInternal  Kind = "IRGenInternal"
)

// Severity distinguishes a hard error (stage fail-stop) from a warning.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// Diagnostic is a single compiler error or warning.
type Diagnostic struct {
	Kind     Kind
	Severity Severity
	Pos      lexer.Position
	Message  string
	HasPos   bool // false for IoError, which has no source position
}

func (d *Diagnostic) String() string {
	prefix := "Error"
	if d.Severity == SeverityWarning {
		prefix = "Warning"
	}
	if !d.HasPos {
		return fmt.Sprintf("%s: %s", prefix, d.Message)
	}
	return fmt.Sprintf("%s at line %d, column %d: %s", prefix, d.Pos.Line, d.Pos.Column, d.Message)
}

// Reporter accumulates diagnostics across pipeline stages.
type Reporter struct {
	diagnostics []*Diagnostic
}

func NewReporter() *Reporter { return &Reporter{} }

// Errorf records a hard error at pos.
func (r *Reporter) Errorf(kind Kind, pos lexer.Position, format string, args ...interface{}) {
	r.diagnostics = append(r.diagnostics, &Diagnostic{
		Kind: kind, Severity: SeverityError, Pos: pos, HasPos: true,
		Message: fmt.Sprintf(format, args...),
	})
}

// Warnf records a warning at pos.
func (r *Reporter) Warnf(kind Kind, pos lexer.Position, format string, args ...interface{}) {
	r.diagnostics = append(r.diagnostics, &Diagnostic{
		Kind: kind, Severity: SeverityWarning, Pos: pos, HasPos: true,
		Message: fmt.Sprintf(format, args...),
	})
}

// IOErrorf records an IoError, which carries no source position.
func (r *Reporter) IOErrorf(format string, args ...interface{}) {
	r.diagnostics = append(r.diagnostics, &Diagnostic{
		Kind: IoError, Severity: SeverityError, HasPos: false,
		Message: fmt.Sprintf(format, args...),
	})
}

// HasErrors reports whether any Error-severity diagnostic was recorded;
// this is the fail-stop gate between stages.
func (r *Reporter) HasErrors() bool {
	for _, d := range r.diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

func (r *Reporter) Diagnostics() []*Diagnostic { return r.diagnostics }

// Emit writes one line per diagnostic to w, in recorded order.
func (r *Reporter) Emit(w io.Writer) {
	for _, d := range r.diagnostics {
		fmt.Fprintln(w, d.String())
	}
}
