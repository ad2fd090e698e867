package parser

import (
	"strings"
	"testing"

	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/ast"
	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/errors"
	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/lexer"
)

func parseSource(t *testing.T, src string) (*ast.Program, *errors.Reporter) {
	t.Helper()
	pp, err := lexer.Preprocess(strings.NewReader(src))
	if err != nil {
		t.Fatalf("preprocess: %v", err)
	}
	tokens, lexErrs := lexer.New(pp).Lex()
	if len(lexErrs) != 0 {
		t.Fatalf("unexpected lex errors: %v", lexErrs)
	}
	rep := errors.NewReporter()
	prog := ParseProgram(tokens, rep)
	return prog, rep
}

func TestParseFunctionDecl(t *testing.T) {
	prog, rep := parseSource(t, `fn add(a: i32, b: i32) -> i32 { a + b }`)
	if rep.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", rep.Diagnostics())
	}
	if len(prog.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(prog.Items))
	}
	fn, ok := prog.Items[0].(*ast.FunctionDecl)
	if !ok {
		t.Fatalf("expected *ast.FunctionDecl, got %T", prog.Items[0])
	}
	if fn.Name != "add" {
		t.Fatalf("Name = %q, want %q", fn.Name, "add")
	}
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Params))
	}
	if fn.ReturnType == nil {
		t.Fatalf("expected a return type node")
	}
	if fn.IsMethod() {
		t.Fatalf("free function must not report IsMethod()")
	}
}

func TestParseStructAndImpl(t *testing.T) {
	src := `
struct Point { x: i32, y: i32 }

impl Point {
    fn new(x: i32, y: i32) -> Point {
        Point { x: x, y: y }
    }

    fn sum(&self) -> i32 {
        self.x + self.y
    }
}
`
	prog, rep := parseSource(t, src)
	if rep.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", rep.Diagnostics())
	}
	if len(prog.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(prog.Items))
	}

	sd, ok := prog.Items[0].(*ast.StructDecl)
	if !ok {
		t.Fatalf("expected *ast.StructDecl, got %T", prog.Items[0])
	}
	if len(sd.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(sd.Fields))
	}

	ib, ok := prog.Items[1].(*ast.ImplBlock)
	if !ok {
		t.Fatalf("expected *ast.ImplBlock, got %T", prog.Items[1])
	}
	if ib.TargetName != "Point" {
		t.Fatalf("TargetName = %q, want %q", ib.TargetName, "Point")
	}
	if len(ib.Methods) != 2 {
		t.Fatalf("expected 2 methods, got %d", len(ib.Methods))
	}
	assoc, method := ib.Methods[0], ib.Methods[1]
	if assoc.IsMethod() {
		t.Fatalf("'new' must be an associated function, not a method")
	}
	if !method.IsMethod() {
		t.Fatalf("'sum' must be a method (takes &self)")
	}
}

func TestParseEnumWithPayload(t *testing.T) {
	prog, rep := parseSource(t, `
enum Shape {
    Circle(i32),
    Rect(i32, i32),
    Point,
}
`)
	if rep.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", rep.Diagnostics())
	}
	ed, ok := prog.Items[0].(*ast.EnumDecl)
	if !ok {
		t.Fatalf("expected *ast.EnumDecl, got %T", prog.Items[0])
	}
	if len(ed.Variants) != 3 {
		t.Fatalf("expected 3 variants, got %d", len(ed.Variants))
	}
	if len(ed.Variants[0].Payload) != 1 {
		t.Fatalf("Circle: expected 1 payload type, got %d", len(ed.Variants[0].Payload))
	}
	if len(ed.Variants[1].Payload) != 2 {
		t.Fatalf("Rect: expected 2 payload types, got %d", len(ed.Variants[1].Payload))
	}
	if len(ed.Variants[2].Payload) != 0 {
		t.Fatalf("Point: expected 0 payload types, got %d", len(ed.Variants[2].Payload))
	}
}

func TestParseMatchExpr(t *testing.T) {
	src := `
fn classify(x: i32) -> i32 {
    match x {
        0 => 0,
        n => n * 2,
    }
}
`
	prog, rep := parseSource(t, src)
	if rep.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", rep.Diagnostics())
	}
	fn := prog.Items[0].(*ast.FunctionDecl)
	m, ok := fn.Body.Tail.(*ast.MatchExpr)
	if !ok {
		t.Fatalf("expected tail to be *ast.MatchExpr, got %T", fn.Body.Tail)
	}
	if len(m.Arms) != 2 {
		t.Fatalf("expected 2 match arms, got %d", len(m.Arms))
	}
}

func TestParseIfWhileLoop(t *testing.T) {
	src := `
fn run() {
    let mut i: i32 = 0;
    while (i < 10) {
        i += 1;
    }
    if (i == 10) {
        loop {
            break;
        }
    }
}
`
	_, rep := parseSource(t, src)
	if rep.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", rep.Diagnostics())
	}
}

func TestParseUnexpectedTokenReportsError(t *testing.T) {
	_, rep := parseSource(t, `fn (`)
	if !rep.HasErrors() {
		t.Fatalf("expected a parse error for a malformed function declaration")
	}
}

func TestParseBinaryPrecedence(t *testing.T) {
	prog, rep := parseSource(t, `fn f() -> i32 { 1 + 2 * 3 }`)
	if rep.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", rep.Diagnostics())
	}
	fn := prog.Items[0].(*ast.FunctionDecl)
	bin, ok := fn.Body.Tail.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected tail to be *ast.BinaryExpr, got %T", fn.Body.Tail)
	}
	if bin.Op != ast.OpAdd {
		t.Fatalf("top-level operator = %v, want OpAdd (multiplication should bind tighter)", bin.Op)
	}
	if _, ok := bin.Right.(*ast.BinaryExpr); !ok {
		t.Fatalf("right operand should be the nested '2 * 3', got %T", bin.Right)
	}
}
