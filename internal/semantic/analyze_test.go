package semantic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/errors"
	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/lexer"
	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/parser"
	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/types"
)

func analyzeSource(t *testing.T, src string) (*Context, *errors.Reporter) {
	t.Helper()
	pp, err := lexer.Preprocess(strings.NewReader(src))
	require.NoError(t, err)
	tokens, lexErrs := lexer.New(pp).Lex()
	require.Empty(t, lexErrs)
	rep := errors.NewReporter()
	prog := parser.ParseProgram(tokens, rep)
	require.False(t, rep.HasErrors(), "unexpected parse errors: %v", rep.Diagnostics())
	require.NotNil(t, prog)
	ctx := Analyze(prog, rep)
	return ctx, rep
}

func TestAnalyzeAcceptsValidProgram(t *testing.T) {
	_, rep := analyzeSource(t, `
fn add(a: i32, b: i32) -> i32 { a + b }

fn main() {
    let x: i32 = add(1, 2);
    printlnInt(x);
}
`)
	assert.False(t, rep.HasErrors(), "diagnostics: %v", rep.Diagnostics())
}

func TestAnalyzeDetectsUndefinedVariable(t *testing.T) {
	_, rep := analyzeSource(t, `
fn main() {
    printlnInt(y);
}
`)
	require.True(t, rep.HasErrors())
	assert.Equal(t, errors.NameError, rep.Diagnostics()[0].Kind)
}

func TestAnalyzeDetectsDuplicateDefinition(t *testing.T) {
	_, rep := analyzeSource(t, `
fn main() {
    let x: i32 = 1;
    let x: i32 = 2;
}
`)
	// redeclaring a name in the same block scope is a duplicate definition;
	// there is no per-statement scope to shadow into.
	require.True(t, rep.HasErrors())
	assert.Equal(t, errors.NameError, rep.Diagnostics()[0].Kind)
}

func TestAnalyzeDetectsTypeMismatch(t *testing.T) {
	_, rep := analyzeSource(t, `
fn main() {
    let x: bool = 1;
}
`)
	require.True(t, rep.HasErrors())
	assert.Equal(t, errors.TypeError, rep.Diagnostics()[0].Kind)
}

func TestAnalyzeResolvesStructFieldTypes(t *testing.T) {
	ctx, rep := analyzeSource(t, `
struct Point { x: i32, y: i32 }

fn main() {
    let p: Point = Point { x: 1, y: 2 };
    let sum: i32 = p.x + p.y;
}
`)
	require.False(t, rep.HasErrors(), "diagnostics: %v", rep.Diagnostics())
	sd, ok := ctx.StructDecls["Point"]
	require.True(t, ok)
	require.NotNil(t, sd.Symbol)
	st, ok := sd.Symbol.Type.(*types.Struct)
	require.True(t, ok)
	assert.Len(t, st.Fields, 2)
}

func TestAnalyzeRejectsValuedBreakInWhile(t *testing.T) {
	_, rep := analyzeSource(t, `
fn main() {
    let mut i: i32 = 0;
    while (i < 10) {
        break 1;
        i += 1;
    }
}
`)
	require.True(t, rep.HasErrors())
}

func TestAnalyzeLoopResultTypeFromBreak(t *testing.T) {
	_, rep := analyzeSource(t, `
fn compute() -> i32 {
    let x: i32 = loop {
        break 42;
    };
    x
}
`)
	assert.False(t, rep.HasErrors(), "diagnostics: %v", rep.Diagnostics())
}

func TestAnalyzeEnumVariantConstruction(t *testing.T) {
	_, rep := analyzeSource(t, `
enum Shape {
    Circle(i32),
    Point,
}

fn main() {
    let a: Shape = Shape::Circle(5);
    let b: Shape = Shape::Point;
}
`)
	assert.False(t, rep.HasErrors(), "diagnostics: %v", rep.Diagnostics())
}

func TestAnalyzeMethodCallOnStruct(t *testing.T) {
	_, rep := analyzeSource(t, `
struct Point { x: i32, y: i32 }

impl Point {
    fn new(x: i32, y: i32) -> Point {
        Point { x: x, y: y }
    }

    fn sum(&self) -> i32 {
        self.x + self.y
    }
}

fn main() {
    let p: Point = Point::new(1, 2);
    let s: i32 = p.sum();
}
`)
	assert.False(t, rep.HasErrors(), "diagnostics: %v", rep.Diagnostics())
}

func TestAnalyzeExitMustBeLastStatementInMain(t *testing.T) {
	_, rep := analyzeSource(t, `
fn main() {
    exit(1);
    printlnInt(2);
}
`)
	require.True(t, rep.HasErrors())
}
