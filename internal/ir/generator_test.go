package ir

import (
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/require"

	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/errors"
	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/lexer"
	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/parser"
	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/semantic"
)

// compileToIR runs the full pipeline up to IR generation and fails the test
// on any diagnostic, mirroring how the cmd/rustc compile subcommand chains
// the same stages.
func compileToIR(t *testing.T, src string) string {
	t.Helper()
	pp, err := lexer.Preprocess(strings.NewReader(src))
	require.NoError(t, err)
	tokens, lexErrs := lexer.New(pp).Lex()
	require.Empty(t, lexErrs)
	rep := errors.NewReporter()
	prog := parser.ParseProgram(tokens, rep)
	require.False(t, rep.HasErrors(), "parse errors: %v", rep.Diagnostics())
	ctx := semantic.Analyze(prog, rep)
	require.False(t, rep.HasErrors(), "semantic errors: %v", rep.Diagnostics())
	return Generate(prog, ctx)
}

func TestGenerateSimpleFunction(t *testing.T) {
	module := compileToIR(t, `fn add(a: i32, b: i32) -> i32 { a + b }`)
	require.Contains(t, module, "define i32 @add(i32 %arg.a, i32 %arg.b)")
	require.Contains(t, module, "ret i32")
}

func TestGenerateMainCallsBuiltinAndDeclaresIt(t *testing.T) {
	module := compileToIR(t, `
fn main() {
    printlnInt(42);
}
`)
	require.Contains(t, module, "declare void @rt_println_int(i32)")
	require.Contains(t, module, "call void @rt_println_int(i32 42)")
}

func TestGenerateMethodNameMangling(t *testing.T) {
	module := compileToIR(t, `
struct Point { x: i32, y: i32 }

impl Point {
    fn sum(&self) -> i32 {
        self.x + self.y
    }
}

fn main() {
    let p: Point = Point { x: 1, y: 2 };
    let s: i32 = p.sum();
}
`)
	require.Contains(t, module, "define i32 @Point_sum(")
	require.Contains(t, module, "call i32 @Point_sum(")
}

func TestGenerateStructDefinition(t *testing.T) {
	module := compileToIR(t, `
struct Point { x: i32, y: i32 }

fn main() {
    let p: Point = Point { x: 1, y: 2 };
}
`)
	require.Contains(t, module, "%Point = type {")
}

func TestGenerateIfExprProducesBranchingLabels(t *testing.T) {
	module := compileToIR(t, `
fn choose(flag: bool) -> i32 {
    if (flag) { 1 } else { 2 }
}
`)
	require.Contains(t, module, "if.then")
	require.Contains(t, module, "if.else")
	require.Contains(t, module, "if.end")
	require.Contains(t, module, "jmp_true_")
	require.Contains(t, module, "jmp_false_")
}

func TestGenerateShortCircuitUsesDistinctAndOrLabels(t *testing.T) {
	module := compileToIR(t, `
fn both(a: bool, b: bool) -> bool {
    a && b
}

fn either(a: bool, b: bool) -> bool {
    a || b
}
`)
	require.Contains(t, module, "and.rhs")
	require.Contains(t, module, "and.end")
	require.Contains(t, module, "or.rhs")
	require.Contains(t, module, "or.end")
}

func TestGenerateLargeStructNewUsesSRet(t *testing.T) {
	module := compileToIR(t, `
struct Big { a: i32, b: i32, c: i32, d: i32, e: i32, f: i32, g: i32, h: i32, i: i32, j: i32, k: i32, l: i32, m: i32, n: i32, o: i32, p: i32, q: i32 }

impl Big {
    fn new() -> Big {
        Big { a: 0, b: 0, c: 0, d: 0, e: 0, f: 0, g: 0, h: 0, i: 0, j: 0, k: 0, l: 0, m: 0, n: 0, o: 0, p: 0, q: 0 }
    }
}

fn main() {
    let big: Big = Big::new();
}
`)
	require.Contains(t, module, "define void @Big_new(%Big* sret(%Big) %sret.result)")
	require.Contains(t, module, "call void @Big_new(%Big* ")
}

func TestGenerateZeroedArrayLetUsesMemsetNoExtraAlloca(t *testing.T) {
	module := compileToIR(t, `
fn main() {
    let a: [i32; 1024] = [0; 1024];
}
`)
	require.Contains(t, module, "call void @llvm.memset.p0.i64(")
	require.Equal(t, 1, strings.Count(module, "alloca [1024 x i32]"))
}

func TestGenerateLoopWithBreakValue(t *testing.T) {
	module := compileToIR(t, `
fn compute() -> i32 {
    loop {
        break 42;
    }
}
`)
	require.Contains(t, module, "loop.body")
	require.Contains(t, module, "loop.end")
	require.Contains(t, module, "store i32 42")
}

func TestGenerateModuleSnapshot(t *testing.T) {
	module := compileToIR(t, `
fn fib(n: i32) -> i32 {
    if (n < 2) {
        n
    } else {
        fib(n - 1) + fib(n - 2)
    }
}

fn main() {
    printlnInt(fib(10));
}
`)
	snaps.MatchSnapshot(t, module)
}
