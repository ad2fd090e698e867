package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/errors"
	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/lexer"
	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/parser"
)

// TestASTJSONRoundTrip checks that astToJSON's output, parsed back with
// gjson, names every top-level item the parser actually produced — the
// round-trip --emit=ast --ast-format=json is meant to support for tooling
// that wants to assert on parser output without scraping the text dump.
func TestASTJSONRoundTrip(t *testing.T) {
	src := `
struct Point { x: i32, y: i32 }

impl Point {
    fn sum(&self) -> i32 { self.x + self.y }
}

enum Shape { Circle(i32), Point }

const LIMIT: i32 = 10;

fn main() {}
`
	pp, err := lexer.Preprocess(strings.NewReader(src))
	require.NoError(t, err)
	tokens, lexErrs := lexer.New(pp).Lex()
	require.Empty(t, lexErrs)
	rep := errors.NewReporter()
	prog := parser.ParseProgram(tokens, rep)
	require.False(t, rep.HasErrors())

	encoded, err := astToJSON(prog)
	require.NoError(t, err)
	require.True(t, gjson.Valid(encoded))

	items := gjson.Parse(encoded).Array()
	require.Len(t, items, len(prog.Items))

	assert.Equal(t, "struct", items[0].Get("kind").String())
	assert.Equal(t, "Point", items[0].Get("name").String())
	assert.Equal(t, "impl", items[1].Get("kind").String())
	assert.Equal(t, "enum", items[2].Get("kind").String())
	assert.Equal(t, "const", items[3].Get("kind").String())
	assert.Equal(t, "LIMIT", items[3].Get("name").String())
	assert.Equal(t, "function", items[4].Get("kind").String())
	assert.Equal(t, "main", items[4].Get("name").String())

	for i, it := range prog.Items {
		assert.Equal(t, int64(it.Pos().Line), items[i].Get("line").Int())
	}
}
