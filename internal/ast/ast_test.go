package ast

import (
	"testing"

	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/lexer"
)

// TestEveryNodePosIsSet checks that node constructors (VariableExpr,
// IntLiteralExpr, LetStmt) record the source position they are given.
func TestEveryNodePosIsSet(t *testing.T) {
	pos := lexer.Position{Line: 3, Column: 7}
	v := NewVariableExpr(pos, "x")
	if v.Pos() != pos {
		t.Fatalf("VariableExpr.Pos() = %v, want %v", v.Pos(), pos)
	}

	lit := NewIntLiteralExpr(pos, "42", 42, "")
	if lit.Pos() != pos {
		t.Fatalf("IntLiteralExpr.Pos() = %v, want %v", lit.Pos(), pos)
	}

	let := NewLetStmt(pos, NewIdentPattern(pos, "x", false), NewUnitTypeNode(pos), lit)
	if let.Pos() != pos {
		t.Fatalf("LetStmt.Pos() = %v, want %v", let.Pos(), pos)
	}
}

func TestProgramPosFallsBackToFirstItem(t *testing.T) {
	pos := lexer.Position{Line: 5, Column: 1}
	fn := &FunctionDecl{ItemBase: ItemBase{Position: pos}, Name: "main", Body: &BlockExpr{}}
	prog := &Program{Items: []Item{fn}}
	if prog.Pos() != pos {
		t.Fatalf("Program.Pos() = %v, want %v", prog.Pos(), pos)
	}
}
