package ast

import (
	"fmt"

	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/lexer"
)

// LetStmt binds Pattern to the value of Init. The type annotation is
// mandatory ("`let` requires an initializer whose type matches the
// (mandatory) annotation").
type LetStmt struct {
	StmtBase
	Pattern  Pattern
	TypeNode TypeNode
	Init     Expr
}

func NewLetStmt(pos lexer.Position, pat Pattern, tn TypeNode, init Expr) *LetStmt {
	return &LetStmt{StmtBase: StmtBase{Position: pos}, Pattern: pat, TypeNode: tn, Init: init}
}
func (s *LetStmt) String() string {
	return fmt.Sprintf("let %s: %s = %s;", s.Pattern.String(), s.TypeNode.String(), s.Init.String())
}

// ExprStmt is an expression used as a statement. HasSemicolon distinguishes
// a unit-valued statement from a block's tail expression.
type ExprStmt struct {
	StmtBase
	Expr         Expr
	HasSemicolon bool
}

func NewExprStmt(pos lexer.Position, expr Expr, hasSemi bool) *ExprStmt {
	return &ExprStmt{StmtBase: StmtBase{Position: pos}, Expr: expr, HasSemicolon: hasSemi}
}
func (s *ExprStmt) String() string {
	if s.HasSemicolon {
		return s.Expr.String() + ";"
	}
	return s.Expr.String()
}

// ItemStmt wraps an Item declared inside a function body.
type ItemStmt struct {
	StmtBase
	Item Item
}

func (s *ItemStmt) String() string { return s.Item.String() }
