// Package ast defines the abstract syntax tree produced by the parser and
// annotated in place by semantic analysis.
package ast

import (
	"strings"

	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/lexer"
	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/types"
)

// Node is the base interface every AST node satisfies.
type Node interface {
	Pos() lexer.Position
	String() string
}

// Expr is any node that produces a value. Every concrete Expr embeds
// ExprBase, which carries the two post-semantic annotations:
// Type is set by the type checker on every expression; Symbol is set by
// name resolution on identifier-like expressions only.
type Expr interface {
	Node
	exprNode()
	GetType() types.Type
	SetType(types.Type)
	GetSymbol() *types.Symbol
	SetSymbol(*types.Symbol)
}

// ExprBase supplies the common fields and accessor methods for every
// expression node; embed it rather than re-declaring Type/Symbol/Position
// bookkeeping on each node (mirrors the teacher's Identifier/IntegerLiteral
// pattern of carrying the annotation directly on the node).
type ExprBase struct {
	Position lexer.Position
	Type     types.Type
	Symbol   *types.Symbol
}

func (b *ExprBase) Pos() lexer.Position       { return b.Position }
func (b *ExprBase) exprNode()                 {}
func (b *ExprBase) GetType() types.Type       { return b.Type }
func (b *ExprBase) SetType(t types.Type)      { b.Type = t }
func (b *ExprBase) GetSymbol() *types.Symbol  { return b.Symbol }
func (b *ExprBase) SetSymbol(s *types.Symbol) { b.Symbol = s }

// NewExprBase constructs an ExprBase at pos; concrete expression node
// literals embed the result directly.
func NewExprBase(pos lexer.Position) ExprBase { return ExprBase{Position: pos} }

// Stmt is any node executed for effect within a block.
type Stmt interface {
	Node
	stmtNode()
}

// StmtBase supplies the Position field shared by every statement node.
type StmtBase struct {
	Position lexer.Position
}

func (b *StmtBase) Pos() lexer.Position { return b.Position }
func (b *StmtBase) stmtNode()           {}

// Item is a top-level (or function-nested) declaration.
type Item interface {
	Node
	itemNode()
	GetSymbol() *types.Symbol
	SetSymbol(*types.Symbol)
}

// ItemBase supplies the Position field and resolved-Symbol bookkeeping
// shared by every item node.
type ItemBase struct {
	Position lexer.Position
	Symbol   *types.Symbol
}

func (b *ItemBase) Pos() lexer.Position       { return b.Position }
func (b *ItemBase) itemNode()                 {}
func (b *ItemBase) GetSymbol() *types.Symbol  { return b.Symbol }
func (b *ItemBase) SetSymbol(s *types.Symbol) { b.Symbol = s }

// TypeNode is a syntactic type expression; its resolved semantic type is
// stored via SetResolved and cached so repeated resolution is idempotent.
type TypeNode interface {
	Node
	typeNode()
	GetResolved() types.Type
	SetResolved(types.Type)
}

// TypeNodeBase supplies the Position field and resolved-type cache shared
// by every syntactic type expression.
type TypeNodeBase struct {
	Position lexer.Position
	Resolved types.Type
}

func (b *TypeNodeBase) Pos() lexer.Position      { return b.Position }
func (b *TypeNodeBase) typeNode()                {}
func (b *TypeNodeBase) GetResolved() types.Type  { return b.Resolved }
func (b *TypeNodeBase) SetResolved(t types.Type) { b.Resolved = t }

// Pattern is a let/parameter/match-arm binding pattern.
type Pattern interface {
	Node
	patternNode()
}

// PatternBase supplies the Position field shared by every pattern node.
type PatternBase struct {
	Position lexer.Position
}

func (b *PatternBase) Pos() lexer.Position { return b.Position }
func (b *PatternBase) patternNode()        {}

// Program is the compilation unit's root: a flat list of top-level items.
type Program struct {
	Items []Item
}

func (p *Program) Pos() lexer.Position {
	if len(p.Items) > 0 {
		return p.Items[0].Pos()
	}
	return lexer.Position{Line: 1, Column: 1}
}
func (p *Program) String() string {
	var sb strings.Builder
	for _, it := range p.Items {
		sb.WriteString(it.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Param is a function parameter.
type Param struct {
	Name     string
	TypeNode TypeNode
	Mutable  bool // binding mutability of the parameter itself
	IsSelf   bool // synthesized from a `self`/`&self`/`&mut self` receiver
	Position lexer.Position
	// Symbol is filled in by name resolution when the function body is
	// walked; the IR generator uses it to give the parameter's alloca the
	// same identity any VariableExpr referring to it carries.
	Symbol *types.Symbol
}

func (p *Param) Pos() lexer.Position { return p.Position }
func (p *Param) String() string {
	if p.IsSelf {
		return "self"
	}
	return p.Name + ": " + p.TypeNode.String()
}

// FieldDecl is a struct field declaration (auxiliary leaf record).
type FieldDecl struct {
	Name     string
	TypeNode TypeNode
	Position lexer.Position
}

func (f *FieldDecl) Pos() lexer.Position { return f.Position }
func (f *FieldDecl) String() string      { return f.Name + ": " + f.TypeNode.String() }

// FieldInit is one `name: expr` pair inside a struct initializer literal.
type FieldInit struct {
	Name     string
	Value    Expr
	Position lexer.Position
}

func (f *FieldInit) Pos() lexer.Position { return f.Position }
func (f *FieldInit) String() string      { return f.Name + ": " + f.Value.String() }
