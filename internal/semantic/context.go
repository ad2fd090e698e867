package semantic

import (
	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/ast"
	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/errors"
	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/lexer"
	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/types"
)

// Context is shared mutable state threaded through every pass: the scope
// stack, the error reporter, and lookup tables the later waves need to find
// declarations the earlier waves installed.
type Context struct {
	Reporter *errors.Reporter
	scope    *Scope

	StructDecls map[string]*ast.StructDecl
	EnumDecls   map[string]*ast.EnumDecl
	ConstDecls  map[string]*ast.ConstDecl

	ConstEval *ConstEvaluator
}

func NewContext(rep *errors.Reporter) *Context {
	ctx := &Context{
		Reporter:    rep,
		scope:       NewScope(nil),
		StructDecls: make(map[string]*ast.StructDecl),
		EnumDecls:   make(map[string]*ast.EnumDecl),
		ConstDecls:  make(map[string]*ast.ConstDecl),
	}
	ctx.ConstEval = NewConstEvaluator(ctx)
	registerBuiltins(ctx)
	return ctx
}

func (c *Context) Scope() *Scope { return c.scope }

func (c *Context) Push() { c.scope = NewScope(c.scope) }
func (c *Context) Pop()  { c.scope = c.scope.Parent }

// DefineValue installs sym in the current scope, reporting a NameError at
// pos if the name is already bound there.
func (c *Context) DefineValue(sym *types.Symbol, pos lexer.Position) {
	if !c.scope.DefineValue(sym) {
		c.Reporter.Errorf(errors.NameError, pos, "'%s' is already defined in this scope", sym.Name)
	}
}

func (c *Context) DefineType(sym *types.Symbol, pos lexer.Position) {
	if !c.scope.DefineType(sym) {
		c.Reporter.Errorf(errors.NameError, pos, "'%s' is already defined in this scope", sym.Name)
	}
}
