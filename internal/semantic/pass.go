// Package semantic implements the name resolver, type resolver, constant
// evaluator, and type checker that run in sequence between parsing and IR
// generation.
package semantic

import (
	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/ast"
	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/errors"
)

// Pass is a single semantic analysis stage. Passes run in sequence and share
// a *Context; each pass only annotates the AST in place (Symbol/Type fields),
// never restructures it.
type Pass interface {
	Name() string
	Run(prog *ast.Program, ctx *Context)
}

// PassManager runs its passes in order, stopping early once the shared
// error reporter has recorded an error.
type PassManager struct {
	passes []Pass
}

func NewPassManager(passes ...Pass) *PassManager {
	return &PassManager{passes: passes}
}

func (pm *PassManager) RunAll(prog *ast.Program, ctx *Context) {
	for _, pass := range pm.passes {
		pass.Run(prog, ctx)
		if ctx.Reporter.HasErrors() {
			return
		}
	}
}

// Analyze runs the full name-resolution -> type-resolution -> type-checking
// pipeline over prog, reporting diagnostics to rep.
func Analyze(prog *ast.Program, rep *errors.Reporter) *Context {
	ctx := NewContext(rep)
	pm := NewPassManager(
		&NameResolver{},
		&TypeResolver{},
		&TypeChecker{})
	pm.RunAll(prog, ctx)
	return ctx
}
