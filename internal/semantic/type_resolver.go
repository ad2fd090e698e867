package semantic

import (
	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/ast"
	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/errors"
	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/types"
)

var primitiveNames = map[string]types.Type{
	"i32": types.TI32, "u32": types.TU32, "isize": types.TISize, "usize": types.TUSize,
	"bool": types.TBool, "char": types.TChar, "str": types.TStr, "String": types.TString,
}

// TypeResolver turns syntactic TypeNodes into canonical semantic types,
// consulting the constant evaluator for array sizes. Results are cached on
// the node itself so repeated resolution is idempotent.
type TypeResolver struct{}

func NewTypeResolver() *TypeResolver { return &TypeResolver{} }

func (r *TypeResolver) Name() string { return "type-resolver" }

// Run is a no-op as a standalone pass: type resolution is invoked inline by
// the name resolver at each point a TypeNode is encountered (function
// signatures, struct fields, let annotations), because those points must
// happen at specific waves rather than a single flat tree walk. It stays a
// Pass so the analysis pipeline's ordering keeps documenting the data
// dependency even though the real work already happened.
func (r *TypeResolver) Run(prog *ast.Program, ctx *Context) {}

// resolveTypeNode resolves tn to its canonical semantic type, memoizing the
// result on the node so a type annotated in several places is only resolved
// once.
func resolveTypeNode(ctx *Context, tn ast.TypeNode, selfType types.Type) types.Type {
	if t := tn.GetResolved(); t != nil {
		return t
	}

	var resolved types.Type
	switch n := tn.(type) {
	case *ast.UnitTypeNode:
		resolved = types.TUnit

	case *ast.NamedTypeNode:
		switch {
		case n.Name == "Self":
			if selfType != nil {
				resolved = selfType
			} else {
				ctx.Reporter.Errorf(errors.TypeError, n.Pos(), "'Self' used outside an impl block")
				resolved = types.TUnit
			}
		default:
			if p, ok := primitiveNames[n.Name]; ok {
				resolved = p
			} else if sym, ok := ctx.Scope().LookupType(n.Name); ok {
				resolved = sym.Type
			} else {
				ctx.Reporter.Errorf(errors.NameError, n.Pos(), "undefined type '%s'", n.Name)
				resolved = types.TUnit
			}
		}

	case *ast.ArrayTypeNode:
		elem := resolveTypeNode(ctx, n.Elem, selfType)
		size, ok := ctx.ConstEval.EvalInt(n.Size)
		if !ok {
			resolved = &types.Array{Elem: elem, Size: 0}
			break
		}
		if size < 0 {
			ctx.Reporter.Errorf(errors.TypeError, n.Size.Pos(), "array size must not be negative")
			size = 0
		}
		resolved = &types.Array{Elem: elem, Size: size}

	case *ast.ReferenceTypeNode:
		resolved = &types.Reference{Referent: resolveTypeNode(ctx, n.Inner, selfType), Mutable: n.Mutable}

	case *ast.RawPointerTypeNode:
		resolved = &types.RawPointer{Pointee: resolveTypeNode(ctx, n.Inner, selfType), Mutable: n.Mutable}

	default:
		resolved = types.TUnit
	}

	tn.SetResolved(resolved)
	return resolved
}
