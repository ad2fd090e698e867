package semantic

import (
	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/ast"
	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/errors"
	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/types"
)

// ConstEvaluator is the restricted interpreter used for array sizes and
// const declarations: integer literals, constant references (memoized on
// their symbol), the integer unary/binary operators and comparisons, and
// `as`-casts with two's-complement truncation. Every result is a 64-bit
// signed value.
type ConstEvaluator struct {
	ctx *Context
}

func NewConstEvaluator(ctx *Context) *ConstEvaluator { return &ConstEvaluator{ctx: ctx} }

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// EvalInt evaluates e as a constant integer expression. On failure it
// records a ConstEvalError (or leaves an already-reported NameError/TypeError
// alone) and returns (0, false).
func (ce *ConstEvaluator) EvalInt(e ast.Expr) (int64, bool) {
	switch n := e.(type) {
	case *ast.IntLiteralExpr:
		return int64(n.Value), true

	case *ast.UnaryExpr:
		v, ok := ce.EvalInt(n.Operand)
		if !ok {
			return 0, false
		}
		switch n.Op {
		case ast.OpNeg:
			return -v, true
		case ast.OpNot:
			return ^v, true
		}
		return 0, false

	case *ast.BinaryExpr:
		l, ok1 := ce.EvalInt(n.Left)
		r, ok2 := ce.EvalInt(n.Right)
		if !ok1 || !ok2 {
			return 0, false
		}
		switch n.Op {
		case ast.OpAdd:
			return l + r, true
		case ast.OpSub:
			return l - r, true
		case ast.OpMul:
			return l * r, true
		case ast.OpDiv:
			if r == 0 {
				ce.ctx.Reporter.Errorf(errors.ConstEvalError, n.Pos(), "division by zero in constant expression")
				return 0, false
			}
			return l / r, true
		case ast.OpMod:
			if r == 0 {
				ce.ctx.Reporter.Errorf(errors.ConstEvalError, n.Pos(), "division by zero in constant expression")
				return 0, false
			}
			return l % r, true
		case ast.OpAnd:
			return l & r, true
		case ast.OpOr:
			return l | r, true
		case ast.OpXor:
			return l ^ r, true
		case ast.OpShl:
			return l << uint(r), true
		case ast.OpShr:
			return l >> uint(r), true
		case ast.OpEq:
			return boolToInt(l == r), true
		case ast.OpNe:
			return boolToInt(l != r), true
		case ast.OpLt:
			return boolToInt(l < r), true
		case ast.OpLe:
			return boolToInt(l <= r), true
		case ast.OpGt:
			return boolToInt(l > r), true
		case ast.OpGe:
			return boolToInt(l >= r), true
		}
		ce.ctx.Reporter.Errorf(errors.ConstEvalError, n.Pos(), "operator not permitted in a constant expression")
		return 0, false

	case *ast.AsExpr:
		v, ok := ce.EvalInt(n.Operand)
		if !ok {
			return 0, false
		}
		target := resolveTypeNode(ce.ctx, n.TypeNode, nil)
		return truncateToType(v, target), true

	case *ast.VariableExpr:
		sym, ok := ce.ctx.Scope().LookupValue(n.Name)
		if !ok {
			ce.ctx.Reporter.Errorf(errors.NameError, n.Pos(), "undefined identifier '%s'", n.Name)
			return 0, false
		}
		n.SetSymbol(sym)
		if sym.Kind != types.SymConstant {
			ce.ctx.Reporter.Errorf(errors.ConstEvalError, n.Pos(), "'%s' is not a constant", n.Name)
			return 0, false
		}
		if sym.ConstEvaluated {
			return sym.ConstValue, true
		}
		decl, ok := sym.ConstNode.(*ast.ConstDecl)
		if !ok {
			return 0, false
		}
		v, ok := ce.EvalInt(decl.Value)
		if !ok {
			return 0, false
		}
		sym.ConstValue = v
		sym.ConstEvaluated = true
		return v, true

	default:
		ce.ctx.Reporter.Errorf(errors.ConstEvalError, e.Pos(), "expression is not a constant")
		return 0, false
	}
}

// truncateToType applies two's-complement narrowing when casting a constant
// to a smaller integer type.
func truncateToType(v int64, t types.Type) int64 {
	p, ok := t.(*types.Primitive)
	if !ok {
		return v
	}
	switch p.Kind {
	case types.I32:
		return int64(int32(v))
	case types.U32:
		return int64(uint32(v))
	}
	return v
}
