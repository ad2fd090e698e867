package semantic

import (
	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/ast"
	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/errors"
	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/types"
)

// TypeChecker is the single post-resolution walk that computes and
// validates the type of every expression, consulting the symbols and
// resolved TypeNodes the earlier passes already attached.
type TypeChecker struct{}

func NewTypeChecker() *TypeChecker { return &TypeChecker{} }

func (c *TypeChecker) Name() string { return "type-checker" }

func (c *TypeChecker) Run(prog *ast.Program, ctx *Context) {
	for _, it := range prog.Items {
		switch d := it.(type) {
		case *ast.ConstDecl:
			c.checkConst(ctx, d)
		case *ast.FunctionDecl:
			c.checkFunction(ctx, d)
		case *ast.ImplBlock:
			for _, m := range d.Methods {
				c.checkFunction(ctx, m)
			}
		}
	}
}

func (c *TypeChecker) checkConst(ctx *Context, d *ast.ConstDecl) {
	declared := resolveTypeNode(ctx, d.TypeNode, nil)
	c.checkExpr(ctx, d.Value, nil)
	if got := d.Value.GetType(); got != nil && !compatible(declared, got) {
		ctx.Reporter.Errorf(errors.TypeError, d.Value.Pos(), "constant '%s' declared as %s but initializer has type %s", d.Name, declared.String(), got.String())
	}
}

func (c *TypeChecker) checkFunction(ctx *Context, fd *ast.FunctionDecl) {
	selfType := selfTypeFor(ctx, fd)
	c.checkBlock(ctx, fd.Body, selfType)

	retType := fd.GetSymbol().Type.(*types.Function).Return
	bodyType := fd.Body.GetType()
	if bodyType != nil && !compatible(retType, bodyType) && !types.IsNever(bodyType) {
		ctx.Reporter.Errorf(errors.TypeError, fd.Body.Pos(), "function '%s' declared to return %s but its body has type %s", fd.Name, retType.String(), bodyType.String())
	}

	if fd.Name == "main" && fd.ImplTarget == "" {
		if !types.IsUnit(retType) {
			ctx.Reporter.Errorf(errors.TypeError, fd.Pos(), "'main' must return ()")
		}
		checkExitIsLast(ctx, fd.Body)
	}
}

// checkExitIsLast enforces the restriction that a call to `exit` may
// only appear as the final statement/tail of `main`'s top-level block —
// anything after it would be unreachable IR.
func checkExitIsLast(ctx *Context, body *ast.BlockExpr) {
	isExitCall := func(e ast.Expr) bool {
		call, ok := e.(*ast.CallExpr)
		if !ok {
			return false
		}
		v, ok := call.Callee.(*ast.VariableExpr)
		return ok && v.Name == "exit"
	}

	for i, s := range body.Stmts {
		last := i == len(body.Stmts)-1 && body.Tail == nil
		if es, ok := s.(*ast.ExprStmt); ok && isExitCall(es.Expr) && !last {
			ctx.Reporter.Errorf(errors.TypeError, es.Pos(), "'exit' must be the last statement of 'main'")
		}
	}
}

// compatible reports whether a value of type got may be used where want is
// expected: exact match, any-integer/concrete-integer unification, or got
// being the divergent `!` type.
func compatible(want, got types.Type) bool {
	if types.IsNever(got) {
		return true
	}
	_, ok := types.CanUnify(want, got)
	return ok
}

func (c *TypeChecker) checkBlock(ctx *Context, b *ast.BlockExpr, selfType types.Type) {
	for _, s := range b.Stmts {
		c.checkStmt(ctx, s, selfType)
	}
	if b.Tail != nil {
		c.checkExpr(ctx, b.Tail, selfType)
		b.SetType(b.Tail.GetType())
	} else {
		b.SetType(types.TUnit)
	}
}

func (c *TypeChecker) checkStmt(ctx *Context, s ast.Stmt, selfType types.Type) {
	switch st := s.(type) {
	case *ast.LetStmt:
		declared := resolveTypeNode(ctx, st.TypeNode, selfType)
		c.checkExpr(ctx, st.Init, selfType)
		if got := st.Init.GetType(); got != nil && !compatible(declared, got) {
			ctx.Reporter.Errorf(errors.TypeError, st.Init.Pos(), "'let' declared type %s does not match initializer type %s", declared.String(), got.String())
		}
		c.backfillPatternType(st.Pattern, declared)

	case *ast.ExprStmt:
		c.checkExpr(ctx, st.Expr, selfType)

	case *ast.ItemStmt:
		switch it := st.Item.(type) {
		case *ast.ConstDecl:
			c.checkConst(ctx, it)
		case *ast.FunctionDecl:
			c.checkFunction(ctx, it)
		case *ast.ImplBlock:
			for _, m := range it.Methods {
				c.checkFunction(ctx, m)
			}
		}
	}
}

// backfillPatternType fills in a pattern symbol's Type when the name
// resolver bound it before the type was known (this subset only needs it
// for IdentPattern under `let`, where the annotation is mandatory anyway).
func (c *TypeChecker) backfillPatternType(pat ast.Pattern, t types.Type) {
	if ip, ok := pat.(*ast.IdentPattern); ok && ip.Symbol != nil && ip.Symbol.Type == nil {
		ip.Symbol.Type = t
	}
}

func derefOnce(t types.Type) (types.Type, bool) {
	switch x := t.(type) {
	case *types.Reference:
		return x.Referent, true
	case *types.RawPointer:
		return x.Pointee, true
	}
	return t, false
}

func derefToStruct(t types.Type) (*types.Struct, bool) {
	for i := 0; i < 8; i++ {
		if st, ok := t.(*types.Struct); ok {
			return st, true
		}
		next, ok := derefOnce(t)
		if !ok {
			return nil, false
		}
		t = next
	}
	return nil, false
}

func derefToArray(t types.Type) (*types.Array, bool) {
	for i := 0; i < 8; i++ {
		if a, ok := t.(*types.Array); ok {
			return a, true
		}
		next, ok := derefOnce(t)
		if !ok {
			return nil, false
		}
		t = next
	}
	return nil, false
}

// isMutablePlace reports whether e names a location the compiler will allow
// writing through.
func isMutablePlace(e ast.Expr) bool {
	switch n := e.(type) {
	case *ast.VariableExpr:
		return n.GetSymbol() != nil && n.GetSymbol().Mutable
	case *ast.FieldAccessExpr:
		return isMutablePlace(n.Object) || throughMutableRef(n.Object.GetType())
	case *ast.IndexExpr:
		return isMutablePlace(n.Object) || throughMutableRef(n.Object.GetType())
	case *ast.DerefExpr:
		return throughMutableRef(n.Operand.GetType())
	}
	return false
}

func throughMutableRef(t types.Type) bool {
	switch x := t.(type) {
	case *types.Reference:
		return x.Mutable
	case *types.RawPointer:
		return x.Mutable
	}
	return false
}

func (c *TypeChecker) checkExpr(ctx *Context, e ast.Expr, selfType types.Type) {
	switch n := e.(type) {
	case *ast.IntLiteralExpr:
		if n.Suffix == "" {
			n.SetType(types.TAnyInteger)
		} else if p, ok := primitiveNames[n.Suffix]; ok {
			n.SetType(p)
		} else {
			n.SetType(types.TAnyInteger)
		}

	case *ast.BoolLiteralExpr:
		n.SetType(types.TBool)

	case *ast.StringLiteralExpr:
		n.SetType(types.TStr)

	case *ast.CharLiteralExpr:
		n.SetType(types.TChar)

	case *ast.VariableExpr:
		sym := n.GetSymbol()
		if sym == nil {
			return
		}
		if sym.Kind == types.SymConstant {
			if cd, ok := ctx.ConstDecls[sym.Name]; ok {
				n.SetType(resolveTypeNode(ctx, cd.TypeNode, nil))
				return
			}
		}
		n.SetType(sym.Type)

	case *ast.PathExpr:
		if sym := n.GetSymbol(); sym != nil {
			n.SetType(sym.Type)
		}

	case *ast.BinaryExpr:
		c.checkBinary(ctx, n, selfType)

	case *ast.UnaryExpr:
		c.checkExpr(ctx, n.Operand, selfType)
		ot := n.Operand.GetType()
		switch n.Op {
		case ast.OpNeg:
			if ot != nil && !types.IsInteger(ot) {
				ctx.Reporter.Errorf(errors.TypeError, n.Pos(), "unary '-' requires an integer operand, found %s", ot.String())
			}
			n.SetType(ot)
		case ast.OpNot:
			if ot != nil && types.Equal(ot, types.TBool) {
				n.SetType(types.TBool)
			} else if ot != nil && types.IsInteger(ot) {
				n.SetType(ot)
			} else if ot != nil {
				ctx.Reporter.Errorf(errors.TypeError, n.Pos(), "unary '!' requires bool or an integer, found %s", ot.String())
				n.SetType(ot)
			}
		}

	case *ast.ReferenceExpr:
		c.checkExpr(ctx, n.Operand, selfType)
		if n.Mutable && !isMutablePlace(n.Operand) {
			ctx.Reporter.Errorf(errors.TypeError, n.Pos(), "cannot borrow immutable place as mutable")
		}
		n.SetType(&types.Reference{Referent: n.Operand.GetType(), Mutable: n.Mutable})

	case *ast.DerefExpr:
		c.checkExpr(ctx, n.Operand, selfType)
		ot := n.Operand.GetType()
		if inner, ok := derefOnce(ot); ok {
			n.SetType(inner)
		} else if ot != nil {
			ctx.Reporter.Errorf(errors.TypeError, n.Pos(), "cannot dereference a value of type %s", ot.String())
		}

	case *ast.AsExpr:
		c.checkExpr(ctx, n.Operand, selfType)
		target := resolveTypeNode(ctx, n.TypeNode, selfType)
		if ot := n.Operand.GetType(); ot != nil && !types.IsInteger(ot) {
			ctx.Reporter.Errorf(errors.TypeError, n.Pos(), "'as' requires an integer operand, found %s", ot.String())
		}
		n.SetType(target)

	case *ast.AssignExpr:
		c.checkExpr(ctx, n.Target, selfType)
		c.checkExpr(ctx, n.Value, selfType)
		if !isMutablePlace(n.Target) {
			ctx.Reporter.Errorf(errors.TypeError, n.Pos(), "cannot assign to an immutable place")
		}
		if tt, vt := n.Target.GetType(), n.Value.GetType(); tt != nil && vt != nil && !compatible(tt, vt) {
			ctx.Reporter.Errorf(errors.TypeError, n.Pos(), "cannot assign %s to a place of type %s", vt.String(), tt.String())
		}
		n.SetType(types.TUnit)

	case *ast.CompoundAssignExpr:
		c.checkExpr(ctx, n.Target, selfType)
		c.checkExpr(ctx, n.Value, selfType)
		if !isMutablePlace(n.Target) {
			ctx.Reporter.Errorf(errors.TypeError, n.Pos(), "cannot assign to an immutable place")
		}
		if tt, vt := n.Target.GetType(), n.Value.GetType(); tt != nil && vt != nil {
			if _, ok := types.CanUnify(tt, vt); !ok {
				ctx.Reporter.Errorf(errors.TypeError, n.Pos(), "operator '%s=' requires matching integer types, found %s and %s", n.Op.String(), tt.String(), vt.String())
			}
		}
		n.SetType(types.TUnit)

	case *ast.CallExpr:
		c.checkExpr(ctx, n.Callee, selfType)
		for _, a := range n.Args {
			c.checkExpr(ctx, a, selfType)
		}
		if pe, ok := n.Callee.(*ast.PathExpr); ok {
			if sym := pe.GetSymbol(); sym != nil && sym.Kind == types.SymVariant {
				n.SetType(sym.Type)
				return
			}
		}
		ft, ok := n.Callee.GetType().(*types.Function)
		if !ok {
			if n.Callee.GetType() != nil {
				ctx.Reporter.Errorf(errors.TypeError, n.Pos(), "expression is not callable")
			}
			return
		}
		if len(n.Args) != len(ft.Params) {
			ctx.Reporter.Errorf(errors.TypeError, n.Pos(), "expected %d argument(s), found %d", len(ft.Params), len(n.Args))
		} else {
			for i, a := range n.Args {
				if at := a.GetType(); at != nil && !compatible(ft.Params[i], at) {
					ctx.Reporter.Errorf(errors.TypeError, a.Pos(), "argument %d: expected %s, found %s", i+1, ft.Params[i].String(), at.String())
				}
			}
		}
		n.SetType(ft.Return)

	case *ast.MethodCallExpr:
		c.checkExpr(ctx, n.Receiver, selfType)
		for _, a := range n.Args {
			c.checkExpr(ctx, a, selfType)
		}
		c.checkMethodCall(ctx, n)

	case *ast.IndexExpr:
		c.checkExpr(ctx, n.Object, selfType)
		c.checkExpr(ctx, n.Index, selfType)
		if it := n.Index.GetType(); it != nil && !types.IsInteger(it) {
			ctx.Reporter.Errorf(errors.TypeError, n.Index.Pos(), "array index must be an integer, found %s", it.String())
		}
		if arr, ok := derefToArray(n.Object.GetType()); ok {
			n.SetType(arr.Elem)
		} else if ot := n.Object.GetType(); ot != nil {
			ctx.Reporter.Errorf(errors.TypeError, n.Pos(), "cannot index into a value of type %s", ot.String())
		}

	case *ast.FieldAccessExpr:
		c.checkExpr(ctx, n.Object, selfType)
		st, ok := derefToStruct(n.Object.GetType())
		if !ok {
			if n.Object.GetType() != nil {
				ctx.Reporter.Errorf(errors.TypeError, n.Pos(), "cannot access field '%s' on a value of type %s", n.Field, n.Object.GetType().String())
			}
			return
		}
		ft, ok := st.FieldType(n.Field)
		if !ok {
			ctx.Reporter.Errorf(errors.NameError, n.Pos(), "struct '%s' has no field '%s'", st.Name, n.Field)
			return
		}
		n.SetType(ft)

	case *ast.StructInitializerExpr:
		c.checkStructInitializer(ctx, n, selfType)

	case *ast.ArrayLiteralExpr:
		var elem types.Type
		for _, el := range n.Elements {
			c.checkExpr(ctx, el, selfType)
			if elem == nil {
				elem = el.GetType()
				continue
			}
			if et := el.GetType(); et != nil {
				if u, ok := types.CanUnify(elem, et); ok {
					elem = u
				} else {
					ctx.Reporter.Errorf(errors.TypeError, el.Pos(), "array elements must share a type: expected %s, found %s", elem.String(), et.String())
				}
			}
		}
		if elem == nil {
			elem = types.TUnit
		}
		n.SetType(&types.Array{Elem: elem, Size: int64(len(n.Elements))})

	case *ast.ArrayRepeatExpr:
		c.checkExpr(ctx, n.Value, selfType)
		size, ok := ctx.ConstEval.EvalInt(n.Size)
		if !ok {
			size = 0
		}
		n.SetType(&types.Array{Elem: n.Value.GetType(), Size: size})

	case *ast.BlockExpr:
		c.checkBlock(ctx, n, selfType)

	case *ast.IfExpr:
		c.checkExpr(ctx, n.Cond, selfType)
		if ct := n.Cond.GetType(); ct != nil && !types.Equal(ct, types.TBool) {
			ctx.Reporter.Errorf(errors.TypeError, n.Cond.Pos(), "'if' condition must be bool, found %s", ct.String())
		}
		c.checkBlock(ctx, n.Then, selfType)
		if n.Else != nil {
			c.checkExpr(ctx, n.Else, selfType)
			tt, et := n.Then.GetType(), n.Else.GetType()
			if u, ok := types.CanUnify(tt, et); ok {
				n.SetType(u)
			} else if types.IsNever(tt) {
				n.SetType(et)
			} else if types.IsNever(et) {
				n.SetType(tt)
			} else {
				ctx.Reporter.Errorf(errors.TypeError, n.Pos(), "'if' branches have incompatible types: %s and %s", tt.String(), et.String())
				n.SetType(types.TUnit)
			}
		} else {
			n.SetType(types.TUnit)
		}

	case *ast.WhileExpr:
		c.checkExpr(ctx, n.Cond, selfType)
		if ct := n.Cond.GetType(); ct != nil && !types.Equal(ct, types.TBool) {
			ctx.Reporter.Errorf(errors.TypeError, n.Cond.Pos(), "'while' condition must be bool, found %s", ct.String())
		}
		c.checkBlock(ctx, n.Body, selfType)
		// Decision on the open question: `while` never yields a value —
		// `break <expr>` inside a `while` is rejected, only bare `break` is
		// legal, so a `while` expression is always unit-typed.
		checkNoValuedBreak(ctx, n.Body)
		n.SetType(types.TUnit)

	case *ast.LoopExpr:
		c.checkBlock(ctx, n.Body, selfType)
		n.SetType(loopResultType(ctx, n.Body))

	case *ast.BreakExpr:
		if n.Value != nil {
			c.checkExpr(ctx, n.Value, selfType)
		}
		n.SetType(types.TNever)

	case *ast.ContinueExpr:
		n.SetType(types.TNever)

	case *ast.MatchExpr:
		c.checkExpr(ctx, n.Scrutinee, selfType)
		var result types.Type
		for _, arm := range n.Arms {
			c.backfillPatternType(arm.Pattern, n.Scrutinee.GetType())
			if arm.Guard != nil {
				c.checkExpr(ctx, arm.Guard, selfType)
			}
			c.checkExpr(ctx, arm.Body, selfType)
			bt := arm.Body.GetType()
			if result == nil {
				result = bt
				continue
			}
			if u, ok := types.CanUnify(result, bt); ok {
				result = u
			} else if types.IsNever(bt) {
				// keep result
			} else if types.IsNever(result) {
				result = bt
			} else {
				ctx.Reporter.Errorf(errors.TypeError, arm.Body.Pos(), "match arms have incompatible types: %s and %s", result.String(), bt.String())
			}
		}
		if result == nil {
			result = types.TUnit
		}
		n.SetType(result)
	}
}

func (c *TypeChecker) checkBinary(ctx *Context, n *ast.BinaryExpr, selfType types.Type) {
	c.checkExpr(ctx, n.Left, selfType)
	c.checkExpr(ctx, n.Right, selfType)
	lt, rt := n.Left.GetType(), n.Right.GetType()
	if lt == nil || rt == nil {
		return
	}

	switch n.Op {
	case ast.OpLogicalAnd, ast.OpLogicalOr:
		if !types.Equal(lt, types.TBool) || !types.Equal(rt, types.TBool) {
			ctx.Reporter.Errorf(errors.TypeError, n.Pos(), "'%s' requires bool operands", n.Op.String())
		}
		n.SetType(types.TBool)

	case ast.OpEq, ast.OpNe:
		if _, ok := types.CanUnify(lt, rt); !ok && !types.Equal(lt, rt) {
			ctx.Reporter.Errorf(errors.TypeError, n.Pos(), "cannot compare %s and %s", lt.String(), rt.String())
		}
		n.SetType(types.TBool)

	case ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe:
		if _, ok := types.CanUnify(lt, rt); !ok {
			ctx.Reporter.Errorf(errors.TypeError, n.Pos(), "'%s' requires matching integer operands, found %s and %s", n.Op.String(), lt.String(), rt.String())
		}
		n.SetType(types.TBool)

	case ast.OpAdd, ast.OpSub:
		// raw-pointer arithmetic: pointer +/- integer yields the same pointer type
		if rp, ok := lt.(*types.RawPointer); ok && types.IsInteger(rt) {
			n.SetType(rp)
			return
		}
		if rp, ok := rt.(*types.RawPointer); ok && types.IsInteger(lt) && n.Op == ast.OpAdd {
			n.SetType(rp)
			return
		}
		fallthrough
	case ast.OpMul, ast.OpDiv, ast.OpMod, ast.OpAnd, ast.OpOr, ast.OpXor, ast.OpShl, ast.OpShr:
		u, ok := types.CanUnify(lt, rt)
		if !ok {
			ctx.Reporter.Errorf(errors.TypeError, n.Pos(), "'%s' requires matching integer operands, found %s and %s", n.Op.String(), lt.String(), rt.String())
			n.SetType(lt)
			return
		}
		n.SetType(u)

	default:
		n.SetType(lt)
	}
}

// checkMethodCall resolves n.Method against the receiver's (auto-dereffed)
// struct/enum member table and fills in n.MethodSymbol, since name
// resolution could not do this without first knowing the receiver's type.
func (c *TypeChecker) checkMethodCall(ctx *Context, n *ast.MethodCallExpr) {
	rt := n.Receiver.GetType()
	if rt == nil {
		return
	}
	var members *types.MemberTable
	if st, ok := derefToStruct(rt); ok {
		members = st.Members
	} else if base, ok := derefOnce(rt); ok {
		if en, ok := base.(*types.Enum); ok {
			members = en.Members
		}
	} else if en, ok := rt.(*types.Enum); ok {
		members = en.Members
	}
	if members == nil {
		ctx.Reporter.Errorf(errors.TypeError, n.Pos(), "type %s has no methods", rt.String())
		return
	}
	sym, ok := members.Methods[n.Method]
	if !ok {
		ctx.Reporter.Errorf(errors.NameError, n.Pos(), "no method '%s' found for %s", n.Method, rt.String())
		return
	}
	n.MethodSymbol = sym
	fn := sym.Type.(*types.Function)
	if len(n.Args) != len(fn.Params) {
		ctx.Reporter.Errorf(errors.TypeError, n.Pos(), "method '%s' expects %d argument(s), found %d", n.Method, len(fn.Params), len(n.Args))
	} else {
		for i, a := range n.Args {
			if at := a.GetType(); at != nil && !compatible(fn.Params[i], at) {
				ctx.Reporter.Errorf(errors.TypeError, a.Pos(), "argument %d: expected %s, found %s", i+1, fn.Params[i].String(), at.String())
			}
		}
	}
	n.SetType(fn.Return)
}

func (c *TypeChecker) checkStructInitializer(ctx *Context, n *ast.StructInitializerExpr, selfType types.Type) {
	sym := n.GetSymbol()
	if sym == nil {
		for _, f := range n.Fields {
			c.checkExpr(ctx, f.Value, selfType)
		}
		return
	}
	st, ok := sym.Type.(*types.Struct)
	if !ok {
		ctx.Reporter.Errorf(errors.TypeError, n.Pos(), "'%s' is not a struct", n.StructName)
		return
	}
	seen := make(map[string]bool, len(n.Fields))
	for _, f := range n.Fields {
		c.checkExpr(ctx, f.Value, selfType)
		seen[f.Name] = true
		ft, ok := st.FieldType(f.Name)
		if !ok {
			ctx.Reporter.Errorf(errors.NameError, f.Pos(), "struct '%s' has no field '%s'", st.Name, f.Name)
			continue
		}
		if vt := f.Value.GetType(); vt != nil && !compatible(ft, vt) {
			ctx.Reporter.Errorf(errors.TypeError, f.Value.Pos(), "field '%s' expects %s, found %s", f.Name, ft.String(), vt.String())
		}
	}
	for _, fe := range st.Fields {
		if !seen[fe.Name] {
			ctx.Reporter.Errorf(errors.TypeError, n.Pos(), "missing field '%s' in initializer for '%s'", fe.Name, st.Name)
		}
	}
	n.SetType(st)
}

// checkNoValuedBreak rejects `break <expr>` anywhere inside a while-loop's
// body, not crossing into a nested loop/while/closure boundary (a nested
// loop's own `break value` is unrelated to this while).
func checkNoValuedBreak(ctx *Context, b *ast.BlockExpr) {
	var walk func(e ast.Expr)
	walkBlock := func(blk *ast.BlockExpr) {
		for _, s := range blk.Stmts {
			if es, ok := s.(*ast.ExprStmt); ok {
				walk(es.Expr)
			}
		}
		if blk.Tail != nil {
			walk(blk.Tail)
		}
	}
	walk = func(e ast.Expr) {
		switch n := e.(type) {
		case *ast.BreakExpr:
			if n.Value != nil {
				ctx.Reporter.Errorf(errors.TypeError, n.Pos(), "'break' with a value is not permitted inside 'while'")
			}
		case *ast.IfExpr:
			walkBlock(n.Then)
			if eb, ok := n.Else.(*ast.BlockExpr); ok {
				walkBlock(eb)
			} else if ei, ok := n.Else.(*ast.IfExpr); ok {
				walk(ei)
			}
		case *ast.BlockExpr:
			walkBlock(n)
		case *ast.MatchExpr:
			for _, arm := range n.Arms {
				walk(arm.Body)
			}
		// LoopExpr/WhileExpr introduce their own break target; do not descend.
		case *ast.LoopExpr, *ast.WhileExpr:
		}
	}
	walkBlock(b)
}

// loopResultType computes a `loop { … }` expression's type from the `break`
// statements reachable inside it (not crossing into a nested loop): with no
// break at all the loop never returns normally and is `!`; if only bare
// breaks occur it is `()`; otherwise every valued break must unify with the
// first one, and a TypeError is reported for each one that does not.
func loopResultType(ctx *Context, b *ast.BlockExpr) types.Type {
	var result types.Type
	found := false

	var walk func(e ast.Expr)
	walkBlock := func(blk *ast.BlockExpr) {
		for _, s := range blk.Stmts {
			if es, ok := s.(*ast.ExprStmt); ok {
				walk(es.Expr)
			}
		}
		if blk.Tail != nil {
			walk(blk.Tail)
		}
	}
	walk = func(e ast.Expr) {
		switch n := e.(type) {
		case *ast.BreakExpr:
			found = true
			if n.Value != nil {
				vt := n.Value.GetType()
				if result == nil {
					result = vt
				} else if u, ok := types.CanUnify(result, vt); ok {
					result = u
				} else if vt != nil {
					ctx.Reporter.Errorf(errors.TypeError, n.Value.Pos(), "'break' value has type %s, expected %s", vt.String(), result.String())
				}
			} else if result == nil {
				result = types.TUnit
			}
		case *ast.IfExpr:
			walkBlock(n.Then)
			if eb, ok := n.Else.(*ast.BlockExpr); ok {
				walkBlock(eb)
			} else if ei, ok := n.Else.(*ast.IfExpr); ok {
				walk(ei)
			}
		case *ast.BlockExpr:
			walkBlock(n)
		case *ast.MatchExpr:
			for _, arm := range n.Arms {
				walk(arm.Body)
			}
		case *ast.LoopExpr, *ast.WhileExpr:
		}
	}
	walkBlock(b)

	if !found {
		return types.TNever
	}
	if result == nil {
		return types.TUnit
	}
	return result
}
