package semantic

import (
	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/ast"
	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/errors"
	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/types"
)

// NameResolver walks the program in six ordered waves over the top-level
// items so that a function may call another declared later in the file, a
// struct may hold a field of a type declared later, and so on, while still
// reporting a genuinely undefined name as a NameError.
type NameResolver struct{}

func NewNameResolver() *NameResolver { return &NameResolver{} }

func (r *NameResolver) Name() string { return "name-resolver" }

func (r *NameResolver) Run(prog *ast.Program, ctx *Context) {
	// wave 1: constants (value namespace; left unevaluated — the constant
	// evaluator re-walks ConstNode lazily the first time a use needs it).
	for _, it := range prog.Items {
		if cd, ok := it.(*ast.ConstDecl); ok {
			r.declareConst(ctx, cd)
		}
	}

	// wave 2: struct/enum names, declared with empty bodies so field and
	// variant types (wave 5) may refer forward to any type in the program.
	for _, it := range prog.Items {
		switch d := it.(type) {
		case *ast.StructDecl:
			r.declareStructShell(ctx, d)
		case *ast.EnumDecl:
			r.declareEnumShell(ctx, d)
		}
	}

	// wave 3: free function signatures.
	for _, it := range prog.Items {
		if fd, ok := it.(*ast.FunctionDecl); ok {
			sym := r.declareFunctionSignature(ctx, fd, nil)
			ctx.DefineValue(sym, fd.Pos())
		}
	}

	// wave 4: impl-block methods and associated functions, attached to the
	// target's member table rather than the value scope.
	for _, it := range prog.Items {
		if ib, ok := it.(*ast.ImplBlock); ok {
			r.declareImplBlock(ctx, ib)
		}
	}

	// wave 5: struct fields / enum variant payloads, now that every type name
	// in the program is declared.
	for _, it := range prog.Items {
		switch d := it.(type) {
		case *ast.StructDecl:
			r.resolveStructBody(ctx, d)
		case *ast.EnumDecl:
			r.resolveEnumBody(ctx, d)
		}
	}

	// wave 6: function and method bodies.
	for _, it := range prog.Items {
		switch d := it.(type) {
		case *ast.FunctionDecl:
			r.resolveFunctionBody(ctx, d)
		case *ast.ImplBlock:
			for _, m := range d.Methods {
				r.resolveFunctionBody(ctx, m)
			}
		}
	}
}

func (r *NameResolver) declareConst(ctx *Context, cd *ast.ConstDecl) {
	sym := &types.Symbol{Name: cd.Name, Kind: types.SymConstant, ConstNode: cd}
	ctx.DefineValue(sym, cd.Pos())
	cd.SetSymbol(sym)
	ctx.ConstDecls[cd.Name] = cd
}

func (r *NameResolver) declareStructShell(ctx *Context, d *ast.StructDecl) {
	st := &types.Struct{Name: d.Name, FieldIndex: map[string]int{}, Members: types.NewMemberTable()}
	sym := &types.Symbol{Name: d.Name, Kind: types.SymType, Type: st}
	st.Symbol = sym
	ctx.DefineType(sym, d.Pos())
	d.SetSymbol(sym)
	ctx.StructDecls[d.Name] = d
}

func (r *NameResolver) declareEnumShell(ctx *Context, d *ast.EnumDecl) {
	en := &types.Enum{Name: d.Name, ByName: map[string]int{}, Members: types.NewMemberTable()}
	sym := &types.Symbol{Name: d.Name, Kind: types.SymType, Type: en}
	en.Symbol = sym
	ctx.DefineType(sym, d.Pos())
	d.SetSymbol(sym)
	ctx.EnumDecls[d.Name] = d
}

// declareFunctionSignature resolves fd's parameter/return types and builds
// its Symbol, without defining it in any scope — callers decide whether it
// belongs in the value namespace (free function) or a member table (method).
// selfType is non-nil only while resolving a method/associated function
// inside an impl block, and is what `Self` and a `self` receiver resolve to.
func (r *NameResolver) declareFunctionSignature(ctx *Context, fd *ast.FunctionDecl, selfType types.Type) *types.Symbol {
	var params []types.Type
	for _, p := range fd.Params {
		if p.IsSelf {
			continue // the receiver is not part of the function's value type
		}
		params = append(params, resolveTypeNode(ctx, p.TypeNode, selfType))
	}
	ret := types.Type(types.TUnit)
	if fd.ReturnType != nil {
		ret = resolveTypeNode(ctx, fd.ReturnType, selfType)
	}
	sym := &types.Symbol{Name: fd.Name, Kind: types.SymFunction, Type: &types.Function{Params: params, Return: ret}}
	fd.SetSymbol(sym)
	return sym
}

func memberTableOf(t types.Type) *types.MemberTable {
	switch x := t.(type) {
	case *types.Struct:
		return x.Members
	case *types.Enum:
		return x.Members
	}
	return nil
}

func (r *NameResolver) declareImplBlock(ctx *Context, ib *ast.ImplBlock) {
	targetSym, ok := ctx.Scope().LookupType(ib.TargetName)
	if !ok {
		ctx.Reporter.Errorf(errors.NameError, ib.Pos(), "impl block names undefined type '%s'", ib.TargetName)
		return
	}
	selfType := targetSym.Type
	members := memberTableOf(selfType)

	for _, m := range ib.Methods {
		sym := r.declareFunctionSignature(ctx, m, selfType)
		if m.IsMethod() {
			if _, exists := members.Methods[m.Name]; exists {
				ctx.Reporter.Errorf(errors.NameError, m.Pos(), "method '%s' is already defined for '%s'", m.Name, ib.TargetName)
				continue
			}
			members.Methods[m.Name] = sym
		} else {
			if _, exists := members.AssocFns[m.Name]; exists {
				ctx.Reporter.Errorf(errors.NameError, m.Pos(), "associated function '%s' is already defined for '%s'", m.Name, ib.TargetName)
				continue
			}
			members.AssocFns[m.Name] = sym
		}
	}
}

func (r *NameResolver) resolveStructBody(ctx *Context, d *ast.StructDecl) {
	st := d.GetSymbol().Type.(*types.Struct)
	for i, f := range d.Fields {
		ft := resolveTypeNode(ctx, f.TypeNode, nil)
		elem := ft
		for arr, ok := elem.(*types.Array); ok; arr, ok = elem.(*types.Array) {
			elem = arr.Elem
		}
		if es, ok := elem.(*types.Struct); ok && es == st {
			ctx.Reporter.Errorf(errors.NameError, f.Pos(), "struct '%s' contains itself by value (infinite size)", d.Name)
		}
		st.FieldIndex[f.Name] = i
		st.Fields = append(st.Fields, types.FieldEntry{Name: f.Name, Type: ft})
	}
}

func (r *NameResolver) resolveEnumBody(ctx *Context, d *ast.EnumDecl) {
	en := d.GetSymbol().Type.(*types.Enum)
	for i, v := range d.Variants {
		payload := make([]types.Type, len(v.Payload))
		for j, p := range v.Payload {
			payload[j] = resolveTypeNode(ctx, p, nil)
		}
		en.ByName[v.Name] = i
		en.Variants = append(en.Variants, types.EnumVariant{Name: v.Name, Index: i, Payload: payload})
	}
}

// selfTypeFor looks up the semantic type an impl-block-nested function's
// `Self`/`self` refer to; it is nil for a free function.
func selfTypeFor(ctx *Context, fd *ast.FunctionDecl) types.Type {
	if fd.ImplTarget == "" {
		return nil
	}
	sym, ok := ctx.Scope().LookupType(fd.ImplTarget)
	if !ok {
		return nil
	}
	return sym.Type
}

func (r *NameResolver) resolveFunctionBody(ctx *Context, fd *ast.FunctionDecl) {
	selfType := selfTypeFor(ctx, fd)
	ctx.Push()
	defer ctx.Pop()

	for _, p := range fd.Params {
		if p.IsSelf {
			recvType := types.Type(&types.Reference{Referent: selfType, Mutable: p.Mutable})
			sym := &types.Symbol{Name: "self", Kind: types.SymVariable, Type: recvType, Mutable: p.Mutable}
			ctx.DefineValue(sym, p.Pos())
			p.Symbol = sym
			continue
		}
		pt := resolveTypeNode(ctx, p.TypeNode, selfType)
		sym := &types.Symbol{Name: p.Name, Kind: types.SymVariable, Type: pt, Mutable: p.Mutable}
		ctx.DefineValue(sym, p.Pos())
		p.Symbol = sym
	}

	r.resolveBlock(ctx, fd.Body, selfType)
}

func (r *NameResolver) resolveBlock(ctx *Context, block *ast.BlockExpr, selfType types.Type) {
	ctx.Push()
	defer ctx.Pop()
	for _, s := range block.Stmts {
		r.resolveStmt(ctx, s, selfType)
	}
	if block.Tail != nil {
		r.resolveExpr(ctx, block.Tail, selfType)
	}
}

func (r *NameResolver) resolveStmt(ctx *Context, s ast.Stmt, selfType types.Type) {
	switch st := s.(type) {
	case *ast.LetStmt:
		r.resolveExpr(ctx, st.Init, selfType)
		declared := resolveTypeNode(ctx, st.TypeNode, selfType)
		r.bindPattern(ctx, st.Pattern, declared)

	case *ast.ExprStmt:
		r.resolveExpr(ctx, st.Expr, selfType)

	case *ast.ItemStmt:
		r.resolveLocalItem(ctx, st.Item, selfType)
	}
}

// resolveLocalItem handles an item declared inside a function body. Local
// items are rare enough in this subset that a single-pass declare-then-
// resolve is sufficient rather than threading them through the full
// six-wave machinery; forward reference to a sibling local item is not
// supported, matching how the block they live in is itself sequential.
func (r *NameResolver) resolveLocalItem(ctx *Context, it ast.Item, selfType types.Type) {
	switch d := it.(type) {
	case *ast.ConstDecl:
		r.declareConst(ctx, d)
	case *ast.StructDecl:
		r.declareStructShell(ctx, d)
		r.resolveStructBody(ctx, d)
	case *ast.EnumDecl:
		r.declareEnumShell(ctx, d)
		r.resolveEnumBody(ctx, d)
	case *ast.FunctionDecl:
		sym := r.declareFunctionSignature(ctx, d, nil)
		ctx.DefineValue(sym, d.Pos())
		r.resolveFunctionBody(ctx, d)
	case *ast.ImplBlock:
		r.declareImplBlock(ctx, d)
		for _, m := range d.Methods {
			r.resolveFunctionBody(ctx, m)
		}
	}
}

// bindPattern defines the names a pattern introduces in the current scope,
// checking it against contextType where that is meaningful. contextType may
// be nil when the binding type will only be known once the type checker
// runs (match arms over a not-yet-typed scrutinee); the type checker
// back-fills such symbols by identity once it computes the real type.
func (r *NameResolver) bindPattern(ctx *Context, pat ast.Pattern, contextType types.Type) {
	switch p := pat.(type) {
	case *ast.IdentPattern:
		sym := &types.Symbol{Name: p.Name, Kind: types.SymVariable, Type: contextType, Mutable: p.Mutable}
		ctx.DefineValue(sym, p.Pos())
		p.Symbol = sym

	case *ast.WildcardPattern:
		// binds nothing

	case *ast.ReferencePattern:
		ref, ok := contextType.(*types.Reference)
		if !ok {
			if contextType != nil {
				ctx.Reporter.Errorf(errors.TypeError, p.Pos(), "expected a reference pattern to match a reference type, found %s", contextType.String())
			}
			r.bindPattern(ctx, p.Inner, nil)
			return
		}
		if p.Mutable && !ref.Mutable {
			ctx.Reporter.Errorf(errors.TypeError, p.Pos(), "cannot bind '&mut' pattern against a shared reference")
		}
		r.bindPattern(ctx, p.Inner, ref.Referent)

	case *ast.LiteralPattern:
		r.resolveExpr(ctx, p.Literal, nil)

	case *ast.EnumVariantPattern:
		sym, ok := ctx.Scope().LookupType(p.EnumName)
		if !ok {
			ctx.Reporter.Errorf(errors.NameError, p.Pos(), "undefined type '%s'", p.EnumName)
			return
		}
		p.Symbol = sym
		en, ok := sym.Type.(*types.Enum)
		if !ok {
			ctx.Reporter.Errorf(errors.TypeError, p.Pos(), "'%s' is not an enum", p.EnumName)
			return
		}
		idx, ok := en.ByName[p.VariantName]
		if !ok {
			ctx.Reporter.Errorf(errors.NameError, p.Pos(), "enum '%s' has no variant '%s'", p.EnumName, p.VariantName)
			return
		}
		payload := en.Variants[idx].Payload
		for i, b := range p.Bindings {
			var bt types.Type
			if i < len(payload) {
				bt = payload[i]
			}
			r.bindPattern(ctx, b, bt)
		}

	case *ast.StructPattern:
		sym, ok := ctx.Scope().LookupType(p.StructName)
		if !ok {
			ctx.Reporter.Errorf(errors.NameError, p.Pos(), "undefined type '%s'", p.StructName)
			return
		}
		p.Symbol = sym
		st, ok := sym.Type.(*types.Struct)
		if !ok {
			ctx.Reporter.Errorf(errors.TypeError, p.Pos(), "'%s' is not a struct", p.StructName)
			return
		}
		for i := range p.Fields {
			f := &p.Fields[i]
			ft, _ := st.FieldType(f.Name)
			if f.Binding == nil {
				sym := &types.Symbol{Name: f.Name, Kind: types.SymVariable, Type: ft}
				ctx.DefineValue(sym, p.Pos())
				f.Symbol = sym
			} else {
				r.bindPattern(ctx, f.Binding, ft)
			}
		}
	}
}

// resolveExpr walks e, resolving every identifier-like subexpression to a
// Symbol. Expressions whose resolution genuinely depends on a type not yet
// known (method names, field names) are left for the type checker, which
// has the receiver/object type in hand.
func (r *NameResolver) resolveExpr(ctx *Context, e ast.Expr, selfType types.Type) {
	switch n := e.(type) {
	case *ast.IntLiteralExpr, *ast.BoolLiteralExpr, *ast.StringLiteralExpr, *ast.CharLiteralExpr, *ast.ContinueExpr:
		// no identifiers to resolve

	case *ast.VariableExpr:
		sym, ok := ctx.Scope().LookupValue(n.Name)
		if !ok {
			ctx.Reporter.Errorf(errors.NameError, n.Pos(), "undefined identifier '%s'", n.Name)
			return
		}
		n.SetSymbol(sym)

	case *ast.PathExpr:
		r.resolvePath(ctx, n)

	case *ast.BinaryExpr:
		r.resolveExpr(ctx, n.Left, selfType)
		r.resolveExpr(ctx, n.Right, selfType)

	case *ast.UnaryExpr:
		r.resolveExpr(ctx, n.Operand, selfType)

	case *ast.ReferenceExpr:
		r.resolveExpr(ctx, n.Operand, selfType)

	case *ast.DerefExpr:
		r.resolveExpr(ctx, n.Operand, selfType)

	case *ast.AsExpr:
		r.resolveExpr(ctx, n.Operand, selfType)
		resolveTypeNode(ctx, n.TypeNode, selfType)

	case *ast.AssignExpr:
		r.resolveExpr(ctx, n.Target, selfType)
		r.resolveExpr(ctx, n.Value, selfType)

	case *ast.CompoundAssignExpr:
		r.resolveExpr(ctx, n.Target, selfType)
		r.resolveExpr(ctx, n.Value, selfType)

	case *ast.CallExpr:
		r.resolveExpr(ctx, n.Callee, selfType)
		for _, a := range n.Args {
			r.resolveExpr(ctx, a, selfType)
		}

	case *ast.MethodCallExpr:
		r.resolveExpr(ctx, n.Receiver, selfType)
		for _, a := range n.Args {
			r.resolveExpr(ctx, a, selfType)
		}

	case *ast.IndexExpr:
		r.resolveExpr(ctx, n.Object, selfType)
		r.resolveExpr(ctx, n.Index, selfType)

	case *ast.FieldAccessExpr:
		r.resolveExpr(ctx, n.Object, selfType)

	case *ast.StructInitializerExpr:
		if sym, ok := ctx.Scope().LookupType(n.StructName); ok {
			n.SetSymbol(sym)
		} else {
			ctx.Reporter.Errorf(errors.NameError, n.Pos(), "undefined type '%s'", n.StructName)
		}
		for _, f := range n.Fields {
			r.resolveExpr(ctx, f.Value, selfType)
		}

	case *ast.ArrayLiteralExpr:
		for _, el := range n.Elements {
			r.resolveExpr(ctx, el, selfType)
		}

	case *ast.ArrayRepeatExpr:
		r.resolveExpr(ctx, n.Value, selfType)
		r.resolveExpr(ctx, n.Size, selfType)

	case *ast.BlockExpr:
		r.resolveBlock(ctx, n, selfType)

	case *ast.IfExpr:
		r.resolveExpr(ctx, n.Cond, selfType)
		r.resolveBlock(ctx, n.Then, selfType)
		if n.Else != nil {
			r.resolveExpr(ctx, n.Else, selfType)
		}

	case *ast.WhileExpr:
		r.resolveExpr(ctx, n.Cond, selfType)
		r.resolveBlock(ctx, n.Body, selfType)

	case *ast.LoopExpr:
		r.resolveBlock(ctx, n.Body, selfType)

	case *ast.BreakExpr:
		if n.Value != nil {
			r.resolveExpr(ctx, n.Value, selfType)
		}

	case *ast.MatchExpr:
		r.resolveExpr(ctx, n.Scrutinee, selfType)
		for _, arm := range n.Arms {
			ctx.Push()
			r.bindPattern(ctx, arm.Pattern, n.Scrutinee.GetType())
			if arm.Guard != nil {
				r.resolveExpr(ctx, arm.Guard, selfType)
			}
			r.resolveExpr(ctx, arm.Body, selfType)
			ctx.Pop()
		}
	}
}

// resolvePath resolves `Base::Item`: an enum variant (constructor position),
// an associated function on a struct/enum, or a reserved primitive-type
// builtin (`u32::to_string`, …).
func (r *NameResolver) resolvePath(ctx *Context, n *ast.PathExpr) {
	if fn, ok := builtinPathFunctions[n.Base+"::"+n.Item]; ok {
		n.SetSymbol(&types.Symbol{Name: n.Base + "::" + n.Item, Kind: types.SymFunction, Builtin: true, Type: fn})
		return
	}

	sym, ok := ctx.Scope().LookupType(n.Base)
	if !ok {
		ctx.Reporter.Errorf(errors.NameError, n.Pos(), "undefined type '%s'", n.Base)
		return
	}
	switch t := sym.Type.(type) {
	case *types.Enum:
		if idx, ok := t.ByName[n.Item]; ok {
			n.SetSymbol(&types.Symbol{Name: n.Item, Kind: types.SymVariant, Type: sym.Type})
			_ = idx
			return
		}
		if fn, ok := t.Members.AssocFns[n.Item]; ok {
			n.SetSymbol(fn)
			return
		}
	case *types.Struct:
		if fn, ok := t.Members.AssocFns[n.Item]; ok {
			n.SetSymbol(fn)
			return
		}
	}
	ctx.Reporter.Errorf(errors.NameError, n.Pos(), "'%s' has no member '%s'", n.Base, n.Item)
}
