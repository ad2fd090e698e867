package ir

import (
	"fmt"
	"sort"
	"strings"

	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/ast"
	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/errors"
	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/semantic"
	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/types"
)

// builtinRuntime maps the builtin surface onto the tiny C runtime shim this
// compiler links against; user code never sees these names.
var builtinRuntime = map[string]struct {
	decl string
	ret  string
}{
	"printInt":   {"declare void @rt_print_int(i32)", "void"},
	"printlnInt": {"declare void @rt_println_int(i32)", "void"},
	"getInt":     {"declare i32 @rt_get_int()", "i32"},
	"exit":       {"declare void @exit(i32)", "void"},
	"print":      {"declare void @rt_print_str(i8*)", "void"},
	"println":    {"declare void @rt_println_str(i8*)", "void"},
	"getString":  {"declare i8* @rt_get_string()", "i8*"},
}

// loopCtx tracks the labels and (if the loop yields a value) result slot a
// `break`/`continue` inside the innermost loop/while targets.
type loopCtx struct {
	breakLabel, continueLabel string
	resultSlot, resultLLVM    string
}

// Generator lowers a fully resolved/checked ast.Program to LLVM textual IR.
// One Generator is used for an entire module; per-function state (the
// emitter, local variable slots, the loop-context stack) is reset at the
// start of each genFunction call.
type Generator struct {
	ctx *semantic.Context
	tm  *TypeMapper

	usedBuiltins map[string]bool
	usedMemset   bool
	stringConsts []string // rendered @.str.N global definitions

	emit  *Emitter
	vars  map[*types.Symbol]string // symbol -> alloca pointer register
	loops []loopCtx

	retLLVM string
	sretPtr string // "%sret.result" when the current function uses sret, else ""

	// pendingFuncs collects local fn items discovered while generating a
	// function body; each becomes its own ordinary module-level definition,
	// emitted once the enclosing function's body has been rendered.
	pendingFuncs []*ast.FunctionDecl
}

// Generate runs the whole pipeline's final stage, producing the textual IR
// module for prog (already name-resolved and type-checked via ctx).
func Generate(prog *ast.Program, ctx *semantic.Context) string {
	g := &Generator{ctx: ctx, tm: NewTypeMapper(), usedBuiltins: map[string]bool{}, vars: map[*types.Symbol]string{}}

	var typeDefs []string
	for _, name := range sortedKeys(ctx.StructDecls) {
		st := ctx.StructDecls[name].GetSymbol().Type.(*types.Struct)
		typeDefs = append(typeDefs, g.tm.Definition(st))
	}
	for _, name := range sortedKeysEnum(ctx.EnumDecls) {
		en := ctx.EnumDecls[name].GetSymbol().Type.(*types.Enum)
		typeDefs = append(typeDefs, g.tm.Definition(en))
	}

	var funcs []string
	for _, it := range prog.Items {
		switch d := it.(type) {
		case *ast.FunctionDecl:
			funcs = append(funcs, g.genFunctionAll(d)...)
		case *ast.ImplBlock:
			for _, m := range d.Methods {
				funcs = append(funcs, g.genFunctionAll(m)...)
			}
		}
	}

	var sb strings.Builder
	for _, td := range typeDefs {
		sb.WriteString(td)
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')
	for _, name := range sortedBuiltinNames(g.usedBuiltins) {
		sb.WriteString(builtinRuntime[name].decl)
		sb.WriteByte('\n')
	}
	if g.usedMemset {
		sb.WriteString("declare void @llvm.memset.p0.i64(i8*, i8, i64, i1)\n")
	}
	sb.WriteByte('\n')
	for _, s := range g.stringConsts {
		sb.WriteString(s)
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')
	for _, f := range funcs {
		sb.WriteString(f)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func sortedKeys(m map[string]*ast.StructDecl) []string {
	ks := make([]string, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}

func sortedKeysEnum(m map[string]*ast.EnumDecl) []string {
	ks := make([]string, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}

func sortedBuiltinNames(m map[string]bool) []string {
	ks := make([]string, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}

// mangledName implements method name mangling (T_m) and leaves free
// functions untouched.
func mangledName(fd *ast.FunctionDecl) string {
	if fd.ImplTarget == "" {
		return fd.Name
	}
	return fd.ImplTarget + "_" + fd.Name
}

// genFunctionAll renders fd and, after it, every local `fn` item reached
// while walking its body (which may themselves contain further local fns).
func (g *Generator) genFunctionAll(fd *ast.FunctionDecl) []string {
	text := g.genFunction(fd)
	out := []string{text}
	pending := g.pendingFuncs
	g.pendingFuncs = nil
	for _, nested := range pending {
		out = append(out, g.genFunctionAll(nested)...)
	}
	return out
}

func (g *Generator) genFunction(fd *ast.FunctionDecl) string {
	g.emit = NewEmitter()
	g.vars = map[*types.Symbol]string{}
	g.loops = nil

	ft := fd.GetSymbol().Type.(*types.Function)
	g.retLLVM = g.tm.Map(ft.Return)
	useSRet := UseSRet(g.tm, ft.Return, mangledName(fd))

	var sig []string
	if useSRet {
		sig = append(sig, fmt.Sprintf("%s* sret(%s) %%sret.result", g.retLLVM, g.retLLVM))
		g.sretPtr = "%sret.result"
	} else {
		g.sretPtr = ""
	}
	for _, p := range fd.Params {
		sig = append(sig, fmt.Sprintf("%s %%arg.%s", g.tm.Map(p.Symbol.Type), p.Name))
	}

	for _, p := range fd.Params {
		llvmTy := g.tm.Map(p.Symbol.Type)
		slot := g.emit.Alloca(llvmTy)
		g.emit.Emitf("store %s %%arg.%s, %s* %s", llvmTy, p.Name, llvmTy, slot)
		g.vars[p.Symbol] = slot
	}

	v, vty := g.genExprValue(fd.Body)
	switch {
	case types.IsUnit(ft.Return) || types.IsNever(ft.Return):
		g.emit.Emit("ret void")
	case useSRet:
		if vty != "void" {
			g.emit.Emitf("store %s %s, %s* %s", vty, v, g.retLLVM, g.sretPtr)
		}
		g.emit.Emit("ret void")
	default:
		if vty == "void" {
			g.emit.Emitf("ret %s zeroinitializer", g.retLLVM)
		} else {
			g.emit.Emitf("ret %s %s", g.retLLVM, v)
		}
	}

	retDecl := g.retLLVM
	if useSRet {
		retDecl = "void"
	}
	return fmt.Sprintf("define %s @%s(%s) {\n%s}\n", retDecl, mangledName(fd), strings.Join(sig, ", "), g.emit.Render())
}

func isSigned(t types.Type) bool {
	return types.IsInteger(t) && !types.IsUnsigned(t)
}

// genPlace evaluates e as an addressable location, returning (pointer
// register, LLVM type of the pointee). Expressions with no natural address
// (a fresh literal, a call result, …) are materialized into a temporary
// alloca first.
func (g *Generator) genPlace(e ast.Expr) (string, string) {
	switch n := e.(type) {
	case *ast.VariableExpr:
		sym := n.GetSymbol()
		return g.vars[sym], g.tm.Map(sym.Type)

	case *ast.FieldAccessExpr:
		base, elemTy := g.addressOf(n.Object)
		st := structTypeOf(n.Object.GetType())
		idx := st.FieldIndex[n.Field]
		fieldTy := g.tm.Map(st.Fields[idx].Type)
		gep := g.emit.NextValue()
		g.emit.Emitf("%s = getelementptr inbounds %s, %s* %s, i32 0, i32 %d", gep, elemTy, elemTy, base, idx)
		return gep, fieldTy

	case *ast.IndexExpr:
		base, elemTy := g.addressOf(n.Object)
		idxV, _ := g.genExprValue(n.Index)
		arrTy := elemTy
		arr := arrayTypeOf(n.Object.GetType())
		itemTy := g.tm.Map(arr.Elem)
		gep := g.emit.NextValue()
		g.emit.Emitf("%s = getelementptr inbounds %s, %s* %s, i32 0, i32 %s", gep, arrTy, arrTy, base, idxV)
		return gep, itemTy

	case *ast.DerefExpr:
		ptr, _ := g.genExprValue(n.Operand)
		return ptr, g.tm.Map(n.GetType())
	}

	v, ty := g.genExprValue(e)
	slot := g.emit.Alloca(ty)
	if ty != "void" {
		g.emit.Emitf("store %s %s, %s* %s", ty, v, ty, slot)
	}
	return slot, ty
}

// addressOf is genPlace for the receiver of a field/index access: when the
// object is itself a reference/pointer its *value* already is the address to
// index into, otherwise we need its place.
func (g *Generator) addressOf(e ast.Expr) (string, string) {
	switch e.GetType().(type) {
	case *types.Reference, *types.RawPointer:
		v, _ := g.genExprValue(e)
		return v, g.tm.Map(derefType(e.GetType()))
	}
	return g.genPlace(e)
}

func derefType(t types.Type) types.Type {
	switch x := t.(type) {
	case *types.Reference:
		return x.Referent
	case *types.RawPointer:
		return x.Pointee
	}
	return t
}

func structTypeOf(t types.Type) *types.Struct {
	if st, ok := derefType(t).(*types.Struct); ok {
		return st
	}
	if st, ok := t.(*types.Struct); ok {
		return st
	}
	return nil
}

func arrayTypeOf(t types.Type) *types.Array {
	if a, ok := derefType(t).(*types.Array); ok {
		return a
	}
	if a, ok := t.(*types.Array); ok {
		return a
	}
	return nil
}

// genExprValue evaluates e for its value, returning ("", "void") for an
// expression whose static type is unit or never.
func (g *Generator) genExprValue(e ast.Expr) (string, string) {
	switch n := e.(type) {
	case *ast.IntLiteralExpr:
		return fmt.Sprintf("%d", n.Value), g.tm.Map(n.GetType())

	case *ast.BoolLiteralExpr:
		if n.Value {
			return "1", "i1"
		}
		return "0", "i1"

	case *ast.CharLiteralExpr:
		return fmt.Sprintf("%d", decodeCharLiteral(n.Value)), "i32"

	case *ast.StringLiteralExpr:
		return g.internString(n.Value), "i8*"

	case *ast.VariableExpr:
		return g.genVariable(n)

	case *ast.PathExpr:
		return g.genPath(n)

	case *ast.BinaryExpr:
		return g.genBinary(n)

	case *ast.UnaryExpr:
		return g.genUnary(n)

	case *ast.ReferenceExpr:
		ptr, elemTy := g.genPlace(n.Operand)
		return ptr, elemTy + "*"

	case *ast.DerefExpr:
		ptr, _ := g.genExprValue(n.Operand)
		ty := g.tm.Map(n.GetType())
		if ty == "void" {
			return "", "void"
		}
		reg := g.emit.NextValue()
		g.emit.Emitf("%s = load %s, %s* %s", reg, ty, ty, ptr)
		return reg, ty

	case *ast.AsExpr:
		return g.genAs(n)

	case *ast.AssignExpr:
		ptr, elemTy := g.genPlace(n.Target)
		v, vty := g.genExprValue(n.Value)
		if vty != "void" {
			g.emit.Emitf("store %s %s, %s* %s", elemTy, v, elemTy, ptr)
		}
		return "", "void"

	case *ast.CompoundAssignExpr:
		ptr, elemTy := g.genPlace(n.Target)
		cur := g.emit.NextValue()
		g.emit.Emitf("%s = load %s, %s* %s", cur, elemTy, elemTy, ptr)
		rhs, _ := g.genExprValue(n.Value)
		res := g.emit.NextValue()
		g.emit.Emitf("%s = %s %s %s, %s", res, llvmBinOp(n.Op, n.Target.GetType()), elemTy, cur, rhs)
		g.emit.Emitf("store %s %s, %s* %s", elemTy, res, elemTy, ptr)
		return "", "void"

	case *ast.CallExpr:
		return g.genCall(n)

	case *ast.MethodCallExpr:
		return g.genMethodCall(n)

	case *ast.IndexExpr:
		ptr, elemTy := g.genPlace(n)
		if elemTy == "void" {
			return "", "void"
		}
		reg := g.emit.NextValue()
		g.emit.Emitf("%s = load %s, %s* %s", reg, elemTy, elemTy, ptr)
		return reg, elemTy

	case *ast.FieldAccessExpr:
		ptr, elemTy := g.genPlace(n)
		if elemTy == "void" {
			return "", "void"
		}
		reg := g.emit.NextValue()
		g.emit.Emitf("%s = load %s, %s* %s", reg, elemTy, elemTy, ptr)
		return reg, elemTy

	case *ast.StructInitializerExpr:
		return g.genStructInit(n)

	case *ast.ArrayLiteralExpr:
		return g.genArrayLiteral(n)

	case *ast.ArrayRepeatExpr:
		return g.genArrayRepeat(n)

	case *ast.BlockExpr:
		return g.genBlock(n)

	case *ast.IfExpr:
		return g.genIf(n)

	case *ast.WhileExpr:
		return g.genWhile(n)

	case *ast.LoopExpr:
		return g.genLoop(n)

	case *ast.BreakExpr:
		lc := g.loops[len(g.loops)-1]
		if n.Value != nil {
			v, vty := g.genExprValue(n.Value)
			if lc.resultSlot != "" && vty != "void" {
				g.emit.Emitf("store %s %s, %s* %s", vty, v, lc.resultLLVM, lc.resultSlot)
			}
		}
		g.emit.Emitf("br label %%%s", lc.breakLabel)
		return "", "void"

	case *ast.ContinueExpr:
		lc := g.loops[len(g.loops)-1]
		g.emit.Emitf("br label %%%s", lc.continueLabel)
		return "", "void"

	case *ast.MatchExpr:
		return g.genMatch(n)
	}
	return "", "void"
}

func decodeCharLiteral(s string) int {
	if len(s) >= 2 && s[0] == '\\' {
		switch s[1] {
		case 'n':
			return '\n'
		case 't':
			return '\t'
		case 'r':
			return '\r'
		case '0':
			return 0
		case '\\':
			return '\\'
		case '\'':
			return '\''
		}
	}
	for _, r := range s {
		return int(r)
	}
	return 0
}

func (g *Generator) internString(s string) string {
	name := fmt.Sprintf("@.str.%d", len(g.stringConsts))
	n := len(s) + 1
	escaped := escapeLLVMString(s)
	g.stringConsts = append(g.stringConsts, fmt.Sprintf("%s = private unnamed_addr constant [%d x i8] c\"%s\\00\"", name, n, escaped))
	return fmt.Sprintf("getelementptr inbounds ([%d x i8], [%d x i8]* %s, i32 0, i32 0)", n, n, name)
}

func escapeLLVMString(s string) string {
	var sb strings.Builder
	for _, b := range []byte(s) {
		if b == '"' || b == '\\' || b < 0x20 || b > 0x7e {
			fmt.Fprintf(&sb, "\\%02X", b)
			continue
		}
		sb.WriteByte(b)
	}
	return sb.String()
}

func (g *Generator) genVariable(n *ast.VariableExpr) (string, string) {
	sym := n.GetSymbol()
	if sym == nil {
		return "", "void"
	}
	if sym.Kind == types.SymConstant {
		ty := g.tm.Map(n.GetType())
		return fmt.Sprintf("%d", sym.ConstValue), ty
	}
	slot, ok := g.vars[sym]
	if !ok {
		return "", "void"
	}
	ty := g.tm.Map(sym.Type)
	if ty == "void" {
		return "", "void"
	}
	reg := g.emit.NextValue()
	g.emit.Emitf("%s = load %s, %s* %s", reg, ty, ty, slot)
	return reg, ty
}

func (g *Generator) genPath(n *ast.PathExpr) (string, string) {
	sym := n.GetSymbol()
	if sym == nil {
		return "", "void"
	}
	if sym.Kind == types.SymVariant {
		en := sym.Type.(*types.Enum)
		idx := en.ByName[n.Item]
		return g.buildEnumValue(en, idx, nil)
	}
	return "", g.tm.Map(n.GetType())
}

// buildEnumValue materializes an enum value with the given variant tag and
// (already-evaluated) payload values, returning it as a loaded SSA value.
func (g *Generator) buildEnumValue(en *types.Enum, idx int, payload []struct {
	v, ty string
}) (string, string) {
	llvmTy := g.tm.Map(en)
	slot := g.emit.Alloca(llvmTy)
	tagPtr := g.emit.NextValue()
	g.emit.Emitf("%s = getelementptr inbounds %s, %s* %s, i32 0, i32 0", tagPtr, llvmTy, llvmTy, slot)
	g.emit.Emitf("store i32 %d, i32* %s", idx, tagPtr)

	for i, p := range payload {
		arrPtr := g.emit.NextValue()
		g.emit.Emitf("%s = getelementptr inbounds %s, %s* %s, i32 0, i32 1", arrPtr, llvmTy, llvmTy, slot)
		elemPtr := g.emit.NextValue()
		g.emit.Emitf("%s = getelementptr inbounds [1 x i64], [1 x i64]* %s, i32 0, i32 %d", elemPtr, arrPtr, i)
		cast := g.emit.NextValue()
		g.emit.Emitf("%s = bitcast i64* %s to %s*", cast, elemPtr, p.ty)
		if p.ty != "void" {
			g.emit.Emitf("store %s %s, %s* %s", p.ty, p.v, p.ty, cast)
		}
	}

	reg := g.emit.NextValue()
	g.emit.Emitf("%s = load %s, %s* %s", reg, llvmTy, llvmTy, slot)
	return reg, llvmTy
}

func llvmBinOp(op ast.BinOp, operandType types.Type) string {
	signed := isSigned(operandType)
	switch op {
	case ast.OpAdd:
		return "add"
	case ast.OpSub:
		return "sub"
	case ast.OpMul:
		return "mul"
	case ast.OpDiv:
		if signed {
			return "sdiv"
		}
		return "udiv"
	case ast.OpMod:
		if signed {
			return "srem"
		}
		return "urem"
	case ast.OpAnd:
		return "and"
	case ast.OpOr:
		return "or"
	case ast.OpXor:
		return "xor"
	case ast.OpShl:
		return "shl"
	case ast.OpShr:
		if signed {
			return "ashr"
		}
		return "lshr"
	case ast.OpEq:
		return "icmp eq"
	case ast.OpNe:
		return "icmp ne"
	case ast.OpLt:
		if signed {
			return "icmp slt"
		}
		return "icmp ult"
	case ast.OpLe:
		if signed {
			return "icmp sle"
		}
		return "icmp ule"
	case ast.OpGt:
		if signed {
			return "icmp sgt"
		}
		return "icmp ugt"
	case ast.OpGe:
		if signed {
			return "icmp sge"
		}
		return "icmp uge"
	}
	return "add"
}

func (g *Generator) genBinary(n *ast.BinaryExpr) (string, string) {
	switch n.Op {
	case ast.OpLogicalAnd, ast.OpLogicalOr:
		return g.genShortCircuit(n)
	}

	lv, lty := g.genExprValue(n.Left)
	rv, _ := g.genExprValue(n.Right)

	if rp, ok := n.Left.GetType().(*types.RawPointer); ok && (n.Op == ast.OpAdd || n.Op == ast.OpSub) {
		idx := rv
		if n.Op == ast.OpSub {
			neg := g.emit.NextValue()
			g.emit.Emitf("%s = sub i32 0, %s", neg, rv)
			idx = neg
		}
		pointeeTy := g.tm.Map(rp.Pointee)
		reg := g.emit.NextValue()
		g.emit.Emitf("%s = getelementptr inbounds %s, %s* %s, i32 %s", reg, pointeeTy, pointeeTy, lv, idx)
		return reg, lty
	}

	switch n.Op {
	case ast.OpEq, ast.OpNe, ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe:
		reg := g.emit.NextValue()
		g.emit.Emitf("%s = %s %s %s, %s", reg, llvmBinOp(n.Op, n.Left.GetType()), lty, lv, rv)
		return reg, "i1"
	default:
		reg := g.emit.NextValue()
		g.emit.Emitf("%s = %s %s %s, %s", reg, llvmBinOp(n.Op, n.Left.GetType()), lty, lv, rv)
		return reg, lty
	}
}

func (g *Generator) genShortCircuit(n *ast.BinaryExpr) (string, string) {
	isAnd := n.Op == ast.OpLogicalAnd
	rhsPrefix, endPrefix := "or.rhs", "or.end"
	if isAnd {
		rhsPrefix, endPrefix = "and.rhs", "and.end"
	}

	slot := g.emit.Alloca("i1")
	lv, _ := g.genExprValue(n.Left)
	g.emit.Emitf("store i1 %s, i1* %s", lv, slot)

	rhsLabel := g.emit.Label(rhsPrefix)
	endLabel := g.emit.Label(endPrefix)
	if isAnd {
		g.condBr(lv, rhsLabel, endLabel)
	} else {
		g.condBr(lv, endLabel, rhsLabel)
	}

	g.emit.OpenBlock(rhsLabel)
	rv, _ := g.genExprValue(n.Right)
	g.emit.Emitf("store i1 %s, i1* %s", rv, slot)
	g.emit.Emitf("br label %%%s", endLabel)

	g.emit.OpenBlock(endLabel)
	reg := g.emit.NextValue()
	g.emit.Emitf("%s = load i1, i1* %s", reg, slot)
	return reg, "i1"
}

// condBr emits a conditional branch the way the downstream backend expects
// it: trampolined through two single-purpose blocks that each carry a single
// unconditional branch to the real target, rather than a direct two-target
// `br i1`, so a long-range target never exceeds the backend's short
// conditional-branch reach. Returns the trampoline labels for callers that
// need them as PHI predecessors.
func (g *Generator) condBr(cond, trueLabel, falseLabel string) (string, string) {
	jt := g.emit.TrampolineLabel("jmp_true")
	jf := g.emit.TrampolineLabel("jmp_false")
	g.emit.Emitf("br i1 %s, label %%%s, label %%%s", cond, jt, jf)
	g.emit.OpenBlock(jt)
	g.emit.Emitf("br label %%%s", trueLabel)
	g.emit.OpenBlock(jf)
	g.emit.Emitf("br label %%%s", falseLabel)
	return jt, jf
}

func (g *Generator) genUnary(n *ast.UnaryExpr) (string, string) {
	v, ty := g.genExprValue(n.Operand)
	reg := g.emit.NextValue()
	switch n.Op {
	case ast.OpNeg:
		g.emit.Emitf("%s = sub %s 0, %s", reg, ty, v)
	case ast.OpNot:
		if ty == "i1" {
			g.emit.Emitf("%s = xor i1 %s, true", reg, v)
		} else {
			g.emit.Emitf("%s = xor %s %s, -1", reg, ty, v)
		}
	}
	return reg, ty
}

func (g *Generator) genAs(n *ast.AsExpr) (string, string) {
	v, fromTy := g.genExprValue(n.Operand)
	toTy := g.tm.Map(n.GetType())
	if fromTy == toTy {
		return v, toTy
	}
	op := castOp(fromTy, toTy, isSigned(n.Operand.GetType()))
	reg := g.emit.NextValue()
	g.emit.Emitf("%s = %s %s %s to %s", reg, op, fromTy, v, toTy)
	return reg, toTy
}

func bitWidth(ty string) int {
	switch ty {
	case "i1":
		return 1
	case "i32":
		return 32
	case "i64":
		return 64
	}
	return 32
}

func castOp(fromTy, toTy string, signed bool) string {
	fw, tw := bitWidth(fromTy), bitWidth(toTy)
	if fw == tw {
		return "bitcast"
	}
	if fw > tw {
		return "trunc"
	}
	if signed {
		return "sext"
	}
	return "zext"
}

func (g *Generator) genCall(n *ast.CallExpr) (string, string) {
	if pe, ok := n.Callee.(*ast.PathExpr); ok {
		if sym := pe.GetSymbol(); sym != nil && sym.Kind == types.SymVariant {
			return g.genVariantCall(pe, n.Args)
		}
	}

	target := g.calleeTarget(n.Callee)
	args := make([]string, 0, len(n.Args)+1)
	var destPtr string
	if target.sretTy != "" {
		destPtr = g.emit.Alloca(target.sretTy)
		args = append(args, fmt.Sprintf("%s* %s", target.sretTy, destPtr))
	}
	for _, a := range n.Args {
		v, ty := g.genExprValue(a)
		args = append(args, fmt.Sprintf("%s %s", ty, v))
	}
	if target.sretTy != "" {
		g.emit.Emitf("call void @%s(%s)", target.name, strings.Join(args, ", "))
		reg := g.emit.NextValue()
		g.emit.Emitf("%s = load %s, %s* %s", reg, target.sretTy, target.sretTy, destPtr)
		return reg, target.sretTy
	}
	if target.retTy == "void" {
		g.emit.Emitf("call void @%s(%s)", target.name, strings.Join(args, ", "))
		return "", "void"
	}
	reg := g.emit.NextValue()
	g.emit.Emitf("%s = call %s @%s(%s)", reg, target.retTy, target.name, strings.Join(args, ", "))
	return reg, target.retTy
}

func (g *Generator) genVariantCall(pe *ast.PathExpr, argExprs []ast.Expr) (string, string) {
	sym := pe.GetSymbol()
	en := sym.Type.(*types.Enum)
	idx := en.ByName[pe.Item]
	payload := make([]struct{ v, ty string }, len(argExprs))
	for i, a := range argExprs {
		v, ty := g.genExprValue(a)
		payload[i] = struct{ v, ty string }{v, ty}
	}
	return g.buildEnumValue(en, idx, payload)
}

// callTarget is the resolved shape of a call site: the name to invoke, the
// IR return type on the `call` instruction itself (always "void" when sret
// applies — the real return type lives in sretTy), and sretTy set to the
// struct's LLVM type when the callee uses the sret calling convention.
type callTarget struct {
	name   string
	retTy  string
	sretTy string
}

// calleeTarget resolves a call target to its mangled/runtime name and return
// shape, recognizing the builtins by name and an associated-function path
// (`Type::fn(...)`) by its attached symbol.
func (g *Generator) calleeTarget(callee ast.Expr) callTarget {
	switch v := callee.(type) {
	case *ast.VariableExpr:
		if rt, ok := builtinRuntime[v.Name]; ok {
			g.usedBuiltins[v.Name] = true
			name := strings.TrimPrefix(strings.Fields(rt.decl)[2], "@")
			name = strings.SplitN(name, "(", 2)[0]
			return callTarget{name: name, retTy: rt.ret}
		}
		sym := v.GetSymbol()
		if sym == nil {
			return callTarget{name: v.Name, retTy: "void"}
		}
		return g.resolveCallTarget(sym.Name, sym.Type.(*types.Function).Return)

	case *ast.PathExpr:
		sym := v.GetSymbol()
		if sym == nil {
			return callTarget{name: "unknown", retTy: "void"}
		}
		if sym.Builtin {
			g.ctx.Reporter.Warnf(errors.IRGenInternal, v.Pos(), "call to '%s::%s' has no IR lowering", v.Base, v.Item)
			return callTarget{name: "unknown", retTy: "void"}
		}
		return g.resolveCallTarget(v.Base+"_"+v.Item, sym.Type.(*types.Function).Return)
	}
	return callTarget{name: "unknown", retTy: "void"}
}

// resolveCallTarget fills in a callTarget's return shape given the already
// mangled call name and the callee's declared return type.
func (g *Generator) resolveCallTarget(name string, ret types.Type) callTarget {
	llvmRet := g.tm.Map(ret)
	if UseSRet(g.tm, ret, name) {
		return callTarget{name: name, retTy: "void", sretTy: llvmRet}
	}
	return callTarget{name: name, retTy: llvmRet}
}

func (g *Generator) genMethodCall(n *ast.MethodCallExpr) (string, string) {
	recvPtr, _ := g.addressOf(n.Receiver)
	sym, _ := n.MethodSymbol.(*types.Symbol)
	if sym == nil {
		return "", "void"
	}
	st := structTypeOf(n.Receiver.GetType())
	var target string
	if st != nil {
		target = st.Name + "_" + n.Method
	} else {
		target = n.Method
	}
	ft := sym.Type.(*types.Function)
	retLLVM := g.tm.Map(ft.Return)
	useSRet := UseSRet(g.tm, ft.Return, target)

	var args []string
	var destPtr string
	if useSRet {
		destPtr = g.emit.Alloca(retLLVM)
		args = append(args, fmt.Sprintf("%s* %s", retLLVM, destPtr))
	}
	args = append(args, fmt.Sprintf("%s* %s", g.tm.Map(st), recvPtr))
	for _, a := range n.Args {
		v, ty := g.genExprValue(a)
		args = append(args, fmt.Sprintf("%s %s", ty, v))
	}
	if useSRet {
		g.emit.Emitf("call void @%s(%s)", target, strings.Join(args, ", "))
		reg := g.emit.NextValue()
		g.emit.Emitf("%s = load %s, %s* %s", reg, retLLVM, retLLVM, destPtr)
		return reg, retLLVM
	}
	if retLLVM == "void" {
		g.emit.Emitf("call void @%s(%s)", target, strings.Join(args, ", "))
		return "", "void"
	}
	reg := g.emit.NextValue()
	g.emit.Emitf("%s = call %s @%s(%s)", reg, retLLVM, target, strings.Join(args, ", "))
	return reg, retLLVM
}

// writeStructInto evaluates n's field initializers directly into slot,
// already-allocated storage of LLVM type llvmTy, without allocating any
// storage of its own.
func (g *Generator) writeStructInto(n *ast.StructInitializerExpr, slot, llvmTy string) {
	st := n.GetType().(*types.Struct)
	for _, f := range n.Fields {
		idx := st.FieldIndex[f.Name]
		fieldTy := g.tm.Map(st.Fields[idx].Type)
		gep := g.emit.NextValue()
		g.emit.Emitf("%s = getelementptr inbounds %s, %s* %s, i32 0, i32 %d", gep, llvmTy, llvmTy, slot, idx)
		v, ty := g.genExprValue(f.Value)
		if ty != "void" {
			g.emit.Emitf("store %s %s, %s* %s", fieldTy, v, fieldTy, gep)
		}
	}
}

func (g *Generator) writeArrayLiteralInto(n *ast.ArrayLiteralExpr, slot, llvmTy string, arr *types.Array) {
	itemTy := g.tm.Map(arr.Elem)
	for i, el := range n.Elements {
		gep := g.emit.NextValue()
		g.emit.Emitf("%s = getelementptr inbounds %s, %s* %s, i32 0, i32 %d", gep, llvmTy, llvmTy, slot, i)
		v, ty := g.genExprValue(el)
		if ty != "void" {
			g.emit.Emitf("store %s %s, %s* %s", itemTy, v, itemTy, gep)
		}
	}
}

// isZeroLiteral reports whether e is a literal zero eligible for memset-based
// zero-fill instead of a per-element store loop.
func isZeroLiteral(e ast.Expr) bool {
	switch n := e.(type) {
	case *ast.IntLiteralExpr:
		return n.Value == 0
	case *ast.BoolLiteralExpr:
		return !n.Value
	}
	return false
}

// writeArrayRepeatInto evaluates n directly into slot. A zero-valued repeat
// above sretThreshold bytes is lowered to a single llvm.memset call instead
// of arr.Size individual stores.
func (g *Generator) writeArrayRepeatInto(n *ast.ArrayRepeatExpr, slot, llvmTy string, arr *types.Array) {
	bytes := g.tm.SizeOf(arr)
	if isZeroLiteral(n.Value) && bytes > sretThreshold {
		g.usedMemset = true
		cast := g.emit.NextValue()
		g.emit.Emitf("%s = bitcast %s* %s to i8*", cast, llvmTy, slot)
		g.emit.Emitf("call void @llvm.memset.p0.i64(i8* %s, i8 0, i64 %d, i1 false)", cast, bytes)
		return
	}

	itemTy := g.tm.Map(arr.Elem)
	v, ty := g.genExprValue(n.Value)
	for i := int64(0); i < arr.Size; i++ {
		gep := g.emit.NextValue()
		g.emit.Emitf("%s = getelementptr inbounds %s, %s* %s, i32 0, i32 %d", gep, llvmTy, llvmTy, slot, i)
		if ty != "void" {
			g.emit.Emitf("store %s %s, %s* %s", itemTy, v, itemTy, gep)
		}
	}
}

func (g *Generator) genStructInit(n *ast.StructInitializerExpr) (string, string) {
	st := n.GetType().(*types.Struct)
	llvmTy := g.tm.Map(st)
	slot := g.emit.Alloca(llvmTy)
	g.writeStructInto(n, slot, llvmTy)
	reg := g.emit.NextValue()
	g.emit.Emitf("%s = load %s, %s* %s", reg, llvmTy, llvmTy, slot)
	return reg, llvmTy
}

func (g *Generator) genArrayLiteral(n *ast.ArrayLiteralExpr) (string, string) {
	arr := n.GetType().(*types.Array)
	llvmTy := g.tm.Map(arr)
	slot := g.emit.Alloca(llvmTy)
	g.writeArrayLiteralInto(n, slot, llvmTy, arr)
	reg := g.emit.NextValue()
	g.emit.Emitf("%s = load %s, %s* %s", reg, llvmTy, llvmTy, slot)
	return reg, llvmTy
}

func (g *Generator) genArrayRepeat(n *ast.ArrayRepeatExpr) (string, string) {
	arr := n.GetType().(*types.Array)
	llvmTy := g.tm.Map(arr)
	slot := g.emit.Alloca(llvmTy)
	g.writeArrayRepeatInto(n, slot, llvmTy, arr)
	reg := g.emit.NextValue()
	g.emit.Emitf("%s = load %s, %s* %s", reg, llvmTy, llvmTy, slot)
	return reg, llvmTy
}

func (g *Generator) genBlock(n *ast.BlockExpr) (string, string) {
	for _, s := range n.Stmts {
		g.genStmt(s)
	}
	if n.Tail != nil {
		return g.genExprValue(n.Tail)
	}
	return "", "void"
}

func (g *Generator) genStmt(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.LetStmt:
		if ip, ok := st.Pattern.(*ast.IdentPattern); ok {
			if g.genLetInto(ip, st.Init) {
				return
			}
		}
		v, ty := g.genExprValue(st.Init)
		g.bindLetPattern(st.Pattern, v, ty)

	case *ast.ExprStmt:
		g.genExprValue(st.Expr)

	case *ast.ItemStmt:
		// A local function becomes its own top-level `define`; it is queued
		// here and rendered by genFunctionAll once the enclosing function's
		// body is done, so generation order never nests defines.
		if fd, ok := st.Item.(*ast.FunctionDecl); ok {
			g.pendingFuncs = append(g.pendingFuncs, fd)
		}
	}
}

// genLetInto handles `let ident = <aggregate literal>` by constructing the
// initializer directly into the binding's own storage, instead of building
// it in a temporary and copying it into a second allocation. Reports whether
// it handled ip/init; the caller falls back to the generic value path
// otherwise.
func (g *Generator) genLetInto(ip *ast.IdentPattern, init ast.Expr) bool {
	switch n := init.(type) {
	case *ast.StructInitializerExpr:
		llvmTy := g.tm.Map(n.GetType())
		slot := g.emit.Alloca(llvmTy)
		g.writeStructInto(n, slot, llvmTy)
		g.vars[ip.Symbol] = slot
		return true

	case *ast.ArrayLiteralExpr:
		arr := n.GetType().(*types.Array)
		llvmTy := g.tm.Map(arr)
		slot := g.emit.Alloca(llvmTy)
		g.writeArrayLiteralInto(n, slot, llvmTy, arr)
		g.vars[ip.Symbol] = slot
		return true

	case *ast.ArrayRepeatExpr:
		arr := n.GetType().(*types.Array)
		llvmTy := g.tm.Map(arr)
		slot := g.emit.Alloca(llvmTy)
		g.writeArrayRepeatInto(n, slot, llvmTy, arr)
		g.vars[ip.Symbol] = slot
		return true
	}
	return false
}

func (g *Generator) bindLetPattern(pat ast.Pattern, v, ty string) {
	switch p := pat.(type) {
	case *ast.IdentPattern:
		slot := g.emit.Alloca(ty)
		if ty != "void" {
			g.emit.Emitf("store %s %s, %s* %s", ty, v, ty, slot)
		}
		g.vars[p.Symbol] = slot
	case *ast.WildcardPattern:
		// value discarded
	case *ast.ReferencePattern:
		g.bindLetPattern(p.Inner, v, ty)
	}
}

func (g *Generator) genIf(n *ast.IfExpr) (string, string) {
	condV, _ := g.genExprValue(n.Cond)

	resultTy := g.tm.Map(n.GetType())
	var resultSlot string
	if resultTy != "void" {
		resultSlot = g.emit.Alloca(resultTy)
	}

	thenLabel := g.emit.Label("if.then")
	endLabel := g.emit.Label("if.end")
	elseLabel := endLabel
	hasElse := n.Else != nil
	if hasElse {
		elseLabel = g.emit.Label("if.else")
	}
	g.condBr(condV, thenLabel, elseLabel)

	g.emit.OpenBlock(thenLabel)
	tv, tty := g.genExprValue(n.Then)
	if resultSlot != "" && tty != "void" {
		g.emit.Emitf("store %s %s, %s* %s", tty, tv, resultTy, resultSlot)
	}
	g.emit.Emitf("br label %%%s", endLabel)

	if hasElse {
		g.emit.OpenBlock(elseLabel)
		ev, ety := g.genExprValue(n.Else)
		if resultSlot != "" && ety != "void" {
			g.emit.Emitf("store %s %s, %s* %s", ety, ev, resultTy, resultSlot)
		}
		g.emit.Emitf("br label %%%s", endLabel)
	}

	g.emit.OpenBlock(endLabel)
	if resultSlot != "" {
		reg := g.emit.NextValue()
		g.emit.Emitf("%s = load %s, %s* %s", reg, resultTy, resultTy, resultSlot)
		return reg, resultTy
	}
	return "", "void"
}

func (g *Generator) genWhile(n *ast.WhileExpr) (string, string) {
	condLabel := g.emit.Label("while.cond")
	bodyLabel := g.emit.Label("while.body")
	endLabel := g.emit.Label("while.end")

	g.loops = append(g.loops, loopCtx{breakLabel: endLabel, continueLabel: condLabel})
	g.emit.Emitf("br label %%%s", condLabel)

	g.emit.OpenBlock(condLabel)
	condV, _ := g.genExprValue(n.Cond)
	g.condBr(condV, bodyLabel, endLabel)

	g.emit.OpenBlock(bodyLabel)
	g.genExprValue(n.Body)
	g.emit.Emitf("br label %%%s", condLabel)

	g.emit.OpenBlock(endLabel)
	g.loops = g.loops[:len(g.loops)-1]
	return "", "void"
}

func (g *Generator) genLoop(n *ast.LoopExpr) (string, string) {
	bodyLabel := g.emit.Label("loop.body")
	endLabel := g.emit.Label("loop.end")

	resultTy := g.tm.Map(n.GetType())
	var resultSlot string
	if resultTy != "void" {
		resultSlot = g.emit.Alloca(resultTy)
	}

	g.loops = append(g.loops, loopCtx{breakLabel: endLabel, continueLabel: bodyLabel, resultSlot: resultSlot, resultLLVM: resultTy})
	g.emit.Emitf("br label %%%s", bodyLabel)

	g.emit.OpenBlock(bodyLabel)
	g.genExprValue(n.Body)
	g.emit.Emitf("br label %%%s", bodyLabel)

	g.emit.OpenBlock(endLabel)
	g.loops = g.loops[:len(g.loops)-1]

	if resultSlot != "" {
		reg := g.emit.NextValue()
		g.emit.Emitf("%s = load %s, %s* %s", reg, resultTy, resultTy, resultSlot)
		return reg, resultTy
	}
	return "", "void"
}

func (g *Generator) genMatch(n *ast.MatchExpr) (string, string) {
	scrPtr, scrTy := g.addressOf(n.Scrutinee)

	resultTy := g.tm.Map(n.GetType())
	var resultSlot string
	if resultTy != "void" {
		resultSlot = g.emit.Alloca(resultTy)
	}
	endLabel := g.emit.Label("match.end")

	for _, arm := range n.Arms {
		armLabel := g.emit.Label("match.arm")
		nextLabel := g.emit.Label("match.next")
		g.genPatternTest(arm.Pattern, scrPtr, scrTy, armLabel, nextLabel)

		g.emit.OpenBlock(armLabel)
		g.bindPatternIR(arm.Pattern, scrPtr, scrTy)
		if arm.Guard != nil {
			guardThen := g.emit.Label("match.guard.then")
			gv, _ := g.genExprValue(arm.Guard)
			g.condBr(gv, guardThen, nextLabel)
			g.emit.OpenBlock(guardThen)
		}
		bv, bty := g.genExprValue(arm.Body)
		if resultSlot != "" && bty != "void" {
			g.emit.Emitf("store %s %s, %s* %s", bty, bv, resultTy, resultSlot)
		}
		g.emit.Emitf("br label %%%s", endLabel)

		g.emit.OpenBlock(nextLabel)
	}
	g.emit.Emit("unreachable")

	g.emit.OpenBlock(endLabel)
	if resultSlot != "" {
		reg := g.emit.NextValue()
		g.emit.Emitf("%s = load %s, %s* %s", reg, resultTy, resultTy, resultSlot)
		return reg, resultTy
	}
	return "", "void"
}

func (g *Generator) genPatternTest(pat ast.Pattern, scrPtr, scrTy, matchLabel, failLabel string) {
	switch p := pat.(type) {
	case *ast.IdentPattern, *ast.WildcardPattern, *ast.StructPattern:
		g.emit.Emitf("br label %%%s", matchLabel)

	case *ast.ReferencePattern:
		g.genPatternTest(p.Inner, scrPtr, scrTy, matchLabel, failLabel)

	case *ast.LiteralPattern:
		lv, lty := g.genExprValue(p.Literal)
		cur := g.emit.NextValue()
		g.emit.Emitf("%s = load %s, %s* %s", cur, scrTy, scrTy, scrPtr)
		cmp := g.emit.NextValue()
		g.emit.Emitf("%s = icmp eq %s %s, %s", cmp, lty, cur, lv)
		g.condBr(cmp, matchLabel, failLabel)

	case *ast.EnumVariantPattern:
		en := p.Symbol.Type.(*types.Enum)
		idx := en.ByName[p.VariantName]
		tagPtr := g.emit.NextValue()
		g.emit.Emitf("%s = getelementptr inbounds %s, %s* %s, i32 0, i32 0", tagPtr, scrTy, scrTy, scrPtr)
		tag := g.emit.NextValue()
		g.emit.Emitf("%s = load i32, i32* %s", tag, tagPtr)
		cmp := g.emit.NextValue()
		g.emit.Emitf("%s = icmp eq i32 %s, %d", cmp, tag, idx)
		g.condBr(cmp, matchLabel, failLabel)

	default:
		g.emit.Emitf("br label %%%s", matchLabel)
	}
}

func (g *Generator) bindPatternIR(pat ast.Pattern, scrPtr, scrTy string) {
	switch p := pat.(type) {
	case *ast.IdentPattern:
		v := g.emit.NextValue()
		g.emit.Emitf("%s = load %s, %s* %s", v, scrTy, scrTy, scrPtr)
		slot := g.emit.Alloca(scrTy)
		g.emit.Emitf("store %s %s, %s* %s", scrTy, v, scrTy, slot)
		g.vars[p.Symbol] = slot

	case *ast.ReferencePattern:
		g.bindPatternIR(p.Inner, scrPtr, scrTy)

	case *ast.EnumVariantPattern:
		en := p.Symbol.Type.(*types.Enum)
		idx := en.ByName[p.VariantName]
		payload := en.Variants[idx].Payload
		arrPtr := g.emit.NextValue()
		g.emit.Emitf("%s = getelementptr inbounds %s, %s* %s, i32 0, i32 1", arrPtr, scrTy, scrTy, scrPtr)
		for i, b := range p.Bindings {
			if i >= len(payload) {
				break
			}
			pty := g.tm.Map(payload[i])
			elemPtr := g.emit.NextValue()
			g.emit.Emitf("%s = getelementptr inbounds [1 x i64], [1 x i64]* %s, i32 0, i32 %d", elemPtr, arrPtr, i)
			cast := g.emit.NextValue()
			g.emit.Emitf("%s = bitcast i64* %s to %s*", cast, elemPtr, pty)
			g.bindPatternIR(b, cast, pty)
		}

	case *ast.StructPattern:
		st := p.Symbol.Type.(*types.Struct)
		for _, f := range p.Fields {
			idx := st.FieldIndex[f.Name]
			fty := g.tm.Map(st.Fields[idx].Type)
			fieldPtr := g.emit.NextValue()
			g.emit.Emitf("%s = getelementptr inbounds %s, %s* %s, i32 0, i32 %d", fieldPtr, scrTy, scrTy, scrPtr, idx)
			if f.Binding == nil {
				v := g.emit.NextValue()
				g.emit.Emitf("%s = load %s, %s* %s", v, fty, fty, fieldPtr)
				slot := g.emit.Alloca(fty)
				g.emit.Emitf("store %s %s, %s* %s", fty, v, fty, slot)
				if f.Symbol != nil {
					g.vars[f.Symbol] = slot
				}
			} else {
				g.bindPatternIR(f.Binding, fieldPtr, fty)
			}
		}
	}
}
