// Package ir lowers a type-checked ast.Program into textual LLVM IR: the
// type mapper turns semantic types into LLVM type syntax, the emitter names
// SSA registers and basic-block labels, buffers instruction lines and
// hoists every alloca to the function entry block, and
// the generator walks the tree implementing the value/place protocol and
// control-flow lowering.
package ir

import (
	"fmt"
	"strings"

	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/types"
)

// sretThreshold is the byte size above which a struct-returning `_new`
// function is lowered with the sret calling convention instead of returning
// by value (see UseSRet): the caller preallocates the result and passes its
// address as a hidden first argument. Zeroed array-repeat initializers above
// this size are lowered to memset.
const sretThreshold = 64

// TypeMapper turns canonical semantic types into LLVM IR type syntax and
// caches each aggregate's declared name. Byte sizes are not cached: SizeOf
// recomputes them on every call.
type TypeMapper struct {
	structNames map[*types.Struct]string
	enumNames   map[*types.Enum]string
}

func NewTypeMapper() *TypeMapper {
	return &TypeMapper{structNames: map[*types.Struct]string{}, enumNames: map[*types.Enum]string{}}
}

// Map renders t as an LLVM type. Unit and Never both map to "void" — neither
// ever carries a runtime value, only different control-flow meaning.
func (tm *TypeMapper) Map(t types.Type) string {
	switch x := t.(type) {
	case *types.Primitive:
		switch x.Kind {
		case types.I32, types.U32, types.AnyInteger:
			return "i32"
		case types.ISize, types.USize:
			return "i64"
		case types.Bool:
			return "i1"
		case types.Char:
			return "i32"
		case types.Str:
			return "i8*"
		case types.StringT:
			return "%String*"
		case types.Unit, types.Never:
			return "void"
		}
	case *types.Array:
		return fmt.Sprintf("[%d x %s]", x.Size, tm.Map(x.Elem))
	case *types.Struct:
		return "%" + tm.structName(x)
	case *types.Enum:
		return "%" + tm.enumName(x)
	case *types.Reference:
		inner := tm.Map(x.Referent)
		if inner == "void" {
			return "i8*"
		}
		return inner + "*"
	case *types.RawPointer:
		inner := tm.Map(x.Pointee)
		if inner == "void" {
			return "i8*"
		}
		return inner + "*"
	case *types.Function:
		return tm.Map(x.Return)
	}
	return "i32"
}

func (tm *TypeMapper) structName(s *types.Struct) string {
	if n, ok := tm.structNames[s]; ok {
		return n
	}
	tm.structNames[s] = s.Name
	return s.Name
}

// enumWords is the number of i64 payload slots an enum's tagged-union layout
// reserves, sized to the widest variant.
func (tm *TypeMapper) enumWords(e *types.Enum) int64 {
	var maxBytes int64
	for _, v := range e.Variants {
		var bytes int64
		for _, p := range v.Payload {
			bytes += tm.SizeOf(p)
		}
		if bytes > maxBytes {
			maxBytes = bytes
		}
	}
	return (maxBytes + 7) / 8
}

func (tm *TypeMapper) enumName(e *types.Enum) string {
	if n, ok := tm.enumNames[e]; ok {
		return n
	}
	tm.enumNames[e] = e.Name
	return e.Name
}

// Definition renders the `%Name = type {...}` line for a struct or a
// tagged-union enum, or "" for any other type.
func (tm *TypeMapper) Definition(t types.Type) string {
	switch x := t.(type) {
	case *types.Struct:
		fields := make([]string, len(x.Fields))
		for i, f := range x.Fields {
			fields[i] = tm.Map(f.Type)
		}
		return fmt.Sprintf("%%%s = type { %s }", tm.structName(x), joinComma(fields))
	case *types.Enum:
		words := tm.enumWords(x)
		if words == 0 {
			return fmt.Sprintf("%%%s = type { i32 }", tm.enumName(x))
		}
		return fmt.Sprintf("%%%s = type { i32, [%d x i64] }", tm.enumName(x), words)
	}
	return ""
}

func joinComma(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}

// SizeOf computes a type's size in bytes under the target layout assumed
// throughout IR generation (32-bit i32/u32/bool(1)/char(4), 64-bit
// isize/usize and every pointer/reference).
func (tm *TypeMapper) SizeOf(t types.Type) int64 {
	switch x := t.(type) {
	case *types.Primitive:
		switch x.Kind {
		case types.I32, types.U32, types.AnyInteger, types.Char:
			return 4
		case types.ISize, types.USize:
			return 8
		case types.Bool:
			return 1
		case types.Str:
			return 8 // i8* slice pointer (length tracking is out of scope)
		case types.StringT:
			return 8
		case types.Unit, types.Never:
			return 0
		}
	case *types.Array:
		return x.Size * tm.SizeOf(x.Elem)
	case *types.Struct:
		var total int64
		for _, f := range x.Fields {
			total += tm.SizeOf(f.Type)
		}
		return total
	case *types.Enum:
		return 4 + tm.enumWords(x)*8
	case *types.Reference, *types.RawPointer:
		return 8
	}
	return 4
}

// UseSRet reports whether a function named name, returning t, should use the
// sret calling convention: its (mangled) name must end in "_new" and its
// return type must be a struct larger than sretThreshold.
func UseSRet(tm *TypeMapper, t types.Type, name string) bool {
	st, ok := t.(*types.Struct)
	if !ok {
		return false
	}
	return strings.HasSuffix(name, "_new") && tm.SizeOf(st) > sretThreshold
}
