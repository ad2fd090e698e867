package ast

import (
	"fmt"
	"strings"

	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/lexer"
)

// FunctionDecl is a free function or, inside an ImplBlock, a method or
// associated function. A `self` receiver is recorded as Params[0] with
// IsSelf set; IsMethod is true exactly when such a receiver is present.
type FunctionDecl struct {
	ItemBase
	Name       string
	Params     []*Param // a `self` receiver, if present, is Params[0] with IsSelf=true
	ReturnType TypeNode // nil means unit
	Body       *BlockExpr
	// ImplTarget is set by the parser when the function is declared inside
	// an `impl T { … }` block (empty for a free function); the resolver
	// uses it in wave 4 to attach the symbol to T's member table.
	ImplTarget string
}

func (f *FunctionDecl) IsMethod() bool {
	return len(f.Params) > 0 && f.Params[0].IsSelf
}

func (f *FunctionDecl) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	ret := ""
	if f.ReturnType != nil {
		ret = f.ReturnType.String()
	}
	return fmt.Sprintf("fn %s(%s) -> %s %s", f.Name, strings.Join(parts, ", "), ret, f.Body.String())
}

// StructDecl declares a struct's fields.
type StructDecl struct {
	ItemBase
	Name   string
	Fields []*FieldDecl
}

func (s *StructDecl) String() string {
	parts := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		parts[i] = f.String()
	}
	return fmt.Sprintf("struct %s { %s }", s.Name, strings.Join(parts, ", "))
}

// EnumVariantDecl is one variant in an EnumDecl.
type EnumVariantDecl struct {
	Name     string
	Payload  []TypeNode // empty for a plain C-like variant
	Position lexer.Position
}

func (v *EnumVariantDecl) Pos() lexer.Position { return v.Position }
func (v *EnumVariantDecl) String() string {
	if len(v.Payload) == 0 {
		return v.Name
	}
	parts := make([]string, len(v.Payload))
	for i, p := range v.Payload {
		parts[i] = p.String()
	}
	return fmt.Sprintf("%s(%s)", v.Name, strings.Join(parts, ", "))
}

// EnumDecl declares a closed sum type.
type EnumDecl struct {
	ItemBase
	Name     string
	Variants []*EnumVariantDecl
}

func (e *EnumDecl) String() string {
	parts := make([]string, len(e.Variants))
	for i, v := range e.Variants {
		parts[i] = v.String()
	}
	return fmt.Sprintf("enum %s { %s }", e.Name, strings.Join(parts, ", "))
}

// ImplBlock declares methods/associated functions for TargetName. It is not
// itself a Symbol-bearing item (its methods are); GetSymbol/SetSymbol come
// from ItemBase to satisfy Item and are not used for impl blocks.
type ImplBlock struct {
	ItemBase
	TargetName string
	Methods    []*FunctionDecl
}

func (b *ImplBlock) String() string {
	parts := make([]string, len(b.Methods))
	for i, m := range b.Methods {
		parts[i] = m.String()
	}
	return fmt.Sprintf("impl %s { %s }", b.TargetName, strings.Join(parts, " "))
}

// ConstDecl declares a compile-time constant; its defining expression is
// re-evaluated and memoized by the constant evaluator on first use.
type ConstDecl struct {
	ItemBase
	Name     string
	TypeNode TypeNode
	Value    Expr
}

func (c *ConstDecl) String() string {
	return fmt.Sprintf("const %s: %s = %s;", c.Name, c.TypeNode.String(), c.Value.String())
}
