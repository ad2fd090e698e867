package ast

import (
	"fmt"
	"strings"

	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/lexer"
	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/types"
)

// IdentPattern binds a name, e.g. `let x = …` or `let mut x = …`.
type IdentPattern struct {
	PatternBase
	Name    string
	Mutable bool
	Symbol  *types.Symbol
}

func NewIdentPattern(pos lexer.Position, name string, mutable bool) *IdentPattern {
	return &IdentPattern{PatternBase: PatternBase{Position: pos}, Name: name, Mutable: mutable}
}
func (p *IdentPattern) String() string {
	if p.Mutable {
		return "mut " + p.Name
	}
	return p.Name
}

// WildcardPattern is `_`.
type WildcardPattern struct{ PatternBase }

func (p *WildcardPattern) String() string { return "_" }

// ReferencePattern is `&pat` or `&mut pat`; requires the context type to be
// a reference whose mutability is not weaker than requested.
type ReferencePattern struct {
	PatternBase
	Mutable bool
	Inner   Pattern
}

func (p *ReferencePattern) String() string {
	if p.Mutable {
		return "&mut " + p.Inner.String()
	}
	return "&" + p.Inner.String()
}

// LiteralPattern matches a constant integer/bool/char match arm.
type LiteralPattern struct {
	PatternBase
	Literal Expr
}

func (p *LiteralPattern) String() string { return p.Literal.String() }

// EnumVariantPattern matches `Enum::Variant` or `Enum::Variant(bindings…)`.
type EnumVariantPattern struct {
	PatternBase
	EnumName    string
	VariantName string
	Bindings    []Pattern
	Symbol      *types.Symbol // resolves to the enum type's symbol
}

func (p *EnumVariantPattern) String() string {
	if len(p.Bindings) == 0 {
		return fmt.Sprintf("%s::%s", p.EnumName, p.VariantName)
	}
	parts := make([]string, len(p.Bindings))
	for i, b := range p.Bindings {
		parts[i] = b.String()
	}
	return fmt.Sprintf("%s::%s(%s)", p.EnumName, p.VariantName, strings.Join(parts, ", "))
}

// StructPatternField is one `name` or `name: pat` inside a StructPattern.
type StructPatternField struct {
	Name    string
	Binding Pattern // nil for shorthand `name` (binds a variable named Name)
	// Symbol is filled in by name resolution for the shorthand form only,
	// so IR generation can recover the same identity a VariableExpr inside
	// the arm body carries for this name.
	Symbol *types.Symbol
}

// StructPattern matches `Struct { field, field2: pat, .. }`.
type StructPattern struct {
	PatternBase
	StructName string
	Fields     []StructPatternField
	HasRest    bool // `..` present
	Symbol     *types.Symbol
}

func (p *StructPattern) String() string {
	parts := make([]string, len(p.Fields))
	for i, f := range p.Fields {
		if f.Binding == nil {
			parts[i] = f.Name
		} else {
			parts[i] = f.Name + ": " + f.Binding.String()
		}
	}
	rest := ""
	if p.HasRest {
		rest = ", .."
	}
	return fmt.Sprintf("%s { %s%s }", p.StructName, strings.Join(parts, ", "), rest)
}
