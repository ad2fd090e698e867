package ast

import (
	"fmt"

	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/lexer"
)

// NamedTypeNode is a type referenced by a single identifier: a primitive
// (`i32`, `bool`, …), a struct/enum name, or `Self`.
type NamedTypeNode struct {
	TypeNodeBase
	Name string
}

func NewNamedTypeNode(pos lexer.Position, name string) *NamedTypeNode {
	return &NamedTypeNode{TypeNodeBase: TypeNodeBase{Position: pos}, Name: name}
}
func (n *NamedTypeNode) String() string { return n.Name }

// ArrayTypeNode is `[T; N]`; N is a constant expression resolved by the
// constant evaluator.
type ArrayTypeNode struct {
	TypeNodeBase
	Elem TypeNode
	Size Expr
}

func (n *ArrayTypeNode) String() string {
	return fmt.Sprintf("[%s; %s]", n.Elem.String(), n.Size.String())
}

// ReferenceTypeNode is `&T` or `&mut T`.
type ReferenceTypeNode struct {
	TypeNodeBase
	Inner   TypeNode
	Mutable bool
}

func (n *ReferenceTypeNode) String() string {
	if n.Mutable {
		return "&mut " + n.Inner.String()
	}
	return "&" + n.Inner.String()
}

// RawPointerTypeNode is `*const T` or `*mut T`.
type RawPointerTypeNode struct {
	TypeNodeBase
	Inner   TypeNode
	Mutable bool
}

func (n *RawPointerTypeNode) String() string {
	if n.Mutable {
		return "*mut " + n.Inner.String()
	}
	return "*const " + n.Inner.String()
}

// UnitTypeNode is `()`, the only tuple form this subset supports.
type UnitTypeNode struct {
	TypeNodeBase
}

func (n *UnitTypeNode) String() string { return "()" }

func NewUnitTypeNode(pos lexer.Position) *UnitTypeNode {
	return &UnitTypeNode{TypeNodeBase: TypeNodeBase{Position: pos}}
}
