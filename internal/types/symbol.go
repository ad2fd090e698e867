package types

// SymbolKind classifies what a Symbol names.
type SymbolKind int

const (
	SymVariable SymbolKind = iota
	SymFunction
	SymType
	SymModule
	SymVariant
	SymConstant
)

// Symbol is a named, typed entity produced by name resolution: a variable
// binding, a function, a type (struct/enum), an enum variant, or a
// constant. AliasOf lets one symbol stand for another; no pass sets it
// (`Self` inside an impl block is resolved from the impl target's type).
type Symbol struct {
	Name    string
	Kind    SymbolKind
	Type    Type
	Members *MemberTable
	Mutable bool
	Builtin bool
	AliasOf *Symbol
	// ConstNode is an opaque back-reference to the AST const-declaration
	// node that defines this symbol's value, when Kind == SymConstant.
	// Typed as interface{} (rather than an ast.Node) to avoid an import
	// cycle between types and ast; the constant evaluator, which already
	// imports both, performs the type assertion.
	ConstNode interface{}
	// ConstValue memoizes the evaluated constant value: the constant
	// evaluator re-evaluating the same symbol twice returns this cached
	// result instead of re-walking ConstNode.
	ConstValue     int64
	ConstEvaluated bool
}

// Resolve follows AliasOf chains to the underlying symbol.
func (s *Symbol) Resolve() *Symbol {
	for s.AliasOf != nil {
		s = s.AliasOf
	}
	return s
}
