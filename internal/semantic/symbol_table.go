package semantic

import "github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/types"

// Scope is one level of the scoped symbol table: two disjoint maps, one
// for value bindings (variables, functions, constants) and
// one for type bindings (structs, enums), so a struct and a function may
// share a name without ambiguity.
type Scope struct {
	Values map[string]*types.Symbol
	Types  map[string]*types.Symbol
	Parent *Scope
}

func NewScope(parent *Scope) *Scope {
	return &Scope{
		Values: make(map[string]*types.Symbol),
		Types:  make(map[string]*types.Symbol),
		Parent: parent,
	}
}

// DefineValue installs sym in this scope's value namespace. Reports false if
// the name is already bound in this same scope; callers further up (the
// resolver) are responsible for turning that into a diagnostic so the
// message can name the offending declaration.
func (s *Scope) DefineValue(sym *types.Symbol) bool {
	if _, exists := s.Values[sym.Name]; exists {
		return false
	}
	s.Values[sym.Name] = sym
	return true
}

func (s *Scope) DefineType(sym *types.Symbol) bool {
	if _, exists := s.Types[sym.Name]; exists {
		return false
	}
	s.Types[sym.Name] = sym
	return true
}

// LookupValue walks outward through enclosing scopes.
func (s *Scope) LookupValue(name string) (*types.Symbol, bool) {
	for sc := s; sc != nil; sc = sc.Parent {
		if sym, ok := sc.Values[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

func (s *Scope) LookupType(name string) (*types.Symbol, bool) {
	for sc := s; sc != nil; sc = sc.Parent {
		if sym, ok := sc.Types[name]; ok {
			return sym, true
		}
	}
	return nil, false
}
