package semantic

import "github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/types"

// registerBuiltins installs the runtime surface as ordinary function
// symbols in the global scope, so calls to them resolve and type-check like
// any user-defined function; the IR generator recognizes them by name at
// emission time and lowers them to C-library calls instead of user code.
func registerBuiltins(ctx *Context) {
	def := func(name string, params []types.Type, ret types.Type) {
		ctx.scope.DefineValue(&types.Symbol{
			Name: name, Kind: types.SymFunction, Builtin: true,
			Type: &types.Function{Params: params, Return: ret},
		})
	}

	def("printInt", []types.Type{types.TI32}, types.TUnit)
	def("printlnInt", []types.Type{types.TI32}, types.TUnit)
	def("getInt", nil, types.TI32)
	def("exit", []types.Type{types.TI32}, types.TNever)

	// String builtins: name resolution and type checking accept calls to
	// them; the IR generator lowers them to the runtime's string helpers.
	def("print", []types.Type{types.TStr}, types.TUnit)
	def("println", []types.Type{types.TStr}, types.TUnit)
	def("getString", nil, types.TString)
}

// builtinPathFunctions are the reserved associated-function/method forms
// named on a primitive type (`u32::to_string`, `str::len`, …). They are not
// ordinary scope entries because their "receiver" is a primitive type name
// rather than a struct/enum; the resolver consults this table directly when
// it sees a PathExpr `Base::item`. Method-call syntax on a primitive
// receiver (`s.len()`) does not consult it and is rejected by the type
// checker.
var builtinPathFunctions = map[string]*types.Function{
	"u32::to_string":     {Params: []types.Type{types.TU32}, Return: types.TString},
	"usize::to_string":   {Params: []types.Type{types.TUSize}, Return: types.TString},
	"str::len":           {Params: []types.Type{types.TStr}, Return: types.TUSize},
	"String::from":       {Params: []types.Type{types.TStr}, Return: types.TString},
	"String::as_str":     {Params: []types.Type{types.TString}, Return: types.TStr},
	"String::as_mut_str": {Params: []types.Type{types.TString}, Return: types.TStr},
	"String::append":     {Params: []types.Type{types.TString, types.TStr}, Return: types.TUnit},
}
