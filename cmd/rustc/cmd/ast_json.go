package cmd

import (
	"strconv"

	"github.com/tidwall/sjson"

	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/ast"
)

// astToJSON renders prog as a flat JSON array of top-level items, one object
// per item carrying its syntactic kind, name, and source position. It is a
// debugging aid for --emit=ast --ast-format=json, not a full serialization of
// the tree (bodies are not expanded) — good enough for a machine to check
// "did the parser see the items it should have" without round-tripping the
// whole AST.
func astToJSON(prog *ast.Program) (string, error) {
	json := "[]"
	var err error
	for i, it := range prog.Items {
		json, err = setItemJSON(json, i, it)
		if err != nil {
			return "", err
		}
	}
	return json, nil
}

func setItemJSON(json string, i int, it ast.Item) (string, error) {
	path := func(field string) string { return itemPath(i, field) }

	kind, name := itemKindAndName(it)
	json, err := sjson.Set(json, path("kind"), kind)
	if err != nil {
		return "", err
	}
	json, err = sjson.Set(json, path("name"), name)
	if err != nil {
		return "", err
	}
	json, err = sjson.Set(json, path("line"), it.Pos().Line)
	if err != nil {
		return "", err
	}
	return sjson.Set(json, path("column"), it.Pos().Column)
}

func itemPath(i int, field string) string {
	return strconv.Itoa(i) + "." + field
}

func itemKindAndName(it ast.Item) (kind, name string) {
	switch d := it.(type) {
	case *ast.FunctionDecl:
		return "function", d.Name
	case *ast.StructDecl:
		return "struct", d.Name
	case *ast.EnumDecl:
		return "enum", d.Name
	case *ast.ImplBlock:
		return "impl", d.TargetName
	case *ast.ConstDecl:
		return "const", d.Name
	}
	return "unknown", ""
}
