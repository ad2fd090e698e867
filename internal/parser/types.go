package parser

import (
	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/ast"
	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/lexer"
)

// parseTypeNode parses a syntactic type expression: named types
// (including `Self` and primitives), `[T; N]`, `&T`/`&mut T`, `*const T`/`*mut T`,
// and `()`.
func (p *Parser) parseTypeNode() ast.TypeNode {
	pos := p.cur().Pos

	switch p.cur().Kind {
	case lexer.LPAREN:
		p.advance()
		p.expect(lexer.RPAREN)
		return ast.NewUnitTypeNode(pos)

	case lexer.LBRACKET:
		p.advance()
		elem := p.parseTypeNode()
		p.expect(lexer.SEMI)
		size := p.parseExpr(PrecAssignment)
		p.expect(lexer.RBRACKET)
		return &ast.ArrayTypeNode{TypeNodeBase: ast.TypeNodeBase{Position: pos}, Elem: elem, Size: size}

	case lexer.AMP:
		p.advance()
		mutable := false
		if _, ok := p.accept(lexer.KwMut); ok {
			mutable = true
		}
		inner := p.parseTypeNode()
		return &ast.ReferenceTypeNode{TypeNodeBase: ast.TypeNodeBase{Position: pos}, Inner: inner, Mutable: mutable}

	case lexer.STAR:
		p.advance()
		mutable := false
		switch p.cur().Kind {
		case lexer.KwMut:
			p.advance()
			mutable = true
		default:
			p.expect(lexer.KwConst)
		}
		inner := p.parseTypeNode()
		return &ast.RawPointerTypeNode{TypeNodeBase: ast.TypeNodeBase{Position: pos}, Inner: inner, Mutable: mutable}

	case lexer.KwSelfType:
		p.advance()
		return ast.NewNamedTypeNode(pos, "Self")

	case lexer.IDENT:
		name := p.advance().Lexeme
		return ast.NewNamedTypeNode(pos, name)

	default:
		p.errorf(pos, unexpectedTokenMsg(p.cur())+" (expected a type)")
		p.advance()
		return ast.NewNamedTypeNode(pos, "<error>")
	}
}
