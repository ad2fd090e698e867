package parser

import (
	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/ast"
	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/lexer"
)

func (p *Parser) parseItem() ast.Item {
	switch p.cur().Kind {
	case lexer.KwFn:
		return p.parseFunctionDecl("")
	case lexer.KwStruct:
		return p.parseStructDecl()
	case lexer.KwEnum:
		return p.parseEnumDecl()
	case lexer.KwImpl:
		return p.parseImplBlock()
	case lexer.KwConst:
		return p.parseConstDecl()
	default:
		p.errorf(p.cur().Pos, unexpectedTokenMsg(p.cur())+" (expected an item)")
		p.synchronize()
		return nil
	}
}

// isItemStart reports whether the current token begins a nested item, used
// by the statement parser to decide between a statement and a local item.
func (p *Parser) isItemStart() bool {
	switch p.cur().Kind {
	case lexer.KwFn, lexer.KwStruct, lexer.KwEnum, lexer.KwImpl, lexer.KwConst:
		return true
	}
	return false
}

func (p *Parser) parseFunctionDecl(implTarget string) *ast.FunctionDecl {
	pos := p.cur().Pos
	p.expect(lexer.KwFn)
	name := p.expect(lexer.IDENT).Lexeme
	p.expect(lexer.LPAREN)

	var params []*ast.Param
	for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
		params = append(params, p.parseParam())
		if !p.at(lexer.RPAREN) {
			p.expect(lexer.COMMA)
		}
	}
	p.expect(lexer.RPAREN)

	var ret ast.TypeNode
	if _, ok := p.accept(lexer.ARROW); ok {
		ret = p.parseTypeNode()
	}

	body := p.parseBlockExpr()

	return &ast.FunctionDecl{
		ItemBase:   ast.ItemBase{Position: pos},
		Name:       name,
		Params:     params,
		ReturnType: ret,
		Body:       body,
		ImplTarget: implTarget,
	}
}

// parseParam handles both ordinary `name: T` parameters and the receiver
// forms `self` / `&self` / `&mut self`, which synthesize a pattern named
// "self" with type Self / &Self / &mut Self.
func (p *Parser) parseParam() *ast.Param {
	pos := p.cur().Pos

	if p.at(lexer.KwSelf) {
		p.advance()
		return &ast.Param{Name: "self", IsSelf: true}
	}
	if p.at(lexer.AMP) && (p.peek(1).Kind == lexer.KwSelf ||
		(p.peek(1).Kind == lexer.KwMut && p.peek(2).Kind == lexer.KwSelf)) {
		p.advance() // &
		mutable := false
		if _, ok := p.accept(lexer.KwMut); ok {
			mutable = true
		}
		p.expect(lexer.KwSelf)
		return &ast.Param{Name: "self", IsSelf: true, Mutable: mutable}
	}

	mutable := false
	if _, ok := p.accept(lexer.KwMut); ok {
		mutable = true
	}
	name := p.expect(lexer.IDENT).Lexeme
	p.expect(lexer.COLON)
	tn := p.parseTypeNode()
	return &ast.Param{Name: name, TypeNode: tn, Mutable: mutable, Position: pos}
}

func (p *Parser) parseStructDecl() *ast.StructDecl {
	pos := p.cur().Pos
	p.expect(lexer.KwStruct)
	name := p.expect(lexer.IDENT).Lexeme
	p.expect(lexer.LBRACE)

	var fields []*ast.FieldDecl
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		fpos := p.cur().Pos
		fname := p.expect(lexer.IDENT).Lexeme
		p.expect(lexer.COLON)
		tn := p.parseTypeNode()
		fields = append(fields, &ast.FieldDecl{Name: fname, TypeNode: tn, Position: fpos})
		if !p.at(lexer.RBRACE) {
			p.expect(lexer.COMMA)
		}
	}
	p.expect(lexer.RBRACE)

	return &ast.StructDecl{ItemBase: ast.ItemBase{Position: pos}, Name: name, Fields: fields}
}

func (p *Parser) parseEnumDecl() *ast.EnumDecl {
	pos := p.cur().Pos
	p.expect(lexer.KwEnum)
	name := p.expect(lexer.IDENT).Lexeme
	p.expect(lexer.LBRACE)

	var variants []*ast.EnumVariantDecl
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		vpos := p.cur().Pos
		vname := p.expect(lexer.IDENT).Lexeme
		var payload []ast.TypeNode
		if _, ok := p.accept(lexer.LPAREN); ok {
			for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
				payload = append(payload, p.parseTypeNode())
				if !p.at(lexer.RPAREN) {
					p.expect(lexer.COMMA)
				}
			}
			p.expect(lexer.RPAREN)
		}
		variants = append(variants, &ast.EnumVariantDecl{Name: vname, Payload: payload, Position: vpos})
		if !p.at(lexer.RBRACE) {
			p.expect(lexer.COMMA)
		}
	}
	p.expect(lexer.RBRACE)

	return &ast.EnumDecl{ItemBase: ast.ItemBase{Position: pos}, Name: name, Variants: variants}
}

func (p *Parser) parseImplBlock() *ast.ImplBlock {
	pos := p.cur().Pos
	p.expect(lexer.KwImpl)
	target := p.expect(lexer.IDENT).Lexeme
	p.expect(lexer.LBRACE)

	var methods []*ast.FunctionDecl
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		if !p.at(lexer.KwFn) {
			p.errorf(p.cur().Pos, "expected a method declaration inside impl block, found %s", p.cur().Kind)
			p.synchronize()
			continue
		}
		methods = append(methods, p.parseFunctionDecl(target))
	}
	p.expect(lexer.RBRACE)

	return &ast.ImplBlock{ItemBase: ast.ItemBase{Position: pos}, TargetName: target, Methods: methods}
}

func (p *Parser) parseConstDecl() *ast.ConstDecl {
	pos := p.cur().Pos
	p.expect(lexer.KwConst)
	name := p.expect(lexer.IDENT).Lexeme
	p.expect(lexer.COLON)
	tn := p.parseTypeNode()
	p.expect(lexer.EQ)
	value := p.parseExpr(PrecAssignment)
	p.expect(lexer.SEMI)
	return &ast.ConstDecl{ItemBase: ast.ItemBase{Position: pos}, Name: name, TypeNode: tn, Value: value}
}
