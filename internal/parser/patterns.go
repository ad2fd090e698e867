package parser

import (
	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/ast"
	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/lexer"
)

// parsePattern parses a `let`/parameter/match-arm binding pattern.
func (p *Parser) parsePattern() ast.Pattern {
	pos := p.cur().Pos

	switch p.cur().Kind {
	case lexer.UNDERSCORE:
		p.advance()
		return &ast.WildcardPattern{PatternBase: ast.PatternBase{Position: pos}}

	case lexer.AMP:
		p.advance()
		mutable := false
		if _, ok := p.accept(lexer.KwMut); ok {
			mutable = true
		}
		inner := p.parsePattern()
		return &ast.ReferencePattern{PatternBase: ast.PatternBase{Position: pos}, Mutable: mutable, Inner: inner}

	case lexer.KwMut:
		p.advance()
		name := p.expect(lexer.IDENT).Lexeme
		return ast.NewIdentPattern(pos, name, true)

	case lexer.INT, lexer.KwTrue, lexer.KwFalse, lexer.CHAR:
		lit := p.parsePrimary()
		return &ast.LiteralPattern{PatternBase: ast.PatternBase{Position: pos}, Literal: lit}

	case lexer.IDENT:
		name := p.advance().Lexeme
		if _, ok := p.accept(lexer.COLONCOLON); ok {
			variant := p.expect(lexer.IDENT).Lexeme
			var bindings []ast.Pattern
			if _, ok := p.accept(lexer.LPAREN); ok {
				for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
					bindings = append(bindings, p.parsePattern())
					if !p.at(lexer.RPAREN) {
						p.expect(lexer.COMMA)
					}
				}
				p.expect(lexer.RPAREN)
			}
			return &ast.EnumVariantPattern{
				PatternBase: ast.PatternBase{Position: pos},
				EnumName:    name, VariantName: variant, Bindings: bindings,
			}
		}
		if p.at(lexer.LBRACE) {
			return p.parseStructPattern(pos, name)
		}
		return ast.NewIdentPattern(pos, name, false)

	default:
		p.errorf(pos, unexpectedTokenMsg(p.cur())+" (expected a pattern)")
		p.advance()
		return ast.NewIdentPattern(pos, "<error>", false)
	}
}

func (p *Parser) parseStructPattern(pos lexer.Position, name string) *ast.StructPattern {
	p.expect(lexer.LBRACE)
	var fields []ast.StructPatternField
	hasRest := false
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		if _, ok := p.accept(lexer.DOTDOT); ok {
			hasRest = true
			break
		}
		fname := p.expect(lexer.IDENT).Lexeme
		var binding ast.Pattern
		if _, ok := p.accept(lexer.COLON); ok {
			binding = p.parsePattern()
		}
		fields = append(fields, ast.StructPatternField{Name: fname, Binding: binding})
		if !p.at(lexer.RBRACE) {
			p.expect(lexer.COMMA)
		}
	}
	p.expect(lexer.RBRACE)
	return &ast.StructPattern{
		PatternBase: ast.PatternBase{Position: pos},
		StructName:  name, Fields: fields, HasRest: hasRest,
	}
}
