// Package parser implements a recursive-descent parser for items and
// statements, and a Pratt (precedence-climbing) parser for expressions.
// The parser never backtracks: each token is consumed exactly once.
package parser

import (
	"fmt"

	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/ast"
	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/errors"
	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/lexer"
)

// Parser is a forward-only cursor over a pre-lexed token stream.
type Parser struct {
	tokens []lexer.Token
	pos    int
	rep    *errors.Reporter
	// noStructInit suppresses the struct-initializer infix rule while
	// parsing an if/while condition or match scrutinee.
	noStructInit bool
}

// New constructs a Parser over tokens, reporting errors to rep.
func New(tokens []lexer.Token, rep *errors.Reporter) *Parser {
	return &Parser{tokens: tokens, rep: rep}
}

func (p *Parser) cur() lexer.Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return lexer.Token{Kind: lexer.EOF}
}

func (p *Parser) peek(n int) lexer.Token {
	idx := p.pos + n
	if idx < len(p.tokens) {
		return p.tokens[idx]
	}
	return lexer.Token{Kind: lexer.EOF}
}

func (p *Parser) advance() lexer.Token {
	t := p.cur()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

func (p *Parser) at(k lexer.Kind) bool { return p.cur().Kind == k }

func (p *Parser) accept(k lexer.Kind) (lexer.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	return lexer.Token{}, false
}

// expect consumes a token of kind k or records a ParseError and returns a
// placeholder Token of kind k (empty lexeme, current position); callers that cannot proceed without it should bail out of the
// current production so the caller's synchronize can find the next
// statement boundary.
func (p *Parser) expect(k lexer.Kind) lexer.Token {
	if p.at(k) {
		return p.advance()
	}
	p.errorf(p.cur().Pos, "expected %s but found %s", k, p.cur().Kind)
	return lexer.Token{Kind: k, Pos: p.cur().Pos}
}

func (p *Parser) errorf(pos lexer.Position, format string, args ...interface{}) {
	p.rep.Errorf(errors.ParseError, pos, format, args...)
}

// synchronize skips tokens until a statement boundary (`;` or `}`) so that
// multiple parse errors can surface from a single compile.
func (p *Parser) synchronize() {
	for !p.at(lexer.EOF) {
		if p.cur().Kind == lexer.SEMI {
			p.advance()
			return
		}
		if p.cur().Kind == lexer.RBRACE {
			return
		}
		p.advance()
	}
}

// ParseProgram parses the whole token stream into a Program.
func ParseProgram(tokens []lexer.Token, rep *errors.Reporter) *ast.Program {
	p := New(tokens, rep)
	prog := &ast.Program{}
	for !p.at(lexer.EOF) {
		before := p.pos
		item := p.parseItem()
		if item != nil {
			prog.Items = append(prog.Items, item)
		}
		if p.pos == before {
			// Defensive: parseItem must always make progress.
			p.errorf(p.cur().Pos, "unexpected token %s", p.cur().Kind)
			p.advance()
		}
	}
	return prog
}

func unexpectedTokenMsg(tok lexer.Token) string {
	return fmt.Sprintf("unexpected token %s %q", tok.Kind, tok.Lexeme)
}
