package parser

import (
	"strconv"
	"strings"

	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/ast"
	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/lexer"
)

var binOpKinds = map[lexer.Kind]ast.BinOp{
	lexer.PLUS: ast.OpAdd, lexer.MINUS: ast.OpSub, lexer.STAR: ast.OpMul,
	lexer.SLASH: ast.OpDiv, lexer.PERCENT: ast.OpMod,
	lexer.AMP: ast.OpAnd, lexer.PIPE: ast.OpOr, lexer.CARET: ast.OpXor,
	lexer.SHL: ast.OpShl, lexer.SHR: ast.OpShr,
	lexer.EQEQ: ast.OpEq, lexer.NE: ast.OpNe, lexer.LT: ast.OpLt,
	lexer.LE: ast.OpLe, lexer.GT: ast.OpGt, lexer.GE: ast.OpGe,
	lexer.AMPAMP: ast.OpLogicalAnd, lexer.PIPEPIPE: ast.OpLogicalOr,
	lexer.DOTDOT: ast.OpRange, lexer.DOTDOTEQ: ast.OpRangeEq,
}

// parseExpr is the Pratt/precedence-climbing entry point.
func (p *Parser) parseExpr(minPrec Precedence) ast.Expr {
	left := p.parsePrefix()

	for {
		k := p.cur().Kind
		prec := precedenceOf(k)
		if prec == PrecNone || prec < minPrec {
			break
		}
		if k == lexer.LBRACE && (p.noStructInit || !structInitTarget(left)) {
			break
		}
		left = p.parseInfix(left, k, prec)
	}
	return left
}

func structInitTarget(e ast.Expr) bool {
	switch e.(type) {
	case *ast.VariableExpr, *ast.PathExpr:
		return true
	}
	return false
}

// parseExprNoStructInit parses an expression with the struct-initializer
// infix rule suppressed, for if/while conditions and match scrutinees.
func (p *Parser) parseExprNoStructInit(minPrec Precedence) ast.Expr {
	saved := p.noStructInit
	p.noStructInit = true
	e := p.parseExpr(minPrec)
	p.noStructInit = saved
	return e
}

func (p *Parser) parsePrefix() ast.Expr {
	pos := p.cur().Pos

	switch p.cur().Kind {
	case lexer.INT:
		return p.parseIntLiteral()
	case lexer.KwTrue:
		p.advance()
		return &ast.BoolLiteralExpr{ExprBase: ast.NewExprBase(pos), Value: true}
	case lexer.KwFalse:
		p.advance()
		return &ast.BoolLiteralExpr{ExprBase: ast.NewExprBase(pos), Value: false}
	case lexer.STRING:
		tok := p.advance()
		return &ast.StringLiteralExpr{ExprBase: ast.NewExprBase(pos), Value: tok.Lexeme, Raw: tok.Raw}
	case lexer.CHAR:
		tok := p.advance()
		return &ast.CharLiteralExpr{ExprBase: ast.NewExprBase(pos), Value: tok.Lexeme}
	case lexer.IDENT:
		name := p.advance().Lexeme
		return ast.NewVariableExpr(pos, name)
	case lexer.KwSelf:
		p.advance()
		return ast.NewVariableExpr(pos, "self")
	case lexer.KwSelfType:
		p.advance()
		return ast.NewVariableExpr(pos, "Self")
	case lexer.LPAREN:
		p.advance()
		if _, ok := p.accept(lexer.RPAREN); ok {
			return &ast.BlockExpr{ExprBase: ast.NewExprBase(pos)}
		}
		inner := p.parseExpr(PrecAssignment)
		p.expect(lexer.RPAREN)
		return inner
	case lexer.LBRACKET:
		return p.parseArrayExpr(pos)
	case lexer.AMP:
		p.advance()
		mutable := false
		if _, ok := p.accept(lexer.KwMut); ok {
			mutable = true
		}
		operand := p.parseExpr(PrecUnary)
		return &ast.ReferenceExpr{ExprBase: ast.NewExprBase(pos), Mutable: mutable, Operand: operand}
	case lexer.STAR:
		p.advance()
		operand := p.parseExpr(PrecUnary)
		return &ast.DerefExpr{ExprBase: ast.NewExprBase(pos), Operand: operand}
	case lexer.MINUS:
		p.advance()
		operand := p.parseExpr(PrecUnary)
		return &ast.UnaryExpr{ExprBase: ast.NewExprBase(pos), Op: ast.OpNeg, Operand: operand}
	case lexer.BANG:
		p.advance()
		operand := p.parseExpr(PrecUnary)
		return &ast.UnaryExpr{ExprBase: ast.NewExprBase(pos), Op: ast.OpNot, Operand: operand}
	case lexer.LBRACE:
		return p.parseBlockExpr()
	case lexer.KwIf:
		return p.parseIfExpr()
	case lexer.KwWhile:
		return p.parseWhileExpr()
	case lexer.KwLoop:
		return p.parseLoopExpr()
	case lexer.KwMatch:
		return p.parseMatchExpr()
	case lexer.KwBreak:
		return p.parseBreakExpr()
	case lexer.KwContinue:
		p.advance()
		return &ast.ContinueExpr{ExprBase: ast.NewExprBase(pos)}
	default:
		p.errorf(pos, unexpectedTokenMsg(p.cur())+" (expected an expression)")
		p.advance()
		return ast.NewVariableExpr(pos, "<error>")
	}
}

func (p *Parser) parseIntLiteral() *ast.IntLiteralExpr {
	tok := p.advance()
	lexeme := tok.Lexeme
	digits := strings.ReplaceAll(lexeme, "_", "")
	var base = 10
	switch {
	case strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X"):
		base, digits = 16, digits[2:]
	case strings.HasPrefix(digits, "0o") || strings.HasPrefix(digits, "0O"):
		base, digits = 8, digits[2:]
	case strings.HasPrefix(digits, "0b") || strings.HasPrefix(digits, "0B"):
		base, digits = 2, digits[2:]
	}
	val, _ := strconv.ParseUint(digits, base, 64)
	return ast.NewIntLiteralExpr(tok.Pos, lexeme, val, tok.Suffix)
}

func (p *Parser) parseArrayExpr(pos lexer.Position) ast.Expr {
	p.expect(lexer.LBRACKET)
	if p.at(lexer.RBRACKET) {
		p.advance()
		return &ast.ArrayLiteralExpr{ExprBase: ast.NewExprBase(pos)}
	}
	first := p.parseExpr(PrecAssignment)
	if _, ok := p.accept(lexer.SEMI); ok {
		size := p.parseExpr(PrecAssignment)
		p.expect(lexer.RBRACKET)
		return &ast.ArrayRepeatExpr{ExprBase: ast.NewExprBase(pos), Value: first, Size: size}
	}
	elems := []ast.Expr{first}
	for {
		if _, ok := p.accept(lexer.COMMA); !ok {
			break
		}
		if p.at(lexer.RBRACKET) {
			break
		}
		elems = append(elems, p.parseExpr(PrecAssignment))
	}
	p.expect(lexer.RBRACKET)
	return &ast.ArrayLiteralExpr{ExprBase: ast.NewExprBase(pos), Elements: elems}
}

func (p *Parser) parseInfix(left ast.Expr, k lexer.Kind, prec Precedence) ast.Expr {
	pos := p.cur().Pos

	switch k {
	case lexer.EQ:
		p.advance()
		value := p.parseExpr(prec)
		return &ast.AssignExpr{ExprBase: ast.NewExprBase(pos), Target: left, Value: value}

	case lexer.LPAREN:
		p.advance()
		var args []ast.Expr
		for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
			args = append(args, p.parseExpr(PrecAssignment))
			if !p.at(lexer.RPAREN) {
				p.expect(lexer.COMMA)
			}
		}
		p.expect(lexer.RPAREN)
		return &ast.CallExpr{ExprBase: ast.NewExprBase(pos), Callee: left, Args: args}

	case lexer.LBRACKET:
		p.advance()
		idx := p.parseExpr(PrecAssignment)
		p.expect(lexer.RBRACKET)
		return &ast.IndexExpr{ExprBase: ast.NewExprBase(pos), Object: left, Index: idx}

	case lexer.DOT:
		p.advance()
		name := p.expect(lexer.IDENT).Lexeme
		if p.at(lexer.LPAREN) {
			p.advance()
			var args []ast.Expr
			for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
				args = append(args, p.parseExpr(PrecAssignment))
				if !p.at(lexer.RPAREN) {
					p.expect(lexer.COMMA)
				}
			}
			p.expect(lexer.RPAREN)
			return &ast.MethodCallExpr{ExprBase: ast.NewExprBase(pos), Receiver: left, Method: name, Args: args}
		}
		return &ast.FieldAccessExpr{ExprBase: ast.NewExprBase(pos), Object: left, Field: name}

	case lexer.COLONCOLON:
		p.advance()
		item := p.expect(lexer.IDENT).Lexeme
		base, ok := left.(*ast.VariableExpr)
		if !ok {
			p.errorf(pos, "path expression requires a simple name to the left of '::'")
			return left
		}
		return &ast.PathExpr{ExprBase: ast.NewExprBase(pos), Base: base.Name, Item: item}

	case lexer.LBRACE:
		return p.parseStructInitializer(left)

	case lexer.KwAs:
		p.advance()
		tn := p.parseTypeNode()
		return &ast.AsExpr{ExprBase: ast.NewExprBase(pos), Operand: left, TypeNode: tn}

	default:
		if binop, ok := compoundBinOpKind(k); ok {
			p.advance()
			value := p.parseExpr(prec)
			return &ast.CompoundAssignExpr{ExprBase: ast.NewExprBase(pos), Op: binOpKinds[binop], Target: left, Value: value}
		}
		if op, ok := binOpKinds[k]; ok {
			p.advance()
			nextMin := prec + 1
			if rightAssociative[k] {
				nextMin = prec
			}
			right := p.parseExpr(nextMin)
			return &ast.BinaryExpr{ExprBase: ast.NewExprBase(pos), Op: op, Left: left, Right: right}
		}
		// Unreachable if infixPrecedence and this switch stay in sync.
		p.advance()
		return left
	}
}

func (p *Parser) parseStructInitializer(left ast.Expr) ast.Expr {
	pos := left.Pos()
	var name string
	switch e := left.(type) {
	case *ast.VariableExpr:
		name = e.Name
	case *ast.PathExpr:
		name = e.Base + "::" + e.Item
	}
	p.expect(lexer.LBRACE)
	var fields []*ast.FieldInit
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		fpos := p.cur().Pos
		fname := p.expect(lexer.IDENT).Lexeme
		var value ast.Expr
		if _, ok := p.accept(lexer.COLON); ok {
			value = p.parseExpr(PrecAssignment)
		} else {
			value = ast.NewVariableExpr(fpos, fname)
		}
		fields = append(fields, &ast.FieldInit{Name: fname, Value: value, Position: fpos})
		if !p.at(lexer.RBRACE) {
			p.expect(lexer.COMMA)
		}
	}
	p.expect(lexer.RBRACE)
	return &ast.StructInitializerExpr{ExprBase: ast.NewExprBase(pos), StructName: name, Fields: fields}
}

func (p *Parser) parseIfExpr() ast.Expr {
	pos := p.cur().Pos
	p.expect(lexer.KwIf)
	p.expect(lexer.LPAREN)
	cond := p.parseExprNoStructInit(PrecAssignment)
	p.expect(lexer.RPAREN)
	then := p.parseBlockExpr()

	var elseExpr ast.Expr
	if _, ok := p.accept(lexer.KwElse); ok {
		if p.at(lexer.KwIf) {
			elseExpr = p.parseIfExpr()
		} else {
			elseExpr = p.parseBlockExpr()
		}
	}
	return &ast.IfExpr{ExprBase: ast.NewExprBase(pos), Cond: cond, Then: then, Else: elseExpr}
}

func (p *Parser) parseWhileExpr() ast.Expr {
	pos := p.cur().Pos
	p.expect(lexer.KwWhile)
	p.expect(lexer.LPAREN)
	cond := p.parseExprNoStructInit(PrecAssignment)
	p.expect(lexer.RPAREN)
	body := p.parseBlockExpr()
	return &ast.WhileExpr{ExprBase: ast.NewExprBase(pos), Cond: cond, Body: body}
}

func (p *Parser) parseLoopExpr() ast.Expr {
	pos := p.cur().Pos
	p.expect(lexer.KwLoop)
	body := p.parseBlockExpr()
	return &ast.LoopExpr{ExprBase: ast.NewExprBase(pos), Body: body}
}

func (p *Parser) parseBreakExpr() ast.Expr {
	pos := p.cur().Pos
	p.expect(lexer.KwBreak)
	var value ast.Expr
	if !p.at(lexer.SEMI) && !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		value = p.parseExpr(PrecAssignment)
	}
	return &ast.BreakExpr{ExprBase: ast.NewExprBase(pos), Value: value}
}

func (p *Parser) parseMatchExpr() ast.Expr {
	pos := p.cur().Pos
	p.expect(lexer.KwMatch)
	scrutinee := p.parseExprNoStructInit(PrecAssignment)
	p.expect(lexer.LBRACE)

	var arms []*ast.MatchArm
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		apos := p.cur().Pos
		pat := p.parsePattern()
		var guard ast.Expr
		if _, ok := p.accept(lexer.KwIf); ok {
			guard = p.parseExprNoStructInit(PrecAssignment)
		}
		p.expect(lexer.FATARROW)
		body := p.parseExpr(PrecAssignment)
		arms = append(arms, &ast.MatchArm{Pattern: pat, Guard: guard, Body: body, Position: apos})
		if !p.at(lexer.RBRACE) {
			p.accept(lexer.COMMA)
		}
	}
	p.expect(lexer.RBRACE)
	return &ast.MatchExpr{ExprBase: ast.NewExprBase(pos), Scrutinee: scrutinee, Arms: arms}
}

// parsePrimary is used by the pattern parser for literal patterns.
func (p *Parser) parsePrimary() ast.Expr {
	return p.parsePrefix()
}
