package parser

import (
	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/ast"
	"github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/lexer"
)

// parseBlockExpr parses `{ stmt* tailExpr? }`: only the last statement of a
// block may omit its terminating semicolon, except the control-flow
// expression forms which carry an implicit statement terminator.
func (p *Parser) parseBlockExpr() *ast.BlockExpr {
	pos := p.cur().Pos
	p.expect(lexer.LBRACE)

	var stmts []ast.Stmt
	var tail ast.Expr

	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		spos := p.cur().Pos

		if p.isItemStart() {
			item := p.parseItem()
			stmts = append(stmts, &ast.ItemStmt{StmtBase: ast.StmtBase{Position: spos}, Item: item})
			continue
		}
		if p.at(lexer.KwLet) {
			stmts = append(stmts, p.parseLetStmt())
			continue
		}

		expr := p.parseExpr(PrecAssignment)
		if _, ok := p.accept(lexer.SEMI); ok {
			stmts = append(stmts, ast.NewExprStmt(spos, expr, true))
			continue
		}
		if p.at(lexer.RBRACE) {
			tail = expr
			break
		}
		if isImplicitlyTerminated(expr) {
			stmts = append(stmts, ast.NewExprStmt(spos, expr, false))
			continue
		}
		p.errorf(p.cur().Pos, "expected ';' after expression statement")
		stmts = append(stmts, ast.NewExprStmt(spos, expr, true))
	}

	p.expect(lexer.RBRACE)
	return &ast.BlockExpr{ExprBase: ast.NewExprBase(pos), Stmts: stmts, Tail: tail}
}

// isImplicitlyTerminated reports whether expr is one of the control-flow
// expression forms that may appear as a non-final block statement without a
// semicolon.
func isImplicitlyTerminated(expr ast.Expr) bool {
	switch expr.(type) {
	case *ast.IfExpr, *ast.WhileExpr, *ast.LoopExpr, *ast.MatchExpr, *ast.BlockExpr:
		return true
	}
	return false
}

func (p *Parser) parseLetStmt() *ast.LetStmt {
	pos := p.cur().Pos
	p.expect(lexer.KwLet)
	pat := p.parsePattern()
	p.expect(lexer.COLON)
	tn := p.parseTypeNode()
	p.expect(lexer.EQ)
	init := p.parseExpr(PrecAssignment)
	p.expect(lexer.SEMI)
	return ast.NewLetStmt(pos, pat, tn, init)
}
