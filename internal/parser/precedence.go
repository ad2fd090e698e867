package parser

import "github.com/louhao088088/Simple-Rust-Compiler-sub000/internal/lexer"

// Precedence levels, lowest to highest.
type Precedence int

const (
	PrecNone Precedence = iota
	PrecAssignment
	PrecRange
	PrecLogicalOr
	PrecLogicalAnd
	PrecComparison
	PrecBitwiseOr
	PrecBitwiseXor
	PrecBitwiseAnd
	PrecShift
	PrecAdditive
	PrecMultiplicative
	PrecAs
	PrecUnary
	PrecCall
	PrecPath
)

var infixPrecedence = map[lexer.Kind]Precedence{
	lexer.EQ:        PrecAssignment,
	lexer.PLUSEQ:    PrecAssignment,
	lexer.MINUSEQ:   PrecAssignment,
	lexer.STAREQ:    PrecAssignment,
	lexer.SLASHEQ:   PrecAssignment,
	lexer.PERCENTEQ: PrecAssignment,
	lexer.AMPEQ:     PrecAssignment,
	lexer.PIPEEQ:    PrecAssignment,
	lexer.CARETEQ:   PrecAssignment,
	lexer.SHLEQ:     PrecAssignment,
	lexer.SHREQ:     PrecAssignment,

	lexer.DOTDOT:   PrecRange,
	lexer.DOTDOTEQ: PrecRange,

	lexer.PIPEPIPE: PrecLogicalOr,
	lexer.AMPAMP:   PrecLogicalAnd,

	lexer.EQEQ: PrecComparison,
	lexer.NE:   PrecComparison,
	lexer.LT:   PrecComparison,
	lexer.LE:   PrecComparison,
	lexer.GT:   PrecComparison,
	lexer.GE:   PrecComparison,

	lexer.PIPE:  PrecBitwiseOr,
	lexer.CARET: PrecBitwiseXor,
	lexer.AMP:   PrecBitwiseAnd,

	lexer.SHL: PrecShift,
	lexer.SHR: PrecShift,

	lexer.PLUS:  PrecAdditive,
	lexer.MINUS: PrecAdditive,

	lexer.STAR:    PrecMultiplicative,
	lexer.SLASH:   PrecMultiplicative,
	lexer.PERCENT: PrecMultiplicative,

	lexer.KwAs: PrecAs,

	lexer.LPAREN:   PrecCall,
	lexer.LBRACKET: PrecCall,
	lexer.DOT:      PrecCall,
	lexer.LBRACE:   PrecCall, // struct initializer, context-gated

	lexer.COLONCOLON: PrecPath,
}

func precedenceOf(k lexer.Kind) Precedence {
	if p, ok := infixPrecedence[k]; ok {
		return p
	}
	return PrecNone
}

var rightAssociative = map[lexer.Kind]bool{
	lexer.EQ: true, lexer.PLUSEQ: true, lexer.MINUSEQ: true, lexer.STAREQ: true,
	lexer.SLASHEQ: true, lexer.PERCENTEQ: true, lexer.AMPEQ: true, lexer.PIPEEQ: true,
	lexer.CARETEQ: true, lexer.SHLEQ: true, lexer.SHREQ: true,
}

// compoundBinOpKind maps a compound-assignment token to the underlying
// BinOp token it performs before assigning back.
func compoundBinOpKind(k lexer.Kind) (kind lexer.Kind, ok bool) {
	switch k {
	case lexer.PLUSEQ:
		return lexer.PLUS, true
	case lexer.MINUSEQ:
		return lexer.MINUS, true
	case lexer.STAREQ:
		return lexer.STAR, true
	case lexer.SLASHEQ:
		return lexer.SLASH, true
	case lexer.PERCENTEQ:
		return lexer.PERCENT, true
	case lexer.AMPEQ:
		return lexer.AMP, true
	case lexer.PIPEEQ:
		return lexer.PIPE, true
	case lexer.CARETEQ:
		return lexer.CARET, true
	case lexer.SHLEQ:
		return lexer.SHL, true
	case lexer.SHREQ:
		return lexer.SHR, true
	}
	return 0, false
}
