package parser

import (
	"nixkit/internal/token"
)

// Таблица приоритетов; чем больше число, тем сильнее связывание
const (
	precImplication = 1  // ->
	precLogicalOr   = 2  // ||
	precLogicalAnd  = 3  // &&
	precEquality    = 4  // == !=
	precComparison  = 5  // < <= > >=
	precUpdate      = 6  // //
	precNot         = 7  // !e
	precAdditive    = 8  // + -
	precMultiply    = 9  // * /
	precConcat      = 10 // ++
	precHasAttr     = 11 // e ? a
	precNegate      = 12 // -e
)

// binaryPrec возвращает приоритет и правую ассоциативность оператора;
// -1 для не-операторов.
func binaryPrec(kind token.Kind) (int, bool) {
	switch kind {
	case token.Implication:
		return precImplication, true
	case token.OrOr:
		return precLogicalOr, false
	case token.AndAnd:
		return precLogicalAnd, false
	case token.EqEq, token.BangEq:
		return precEquality, false
	case token.Lt, token.LtEq, token.Gt, token.GtEq:
		return precComparison, false
	case token.Update:
		return precUpdate, true
	case token.Plus, token.Minus:
		return precAdditive, false
	case token.Star, token.Slash:
		return precMultiply, false
	case token.Concat:
		return precConcat, true
	default:
		return -1, false
	}
}

// isAtomStart: может ли токен начинать аргумент применения
func isAtomStart(k token.Kind) bool {
	switch k {
	case token.Ident, token.IntLit, token.FloatLit, token.StringLit, token.PathLit,
		token.LParen, token.LBracket, token.LBrace, token.KwRec:
		return true
	default:
		return false
	}
}
