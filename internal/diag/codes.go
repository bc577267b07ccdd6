package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004

	// Парсерные
	SynInfo             Code = 2000
	SynUnexpectedToken  Code = 2001
	SynExpectExpression Code = 2002
	SynExpectSemicolon  Code = 2003
	SynExpectIdentifier Code = 2004
	SynExpectAssign     Code = 2005
	SynExpectIn         Code = 2006
	SynExpectThen       Code = 2007
	SynExpectElse       Code = 2008
	SynUnclosedBrace    Code = 2009
	SynUnclosedBracket  Code = 2010
	SynUnclosedParen    Code = 2011
	SynTrailingInput    Code = 2012

	// Liveness: неиспользуемые конструкции
	LiveInfo          Code = 3000
	LiveUnusedBinding Code = 3001
	LiveUnusedRec     Code = 3002
	LiveUnusedWith    Code = 3003
	LiveUnusedParam   Code = 3004

	// Ввод-вывод
	IOInfo          Code = 4000
	IOLoadFileError Code = 4001
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Bad number",
	SynInfo:                     "Syntax information",
	SynUnexpectedToken:          "Unexpected token",
	SynExpectExpression:         "Expected expression",
	SynExpectSemicolon:          "Expected semicolon",
	SynExpectIdentifier:         "Expected identifier",
	SynExpectAssign:             "Expected '='",
	SynExpectIn:                 "Expected 'in'",
	SynExpectThen:               "Expected 'then'",
	SynExpectElse:               "Expected 'else'",
	SynUnclosedBrace:            "Unclosed brace",
	SynUnclosedBracket:          "Unclosed bracket",
	SynUnclosedParen:            "Unclosed parenthesis",
	SynTrailingInput:            "Unexpected input after expression",
	LiveInfo:                    "Liveness information",
	LiveUnusedBinding:           "Unused binding",
	LiveUnusedRec:               "Unused rec",
	LiveUnusedWith:              "Unused with",
	LiveUnusedParam:             "Unused parameter",
	IOInfo:                      "I/O information",
	IOLoadFileError:             "Failed to load file",
}

// ID returns the stable textual form of the code, e.g. "LIVE3002".
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("LIVE%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
