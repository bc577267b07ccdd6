package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Whitespace covers runs of spaces, tabs and newlines.
	Whitespace
	// LineComment represents a '# ...' comment up to the end of the line.
	LineComment
	// BlockComment represents a '/* ... */' comment.
	BlockComment

	// Ident represents an identifier token.
	Ident
	// KwLet represents the 'let' keyword.
	KwLet // let
	// KwIn represents the 'in' keyword.
	KwIn // in
	// KwRec represents the 'rec' keyword.
	KwRec // rec
	// KwInherit represents the 'inherit' keyword.
	KwInherit // inherit
	// KwIf represents the 'if' keyword.
	KwIf // if
	KwThen
	KwElse
	KwWith
	KwAssert
	KwOr

	// IntLit represents an integer literal.
	IntLit
	// FloatLit represents a float literal.
	FloatLit
	// StringLit represents a "..." string literal.
	StringLit
	// PathLit represents a path literal such as ./a/b or ~/x.
	PathLit

	LBrace   // {
	RBrace   // }
	LBracket // [
	RBracket // ]
	LParen   // (
	RParen   // )

	Semicolon // ;
	Assign    // =
	Dot       // .
	Comma     // ,
	Colon     // :
	Question  // ?
	At        // @
	Ellipsis  // ...

	Plus        // +
	Minus       // -
	Star        // *
	Slash       // /
	Concat      // ++
	Update      // //
	EqEq        // ==
	BangEq      // !=
	Lt          // <
	LtEq        // <=
	Gt          // >
	GtEq        // >=
	AndAnd      // &&
	OrOr        // ||
	Implication // ->
	Bang        // !
)

var kindNames = [...]string{
	Invalid:      "Invalid",
	EOF:          "EOF",
	Whitespace:   "Whitespace",
	LineComment:  "LineComment",
	BlockComment: "BlockComment",
	Ident:        "Ident",
	KwLet:        "KwLet",
	KwIn:         "KwIn",
	KwRec:        "KwRec",
	KwInherit:    "KwInherit",
	KwIf:         "KwIf",
	KwThen:       "KwThen",
	KwElse:       "KwElse",
	KwWith:       "KwWith",
	KwAssert:     "KwAssert",
	KwOr:         "KwOr",
	IntLit:       "IntLit",
	FloatLit:     "FloatLit",
	StringLit:    "StringLit",
	PathLit:      "PathLit",
	LBrace:       "LBrace",
	RBrace:       "RBrace",
	LBracket:     "LBracket",
	RBracket:     "RBracket",
	LParen:       "LParen",
	RParen:       "RParen",
	Semicolon:    "Semicolon",
	Assign:       "Assign",
	Dot:          "Dot",
	Comma:        "Comma",
	Colon:        "Colon",
	Question:     "Question",
	At:           "At",
	Ellipsis:     "Ellipsis",
	Plus:         "Plus",
	Minus:        "Minus",
	Star:         "Star",
	Slash:        "Slash",
	Concat:       "Concat",
	Update:       "Update",
	EqEq:         "EqEq",
	BangEq:       "BangEq",
	Lt:           "Lt",
	LtEq:         "LtEq",
	Gt:           "Gt",
	GtEq:         "GtEq",
	AndAnd:       "AndAnd",
	OrOr:         "OrOr",
	Implication:  "Implication",
	Bang:         "Bang",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsTrivia reports whether tokens of this kind carry no semantic weight.
func (k Kind) IsTrivia() bool {
	switch k {
	case Whitespace, LineComment, BlockComment:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the kind is a language keyword.
func (k Kind) IsKeyword() bool {
	return k >= KwLet && k <= KwOr
}

// IsLiteral reports whether the kind is a literal.
func (k Kind) IsLiteral() bool {
	switch k {
	case IntLit, FloatLit, StringLit, PathLit:
		return true
	default:
		return false
	}
}
