package token

var keywords = map[string]Kind{
	"let":     KwLet,
	"in":      KwIn,
	"rec":     KwRec,
	"inherit": KwInherit,
	"if":      KwIf,
	"then":    KwThen,
	"else":    KwElse,
	"with":    KwWith,
	"assert":  KwAssert,
	"or":      KwOr,
}

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Ключевые слова регистрозависимые: распознаются только lowercase версии.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
