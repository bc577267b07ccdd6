package assist

import (
	"nixkit/internal/syntax"
)

const RemoveEmptyLetInID = "remove_empty_let_in"

// removeEmptyLetIn: `let in e` -> `e`. Чисто синтаксическое, диагностики не нужны.
func removeEmptyLetIn(ctx *Context) {
	let, ok := Covering(ctx, syntax.AsLetIn)
	if !ok {
		return
	}
	letTok, ok := let.LetToken()
	if !ok {
		return
	}
	inTok, ok := let.InToken()
	if !ok {
		return
	}
	// между let и in не должно быть ничего, кроме тривиа
	for tok, ok := letTok.Next(); ok && tok.ID() != inTok.ID(); tok, ok = tok.Next() {
		if !tok.IsTrivia() {
			return
		}
	}
	ctx.Add(RemoveEmptyLetInID, "Remove empty let-in", Refactor, []TextEdit{
		DeleteRangeWithTrailingTrivia(letTok, inTok),
	})
}
