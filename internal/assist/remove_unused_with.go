package assist

import (
	"nixkit/internal/diag"
	"nixkit/internal/syntax"
)

const RemoveUnusedWithID = "remove_unused_with"

// removeUnusedWith: `with pkgs; x` -> `x` when nothing resolves through the environment.
func removeUnusedWith(ctx *Context) {
	with, ok := Covering(ctx, syntax.AsWith)
	if !ok {
		return
	}
	kw, ok := with.WithToken()
	if !ok {
		return
	}
	semi, ok := with.Semicolon()
	if !ok {
		return
	}
	if !ctx.HasDiagnostic(kw.Span().Cover(semi.Span()), diag.LiveUnusedWith) {
		return
	}
	ctx.Add(RemoveUnusedWithID, "Remove unused with", QuickFix, []TextEdit{
		DeleteRangeWithTrailingTrivia(kw, semi),
	})
}
