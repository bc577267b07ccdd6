package assist

import (
	"nixkit/internal/diag"
	"nixkit/internal/syntax"
)

const RemoveUnusedRecID = "remove_unused_rec"

// removeUnusedRec: `rec { a = 1; }` -> `{ a = 1; }` when liveness flagged the `rec`.
func removeUnusedRec(ctx *Context) {
	set, ok := Covering(ctx, syntax.AsAttrSet)
	if !ok {
		return
	}
	rec, ok := set.RecToken()
	if !ok {
		return
	}
	if !ctx.HasDiagnostic(rec.Span(), diag.LiveUnusedRec) {
		return
	}
	ctx.Add(RemoveUnusedRecID, "Remove unused rec", QuickFix, []TextEdit{
		DeleteWithTrailingTrivia(rec),
	})
}
