package assist

import (
	"nixkit/internal/diag"
	"nixkit/internal/syntax"
)

const RemoveUnusedBindingID = "remove_unused_binding"

// removeUnusedBinding удаляет привязку let целиком: `let a = 1; b = 2; in b` -> `let b = 2; in b`.
func removeUnusedBinding(ctx *Context) {
	// ближайшая привязка именно let: вложенные множества пропускаем
	n, ok := ctx.CoveringNode(func(n syntax.Node) bool {
		if n.Kind() != syntax.NodeAttrpathValue {
			return false
		}
		parent, ok := n.Parent()
		return ok && parent.Kind() == syntax.NodeLetIn
	})
	if !ok {
		return
	}
	bind, _ := syntax.AsAttrpathValue(n)
	path, ok := bind.Attrpath()
	if !ok {
		return
	}
	names := path.Names()
	if len(names) == 0 {
		return
	}
	// целимся в имя, а не во всю привязку: соседняя привязка без пробела касалась бы её
	if !ctx.HasDiagnostic(names[0].Span(), diag.LiveUnusedBinding) {
		return
	}
	edit, ok := DeleteNodeWithTrailingTrivia(bind.Node)
	if !ok {
		return
	}
	label := "Remove unused binding"
	if name, ok := names[0].Static(); ok {
		label += " `" + name + "`"
	}
	ctx.Add(RemoveUnusedBindingID, label, QuickFix, []TextEdit{edit})
}
