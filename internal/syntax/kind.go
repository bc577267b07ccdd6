package syntax

// NodeKind is the kind of an inner tree node.
type NodeKind uint8

const (
	NodeInvalid NodeKind = iota
	NodeRoot
	NodeError

	// выражения
	NodeLetIn
	NodeAttrSet
	NodeLambda
	NodeApply
	NodeSelect
	NodeHasAttr
	NodeBinaryOp
	NodeUnaryOp
	NodeIfThenElse
	NodeWith
	NodeAssert
	NodeList
	NodeParen
	NodeRef
	NodeLiteral

	// части
	NodeAttrpathValue
	NodeInherit
	NodeAttrpath
	NodeName
	NodeParam
	NodePattern
	NodePatField
)

var nodeKindNames = [...]string{
	NodeInvalid:       "Invalid",
	NodeRoot:          "Root",
	NodeError:         "Error",
	NodeLetIn:         "LetIn",
	NodeAttrSet:       "AttrSet",
	NodeLambda:        "Lambda",
	NodeApply:         "Apply",
	NodeSelect:        "Select",
	NodeHasAttr:       "HasAttr",
	NodeBinaryOp:      "BinaryOp",
	NodeUnaryOp:       "UnaryOp",
	NodeIfThenElse:    "IfThenElse",
	NodeWith:          "With",
	NodeAssert:        "Assert",
	NodeList:          "List",
	NodeParen:         "Paren",
	NodeRef:           "Ref",
	NodeLiteral:       "Literal",
	NodeAttrpathValue: "AttrpathValue",
	NodeInherit:       "Inherit",
	NodeAttrpath:      "Attrpath",
	NodeName:          "Name",
	NodeParam:         "Param",
	NodePattern:       "Pattern",
	NodePatField:      "PatField",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) && nodeKindNames[k] != "" {
		return nodeKindNames[k]
	}
	return "NodeKind(?)"
}

// IsExpr reports whether nodes of this kind stand for an expression.
func (k NodeKind) IsExpr() bool {
	return k >= NodeLetIn && k <= NodeLiteral || k == NodeError
}
