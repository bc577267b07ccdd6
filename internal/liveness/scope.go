package liveness

import (
	"nixkit/internal/source"
	"nixkit/internal/syntax"
)

// ScopeKind enumerates the constructs that introduce names.
type ScopeKind uint8

const (
	ScopeInvalid ScopeKind = iota
	ScopeLet               // let ... in
	ScopeRec               // rec { ... }
	ScopeLambda            // параметры функции
	ScopeWith              // with e; имён не вводит, ловит неразрешённые
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeLet:
		return "let"
	case ScopeRec:
		return "rec"
	case ScopeLambda:
		return "lambda"
	case ScopeWith:
		return "with"
	default:
		return "invalid"
	}
}

// definition: одно место, где имя вводится. Привязки `a.b = 1; a.c = 2;`
// дают две definition с общим именем и общей судьбой.
type definition struct {
	name    source.StringID
	text    string
	span    source.Span // span имени для диагностики
	binding syntax.Node // AttrpathValue, Inherit, Param или PatField
	used    bool
}

type scope struct {
	kind   ScopeKind
	parent *scope
	owner  syntax.Node
	names  map[source.StringID][]*definition
	order  []*definition
	// для ScopeWith: нашлось ли хоть одно имя, которое могло прийти из окружения
	withUsed bool
}

func newScope(kind ScopeKind, parent *scope, owner syntax.Node) *scope {
	return &scope{
		kind:   kind,
		parent: parent,
		owner:  owner,
		names:  make(map[source.StringID][]*definition),
	}
}

func (s *scope) define(d *definition) {
	s.names[d.name] = append(s.names[d.name], d)
	s.order = append(s.order, d)
}

// anyUsed reports whether at least one name of the scope was referenced.
func (s *scope) anyUsed() bool {
	for _, d := range s.order {
		if d.used {
			return true
		}
	}
	return false
}

// resolve ищет имя лексически: ближайшая область с таким именем выигрывает,
// with-области при этом пропускаются. Неразрешённое имя, не являющееся
// встроенным, помечает все охватывающие with как (возможно) использованные.
func (s *scope) resolve(name source.StringID, builtin bool) bool {
	for cur := s; cur != nil; cur = cur.parent {
		if defs, ok := cur.names[name]; ok {
			for _, d := range defs {
				d.used = true
			}
			return true
		}
	}
	if builtin {
		return true
	}
	for cur := s; cur != nil; cur = cur.parent {
		if cur.kind == ScopeWith {
			cur.withUsed = true
		}
	}
	return false
}
