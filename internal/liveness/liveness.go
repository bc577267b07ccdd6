// Package liveness finds names and constructs that nothing refers to:
// unused let bindings, `rec` sets whose recursion is never used, `with`
// expressions whose environment is never consulted and unused lambda parameters.
package liveness

import (
	"sort"

	"golang.org/x/text/unicode/norm"

	"nixkit/internal/diag"
	"nixkit/internal/source"
	"nixkit/internal/syntax"
)

type Options struct {
	Reporter diag.Reporter
	// SkipUnusedBindings подавляет LIVE3001 (diagnostics.unused_bindings = false)
	SkipUnusedBindings bool
}

type checker struct {
	tree     *syntax.Tree
	opts     Options
	interner *source.Interner
	found    []diag.Diagnostic
}

// Check walks the tree and reports every finding through opts.Reporter,
// ordered by position.
func Check(tree *syntax.Tree, opts Options) []diag.Diagnostic {
	c := &checker{
		tree:     tree,
		opts:     opts,
		interner: source.NewInterner(),
	}
	c.expr(tree.Root(), nil)
	sort.SliceStable(c.found, func(i, j int) bool {
		return c.found[i].Primary.Start < c.found[j].Primary.Start
	})
	if opts.Reporter != nil {
		for _, d := range c.found {
			opts.Reporter.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes)
		}
	}
	return c.found
}

// CheckBag is Check with findings collected into a fresh bag.
func CheckBag(tree *syntax.Tree, maxDiagnostics int) *diag.Bag {
	bag := diag.NewBag(maxDiagnostics)
	Check(tree, Options{Reporter: &diag.BagReporter{Bag: bag}})
	return bag
}

// intern: имена сравниваются в NFC, чтобы "é" из двух форм совпадало
func (c *checker) intern(name string) source.StringID {
	return c.interner.Intern(norm.NFC.String(name))
}

func (c *checker) emit(sev diag.Severity, code diag.Code, sp source.Span, msg string) {
	c.found = append(c.found, diag.New(sev, code, sp, msg))
}
