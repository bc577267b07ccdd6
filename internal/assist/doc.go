// Package assist turns liveness findings into cursor-triggered source edits.
//
// A resolution takes a cursor range, a syntax tree and the diagnostics of the
// same file revision. Each registered provider walks up from the element under
// the cursor to the construct it cares about, checks that a matching
// diagnostic intersects it, and offers a named, kinded set of text edits.
// Providers never fail: every inapplicable step is an early return, and an
// inapplicable cursor simply yields no assists.
package assist
