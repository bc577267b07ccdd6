// Package diag defines the diagnostic model shared by the lexer, the parser
// and the liveness checker.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity: tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code: compact numeric identifier (see codes.go) with stable string form.
//     The code doubles as the diagnostic "kind": assist providers filter the
//     diagnostics of a file by code before testing spans.
//   - Message: human oriented text; keep it short and actionable.
//   - Primary span: the canonical source.Span pointing to the issue.
//   - Notes: optional secondary spans/messages for additional context.
//
// Diagnostics carry no fixes. Edits are synthesised on demand by
// internal/assist from the cursor position and the diagnostics of the same
// snapshot.
//
// # Emitting diagnostics
//
// Phases report through a Reporter. BagReporter collects into a Bag, which
// keeps a limit and filters by code or by minimum severity. DedupReporter
// drops repeated reports before they reach the bag.
//
// Package diag performs no formatting and no IO; rendering lives in
// internal/diagfmt.
package diag
