// Package trace records the phases of a nixkit run as nested spans.
//
// Every analysis runs the same pipeline per file: lex+parse, liveness,
// then assist resolution where each provider gets its own span. Tracing
// shows where a slow `nixkit check` spends its time and which provider
// produced (or failed to produce) an assist.
//
//	nixkit assists --trace=- --trace-level=debug --at 3:5 default.nix
//
// # Levels and scopes
//
// Scopes from coarse to fine:
//
//   - ScopeDriver: one CLI command or a whole directory check
//   - ScopeFile: one file analysis
//   - ScopePass: parse, liveness, assists
//   - ScopeNode: a single assist provider
//
// LevelPhase emits driver and pass spans, LevelDetail adds files and
// LevelDebug adds providers.
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Start(ctx, trace.ScopePass, "parse")
//	defer span.End("")
//	trace.Mark(ctx, trace.ScopeFile, "load-error", path)
package trace
