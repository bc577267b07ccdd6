package trace

import "context"

// scopeState is what a context carries: the tracer and the innermost open span.
type scopeState struct {
	tracer Tracer
	span   uint64
}

type ctxKey struct{}

func stateOf(ctx context.Context) scopeState {
	if ctx != nil {
		if st, ok := ctx.Value(ctxKey{}).(scopeState); ok {
			return st
		}
	}
	return scopeState{tracer: Nop}
}

// FromContext returns the tracer attached to ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	return stateOf(ctx).tracer
}

// WithTracer attaches t to ctx; spans started from the result have no parent.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, ctxKey{}, scopeState{tracer: t})
}

// ParentSpan is the ID of the span most recently opened with Start, 0 at the top.
func ParentSpan(ctx context.Context) uint64 {
	return stateOf(ctx).span
}

// Start begins a span under the current one and returns a context that makes
// it the parent of nested spans.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	st := stateOf(ctx)
	span := Begin(st.tracer, scope, name, st.span)
	// у отфильтрованного спана ID() равен родительскому
	st.span = span.ID()
	return context.WithValue(ctx, ctxKey{}, st), span
}

// Mark emits a point event under the current span of ctx.
func Mark(ctx context.Context, scope Scope, name, detail string) {
	st := stateOf(ctx)
	Point(st.tracer, scope, name, st.span, detail)
}
