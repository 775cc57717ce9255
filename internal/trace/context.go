package trace

import "context"

// binding is what a context carries: the tracer and the span new spans nest
// under.
type binding struct {
	tracer Tracer
	parent uint64
}

type bindingKey struct{}

func bound(ctx context.Context) binding {
	if ctx != nil {
		if b, ok := ctx.Value(bindingKey{}).(binding); ok {
			return b
		}
	}
	return binding{tracer: Nop}
}

// FromContext returns the tracer in ctx, or Nop.
func FromContext(ctx context.Context) Tracer { return bound(ctx).tracer }

// ParentID returns the id of the span active in ctx, 0 at the root.
func ParentID(ctx context.Context) uint64 { return bound(ctx).parent }

// WithTracer installs t and resets the active span.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, bindingKey{}, binding{tracer: t})
}

// Start opens a span under the one active in ctx. The returned context makes
// the new span active unless the tracer filtered it out.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	b := bound(ctx)
	span := Begin(b.tracer, scope, name, b.parent)
	if id := span.ID(); id != 0 {
		ctx = context.WithValue(ctx, bindingKey{}, binding{tracer: b.tracer, parent: id})
	}
	return ctx, span
}
