// Package trace records what the lowering driver is doing.
//
// Spans nest from the driver down to single declarations:
//
//	ScopeDriver  one CLI invocation
//	ScopePass    a stage over all inputs (decode, lower, validate, encode)
//	ScopeFile    one input file
//	ScopeDecl    one top-level declaration
//
// The level picks how deep events go: phase stops at passes, detail adds
// files, debug adds declarations. The tracer travels in a context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "lower", 0)
//	defer span.End("")
//
// StreamTracer writes as events happen, RingTracer keeps the last N for a
// dump after a failure, and MultiTracer feeds both.
package trace
