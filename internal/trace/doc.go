// Package trace is the compiler's structured event log.
//
// Every phase boundary is recorded as a span; instant events (cache hits,
// watch notifications) are points. Tracing is off by default and costs a
// nil check when disabled.
//
// # Usage
//
//	keelc resolve --trace=- --trace-level=detail program.mp
//
// # Tracers
//
//   - Nop: used when tracing is off
//   - StreamTracer: immediate write (text or NDJSON) to a file or stderr
//   - RingTracer: circular buffer plus the set of open spans, dumped by the
//     CLI on a crash
//   - mode "both": stream and ring together
//
// # Levels and scopes
//
//	phase  - ScopeDriver, ScopePass
//	detail - + ScopeModule (one span per module or script)
//	debug  - + ScopeDecl (one span per function)
//
// LevelError records module-level events into a ring only.
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	sp := trace.Begin(trace.FromContext(ctx), trace.ScopeDriver, "resolve", trace.CurrentSpan(ctx))
//	defer sp.End("")
//	ctx = trace.WithSpan(ctx, sp)
package trace
