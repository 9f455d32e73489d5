// Package trace records what the resolver driver is doing: manifest loading,
// the declaration pass, every fixed-point pass and the layout report.
//
// Enable it from the command line:
//
//	coolc resolve --trace=- --trace-level=detail decls.toml
//
// Tracers:
//
//   - Nop: disabled, zero overhead
//   - StreamTracer: writes each event as it happens (text or NDJSON)
//   - RingTracer: keeps the last N events for post-mortem dumps
//   - MultiTracer: fans out to several tracers
//
// Levels gate scopes: phase shows driver and pass boundaries, detail adds
// per-item events, debug shows everything.
//
// Tracers travel in a context.Context together with the session id of the
// current run:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "pass#1", parentID)
//	defer span.End("")
package trace
