// Package trace records what capfmt is doing while it walks a tree.
//
// Events are grouped by scope: the driver run, passes (scan, lint, fix), single
// files and, at the most verbose level, individual call sites. A tracer lives
// in the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeFile, path, 0)
//	defer span.End("")
//
// Stream tracers write every event as it happens, ring tracers keep the last
// N events in memory so they can be dumped after a panic.
package trace
