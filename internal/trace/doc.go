// Package trace records pipeline phases of cncmacro runs.
//
// Enable it from the command line:
//
//	cncmacro diag --trace=- --trace-level=phase prog.src
//
// Tracers travel through the pipeline in a context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "parse", parentID)
//	defer span.End("")
//
// Levels: off, error, phase (driver and passes), detail (per file), debug (everything).
package trace
