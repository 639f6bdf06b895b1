// Package profiler times named spans of a host process and aggregates call
// counts and total durations per name.
//
//	p := profiler.New()
//
//	func retrieve(q string) []Doc {
//		defer p.Scope("retrieve").End()
//		...
//	}
//
//	p.PrintReport()
//
// A Profiler is meant for one goroutine; SafeProfiler serializes access for
// hosts that time spans from several goroutines. Neither logs anything on
// its own: unmatched End calls are counted (Unbalanced) and, in strict mode,
// panic with ErrUnbalancedEnd.
package profiler
