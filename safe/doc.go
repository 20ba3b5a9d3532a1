// Package safe runs caller-supplied operations under a failure policy.
//
// An operation fails when it returns a non-nil error or panics. On failure the
// package builds a diagnostic message (problem, optional name, failure detail
// and the call site of the guarded call), hands it to a Sink and then resolves
// the call according to the policy of the function used.
//
// # Policies
//
//   - TryOrReturn: log and return a fallback value.
//
//   - TryOrFalse: log and return false.
//
//   - TryOrPass: log and continue.
//
//   - TryOrPanic, TryOrPanicErr: return a *Error carrying the diagnostic and
//     wrapping the original failure. Nothing is logged.
//
//   - TryOrStackTrace, TryOrStackTraceErr: log the diagnostic and the full call
//     stack, then return the original failure unchanged.
//
// Each call is exactly one attempt; nothing is retried.
//
// # Usage
//
//	cfg := safe.TryOrReturn(loadConfig, defaultConfig,
//	    safe.WithProblem("reading config"),
//	    safe.WithName("bootstrap"),
//	)
//
//	if !safe.TryOrFalse(flush, safe.WithSink(sink), safe.Silent()) {
//	    // degraded
//	}
//
//	v, err := safe.TryOrPanic(parse, safe.WithProblem("parsing manifest"))
//
// # Sinks
//
// Diagnostics go to the sink given with WithSink, or to Default, a process-wide
// sink writing to standard output. Default is the only global state in the
// package; tests that inspect diagnostics must inject their own sink.
package safe
