// Package observe provides telemetry for guarded calls.
//
// It builds OpenTelemetry tracer and meter providers from a Config, offers a
// small JSON structured logger, and exposes Recorder, a safe.Recorder that
// turns every guarded call into a span, call and failure counters, a duration
// histogram and a log entry. Diagnostic text itself stays with the safe.Sink;
// sinks.Logger bridges it into a Logger when wanted.
package observe
