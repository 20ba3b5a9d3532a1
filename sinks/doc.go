// Package sinks adapts structured loggers into safe.Sink values.
//
// Each adapter forwards one diagnostic as one log entry, with the trailing
// newline removed and the sink name attached as the "sink" field. Zap and
// zerolog adapters log at error level unless a level is given.
//
//	logger, _ := zap.NewProduction()
//	ok := safe.TryOrFalse(flush, safe.WithSink(sinks.Zap("flush", logger)))
package sinks
