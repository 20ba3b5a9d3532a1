package sinks

import (
	"context"

	"github.com/jonwraymond/toolsafe/observe"
	"github.com/jonwraymond/toolsafe/safe"
)

// Logger returns a sink that writes each diagnostic as an error entry on an
// observe.Logger. A nil logger discards everything.
func Logger(name string, logger observe.Logger) *safe.Sink {
	if logger == nil {
		logger = observe.NopLogger()
	}
	l := logger.With(observe.Field{Key: "sink", Value: name})
	return safe.NewSink(name, func(msg string) {
		l.Error(context.Background(), trim(msg))
	})
}
