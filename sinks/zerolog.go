package sinks

import (
	"github.com/rs/zerolog"

	"github.com/jonwraymond/toolsafe/safe"
)

// Zerolog returns a sink that logs each diagnostic to logger at error level.
func Zerolog(name string, logger zerolog.Logger) *safe.Sink {
	return ZerologAt(name, logger, zerolog.ErrorLevel)
}

// ZerologAt is Zerolog with an explicit level.
func ZerologAt(name string, logger zerolog.Logger, level zerolog.Level) *safe.Sink {
	return safe.NewSink(name, func(msg string) {
		logger.WithLevel(level).Str("sink", name).Msg(trim(msg))
	})
}
