package sinks

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jonwraymond/toolsafe/safe"
)

// Zap returns a sink that logs each diagnostic to logger at error level.
func Zap(name string, logger *zap.Logger) *safe.Sink {
	return ZapAt(name, logger, zapcore.ErrorLevel)
}

// ZapAt is Zap with an explicit level. A nil logger discards everything.
func ZapAt(name string, logger *zap.Logger, level zapcore.Level) *safe.Sink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return safe.NewSink(name, func(msg string) {
		if ce := logger.Check(level, trim(msg)); ce != nil {
			ce.Write(zap.String("sink", name))
		}
	})
}

func trim(msg string) string {
	return strings.TrimRight(msg, "\n")
}
