package safe

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Emitter accepts one diagnostic.
type Emitter func(msg string)

// Sink is a named destination for diagnostics.
//
// Contract:
// - Concurrency: a Sink adds no locking; safety is up to its Emitter.
// - Errors: Log never fails on its own; panics raised by the Emitter propagate.
type Sink struct {
	name string
	emit Emitter
}

// NewSink creates a sink that forwards every message to emit.
func NewSink(name string, emit Emitter) *Sink {
	return &Sink{name: name, emit: emit}
}

// WriterSink creates a sink writing each message followed by a newline to w.
// Writes are serialized.
func WriterSink(name string, w io.Writer) *Sink {
	var mu sync.Mutex
	return NewSink(name, func(msg string) {
		mu.Lock()
		defer mu.Unlock()
		_, _ = fmt.Fprintln(w, msg)
	})
}

// Name returns the sink name.
func (s *Sink) Name() string {
	if s == nil {
		return ""
	}
	return s.name
}

// Log hands msg unchanged to the emitter. A nil sink or emitter does nothing.
func (s *Sink) Log(msg string) {
	if s == nil || s.emit == nil {
		return
	}
	s.emit(msg)
}

var (
	defaultOnce sync.Once
	defaultSink *Sink
)

// Default returns the process-wide sink used when no sink is supplied. It is
// created on first use and writes to standard output.
func Default() *Sink {
	defaultOnce.Do(func() {
		defaultSink = NewSink("stdout", func(msg string) {
			_, _ = fmt.Fprintln(os.Stdout, msg)
		})
	})
	return defaultSink
}
