package safe

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSink_LogForwardsUnchanged(t *testing.T) {
	var got string
	s := NewSink("test", func(msg string) { got = msg })

	s.Log("  exact text\n")
	assert.Equal(t, "  exact text\n", got)
	assert.Equal(t, "test", s.Name())
}

func TestSink_NilIsNoop(t *testing.T) {
	var nilSink *Sink
	assert.NotPanics(t, func() { nilSink.Log("x") })
	assert.Equal(t, "", nilSink.Name())

	noEmit := NewSink("empty", nil)
	assert.NotPanics(t, func() { noEmit.Log("x") })
}

func TestSink_EmitterPanicPropagates(t *testing.T) {
	s := NewSink("bad", func(string) { panic("emit failed") })
	assert.PanicsWithValue(t, "emit failed", func() { s.Log("x") })
}

func TestWriterSink(t *testing.T) {
	var buf bytes.Buffer
	s := WriterSink("buffer", &buf)
	s.Log("one")
	s.Log("two")
	assert.Equal(t, "one\ntwo\n", buf.String())
}

func TestDefault_IsShared(t *testing.T) {
	a := Default()
	b := Default()
	assert.Same(t, a, b)
	assert.Equal(t, "stdout", a.Name())
}
