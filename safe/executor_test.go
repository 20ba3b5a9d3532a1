package safe

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capture collects everything logged to a sink.
type capture struct {
	mu   sync.Mutex
	msgs []string
}

func newCapture() (*Sink, *capture) {
	c := &capture{}
	return NewSink("capture", func(msg string) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.msgs = append(c.msgs, msg)
	}), c
}

func (c *capture) lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.msgs...)
}

var errBoom = errors.New("boom")

func failing() (int, error) { return 0, errBoom }

func succeeding() (int, error) { return 42, nil }

func TestTryOrReturn(t *testing.T) {
	t.Run("success returns result without logging", func(t *testing.T) {
		sink, logs := newCapture()
		got := TryOrReturn(succeeding, -1, WithSink(sink))
		assert.Equal(t, 42, got)
		assert.Empty(t, logs.lines())
	})

	t.Run("failure returns fallback and logs once", func(t *testing.T) {
		sink, logs := newCapture()
		got := TryOrReturn(failing, -1, WithSink(sink), WithProblem("computing"))
		assert.Equal(t, -1, got)
		require.Len(t, logs.lines(), 1)
		assert.Contains(t, logs.lines()[0], "Problem: computing")
		assert.Contains(t, logs.lines()[0], "boom")
	})

	t.Run("panic returns fallback", func(t *testing.T) {
		sink, logs := newCapture()
		got := TryOrReturn(func() (string, error) { panic("kaboom") }, "fallback", WithSink(sink))
		assert.Equal(t, "fallback", got)
		require.Len(t, logs.lines(), 1)
		assert.Contains(t, logs.lines()[0], "kaboom")
	})

	t.Run("nil operation is handled like any failure", func(t *testing.T) {
		sink, logs := newCapture()
		var fn func() (int, error)
		got := TryOrReturn(fn, 7, WithSink(sink))
		assert.Equal(t, 7, got)
		assert.Len(t, logs.lines(), 1)
	})
}

func TestTryOrFalse(t *testing.T) {
	sink, logs := newCapture()

	assert.True(t, TryOrFalse(func() error { return nil }, WithSink(sink)))
	assert.Empty(t, logs.lines())

	assert.False(t, TryOrFalse(func() error { return errBoom }, WithSink(sink)))
	assert.Len(t, logs.lines(), 1)
}

func TestTryOrPass(t *testing.T) {
	sink, logs := newCapture()

	ran := false
	TryOrPass(func() error {
		ran = true
		return nil
	}, WithSink(sink))
	assert.True(t, ran)
	assert.Empty(t, logs.lines())

	assert.NotPanics(t, func() {
		TryOrPass(func() error { panic(errBoom) }, WithSink(sink))
	})
	require.Len(t, logs.lines(), 1)
	assert.Contains(t, logs.lines()[0], "boom")
}

func TestTryOrPanic(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		sink, logs := newCapture()
		got, err := TryOrPanic(succeeding, WithSink(sink))
		require.NoError(t, err)
		assert.Equal(t, 42, got)
		assert.Empty(t, logs.lines())
	})

	t.Run("failure wraps the original", func(t *testing.T) {
		sink, logs := newCapture()
		got, err := TryOrPanic(failing,
			WithSink(sink),
			WithProblem("parsing manifest"),
			WithName("loader"),
		)
		require.Error(t, err)
		assert.Zero(t, got)
		assert.Empty(t, logs.lines(), "reraise must not log")

		assert.Contains(t, err.Error(), "parsing manifest")
		assert.Contains(t, err.Error(), "[loader]")
		assert.ErrorIs(t, err, errBoom)

		var se *Error
		require.ErrorAs(t, err, &se)
		assert.Same(t, errBoom, se.Err)
		assert.Equal(t, "loader", se.Name)
		assert.Equal(t, "parsing manifest", se.Problem)
	})

	t.Run("panic keeps the panic value reachable", func(t *testing.T) {
		_, err := TryOrPanic(func() (int, error) { panic(errBoom) })
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrPanic)
		assert.ErrorIs(t, err, errBoom)
	})
}

func TestTryOrPanicErr(t *testing.T) {
	require.NoError(t, TryOrPanicErr(func() error { return nil }))

	err := TryOrPanicErr(func() error { return errBoom }, WithName("flush"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "[flush] had a problem")
}

func TestTryOrStackTrace(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		sink, logs := newCapture()
		got, err := TryOrStackTrace(succeeding, WithSink(sink))
		require.NoError(t, err)
		assert.Equal(t, 42, got)
		assert.Empty(t, logs.lines())
	})

	t.Run("failure logs trace and returns the original error", func(t *testing.T) {
		sink, logs := newCapture()
		_, err := TryOrStackTrace(failing, WithSink(sink), WithProblem("loading"))
		assert.Same(t, errBoom, err)

		lines := logs.lines()
		require.GreaterOrEqual(t, len(lines), 3)
		assert.Contains(t, lines[0], "Problem: loading")
		assert.Equal(t, TraceHeader, lines[1])
		assert.Contains(t, lines[2], "Function: safe.TestTryOrStackTrace")
		assert.False(t, strings.HasPrefix(lines[2], " "), "first frame is not indented")
		if len(lines) > 3 {
			assert.True(t, strings.HasPrefix(lines[3], traceIndent+"Function: "))
		}
	})

	t.Run("panic logs the panicking frame first", func(t *testing.T) {
		sink, logs := newCapture()
		err := TryOrStackTraceErr(func() error { panic("deep") }, WithSink(sink))

		var pe *PanicError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "deep", pe.Value)

		lines := logs.lines()
		require.GreaterOrEqual(t, len(lines), 3)
		assert.Contains(t, lines[2], "TestTryOrStackTrace")
	})

	t.Run("max frames caps the walk", func(t *testing.T) {
		sink, logs := newCapture()
		err := TryOrStackTraceErr(func() error { return errBoom }, WithSink(sink), WithMaxFrames(1))
		assert.Same(t, errBoom, err)
		assert.Len(t, logs.lines(), 3)
	})
}

func TestSilentOmitsFullDetail(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", errBoom)

	sink, logs := newCapture()
	TryOrPass(func() error { return wrapped }, WithSink(sink), Silent())
	TryOrPass(func() error { return wrapped }, WithSink(sink))

	lines := logs.lines()
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Detail: outer: boom")
	assert.NotContains(t, lines[0], "caused by")
	assert.NotContains(t, lines[0], "*fmt.wrapError")
	assert.Contains(t, lines[1], "*fmt.wrapError: outer: boom")
	assert.Contains(t, lines[1], "caused by *errors.errorString: boom")
}

func TestCallSiteIsCaptured(t *testing.T) {
	sink, logs := newCapture()
	site, _ := Here(), TryOrReturn(failing, 0, WithSink(sink))

	lines := logs.lines()
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], site.String())
	assert.Contains(t, site.Function, "TestCallSiteIsCaptured")
	assert.True(t, strings.HasSuffix(site.File, "executor_test.go"))
}

func TestWithCallSite(t *testing.T) {
	sink, logs := newCapture()
	site := CallSite{Function: "main.run", File: "main.go", Line: 12}
	TryOrPass(func() error { return errBoom }, WithSink(sink), WithCallSite(site))

	require.Len(t, logs.lines(), 1)
	assert.True(t, strings.HasSuffix(logs.lines()[0], "at main.run in main.go at line 12\n"))
}

func TestRecorderSeesEveryCall(t *testing.T) {
	var outcomes []Outcome
	rec := RecorderFunc(func(o Outcome) { outcomes = append(outcomes, o) })
	sink, _ := newCapture()

	TryOrPass(func() error { return nil }, WithSink(sink), WithRecorder(rec), WithName("ok"))
	_ = TryOrFalse(func() error { return errBoom }, WithSink(sink), WithRecorder(rec), WithName("bad"))

	require.Len(t, outcomes, 2)
	assert.False(t, outcomes[0].Failed())
	assert.Equal(t, PassThrough, outcomes[0].Policy)
	assert.True(t, outcomes[0].Site.IsZero())

	assert.True(t, outcomes[1].Failed())
	assert.Equal(t, ReturnFlag, outcomes[1].Policy)
	assert.Equal(t, "bad", outcomes[1].Name)
	assert.Contains(t, outcomes[1].Site.Function, "TestRecorderSeesEveryCall")
}

func TestPolicyString(t *testing.T) {
	tests := []struct {
		policy Policy
		want   string
	}{
		{ReturnFallback, "return_fallback"},
		{ReturnFlag, "return_flag"},
		{PassThrough, "pass_through"},
		{Reraise, "reraise"},
		{ReraiseWithTrace, "reraise_with_trace"},
		{Policy(99), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.policy.String())
	}
	assert.False(t, Reraise.Logs())
	assert.True(t, ReraiseWithTrace.Logs())
	assert.False(t, ReraiseWithTrace.Absorbs())
}

func TestCallAndRun(t *testing.T) {
	v, err := Call(succeeding)
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	_, err = Call(func() (int, error) { panic("oops") })
	assert.ErrorIs(t, err, ErrPanic)

	assert.Same(t, errBoom, Run(func() error { return errBoom }))
	assert.NoError(t, Run(func() error { return nil }))
}
