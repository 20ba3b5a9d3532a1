package safe

import (
	"errors"
	"time"
)

// call carries the state of one guarded invocation.
type call struct {
	policy Policy
	opts   *options
	start  time.Time
}

func begin(policy Policy, opts []Option) *call {
	return &call{
		policy: policy,
		opts:   newOptions(opts),
		start:  time.Now(),
	}
}

// callSite must be called directly from an exported Try function so that
// Caller(2) lands on the frame that invoked it.
func (c *call) callSite() CallSite {
	if c.opts.siteSet {
		return c.opts.site
	}
	return Caller(2)
}

func (c *call) diagnostic(err error, site CallSite) string {
	return Format(err, c.opts.problem, c.opts.name, c.opts.silent, site)
}

// fail formats the diagnostic, logs it when the policy logs, and records the
// outcome.
func (c *call) fail(err error, site CallSite) string {
	msg := c.diagnostic(err, site)
	if c.policy.Logs() {
		c.opts.sink.Log(msg)
	}
	c.record(err, site)
	return msg
}

func (c *call) succeed() {
	c.record(nil, CallSite{})
}

func (c *call) record(err error, site CallSite) {
	if c.opts.recorder == nil {
		return
	}
	c.opts.recorder.Record(Outcome{
		Policy:   c.policy,
		Name:     c.opts.name,
		Problem:  c.opts.problem,
		Site:     site,
		Err:      err,
		Start:    c.start,
		Duration: time.Since(c.start),
	})
}

// reraise builds the error returned by the Reraise policy.
func (c *call) reraise(err error, site CallSite, msg string) *Error {
	return &Error{
		Diagnostic: msg,
		Name:       c.opts.name,
		Problem:    c.opts.problem,
		Site:       site,
		Err:        err,
	}
}

// trace logs the stack walk. A panic carries its own stack; otherwise caught
// is the stack at the point the error was observed.
func (c *call) trace(err error, caught []Frame) {
	frames := caught
	var pe *PanicError
	if errors.As(err, &pe) && len(pe.Stack) > 0 {
		frames = pe.Stack
	}
	if c.opts.maxFrames > 0 && len(frames) > c.opts.maxFrames {
		frames = frames[:c.opts.maxFrames]
	}
	c.opts.sink.Log(TraceHeader)
	for _, block := range TraceLines(frames) {
		c.opts.sink.Log(block)
	}
}

// Call runs fn and returns its result, turning a panic into a *PanicError.
// No policy is applied and nothing is logged.
func Call[T any](fn func() (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			v = zero
			err = &PanicError{Value: r, Stack: capturePanicStack()}
		}
	}()
	return fn()
}

// Run is Call for operations without a result.
func Run(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: capturePanicStack()}
		}
	}()
	return fn()
}

// TryOrReturn returns the result of fn, or fallback after logging the
// diagnostic when fn fails.
func TryOrReturn[T any](fn func() (T, error), fallback T, opts ...Option) T {
	c := begin(ReturnFallback, opts)
	v, err := Call(fn)
	if err == nil {
		c.succeed()
		return v
	}
	c.fail(err, c.callSite())
	return fallback
}

// TryOrFalse runs fn and reports whether it succeeded. Failures are logged.
func TryOrFalse(fn func() error, opts ...Option) bool {
	c := begin(ReturnFlag, opts)
	err := Run(fn)
	if err == nil {
		c.succeed()
		return true
	}
	c.fail(err, c.callSite())
	return false
}

// TryOrPass runs fn, logging and absorbing any failure.
func TryOrPass(fn func() error, opts ...Option) {
	c := begin(PassThrough, opts)
	err := Run(fn)
	if err == nil {
		c.succeed()
		return
	}
	c.fail(err, c.callSite())
}

// TryOrPanic returns the result of fn. On failure it returns a *Error whose
// message is the diagnostic and which wraps the original failure. Nothing is
// logged; handling is left to the caller.
func TryOrPanic[T any](fn func() (T, error), opts ...Option) (T, error) {
	c := begin(Reraise, opts)
	v, err := Call(fn)
	if err == nil {
		c.succeed()
		return v, nil
	}
	site := c.callSite()
	msg := c.fail(err, site)
	var zero T
	return zero, c.reraise(err, site, msg)
}

// TryOrPanicErr is TryOrPanic for operations without a result.
func TryOrPanicErr(fn func() error, opts ...Option) error {
	c := begin(Reraise, opts)
	err := Run(fn)
	if err == nil {
		c.succeed()
		return nil
	}
	site := c.callSite()
	msg := c.fail(err, site)
	return c.reraise(err, site, msg)
}

// TryOrStackTrace returns the result of fn. On failure it logs the
// diagnostic, then the call stack one frame per log call, and returns the
// original failure unwrapped.
func TryOrStackTrace[T any](fn func() (T, error), opts ...Option) (T, error) {
	c := begin(ReraiseWithTrace, opts)
	v, err := Call(fn)
	if err == nil {
		c.succeed()
		return v, nil
	}
	c.fail(err, c.callSite())
	c.trace(err, CaptureStack(1))
	var zero T
	return zero, err
}

// TryOrStackTraceErr is TryOrStackTrace for operations without a result.
func TryOrStackTraceErr(fn func() error, opts ...Option) error {
	c := begin(ReraiseWithTrace, opts)
	err := Run(fn)
	if err == nil {
		c.succeed()
		return nil
	}
	c.fail(err, c.callSite())
	c.trace(err, CaptureStack(1))
	return err
}
