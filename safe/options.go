package safe

import "time"

// Outcome describes one guarded call once it has finished.
type Outcome struct {
	Policy   Policy
	Name     string
	Problem  string
	Site     CallSite // zero on success
	Err      error    // nil on success
	Start    time.Time
	Duration time.Duration
}

// Failed reports whether the guarded operation failed.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// Recorder observes guarded calls.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: Record must not panic; it cannot change the call's result.
type Recorder interface {
	Record(o Outcome)
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(o Outcome)

// Record calls f(o).
func (f RecorderFunc) Record(o Outcome) {
	f(o)
}

// Option configures a single guarded call.
type Option func(*options)

type options struct {
	sink      *Sink
	problem   string
	name      string
	silent    bool
	site      CallSite
	siteSet   bool
	recorder  Recorder
	maxFrames int
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	if o.sink == nil {
		o.sink = Default()
	}
	return o
}

// WithSink routes diagnostics to s instead of Default.
func WithSink(s *Sink) Option {
	return func(o *options) {
		o.sink = s
	}
}

// WithProblem sets the text describing what was being attempted.
func WithProblem(problem string) Option {
	return func(o *options) {
		o.problem = problem
	}
}

// WithName sets the logical name shown as [name] in diagnostics.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// Silent limits the failure detail to its short message.
func Silent() Option {
	return WithSilent(true)
}

// WithSilent sets whether the failure detail is limited to its short message.
func WithSilent(silent bool) Option {
	return func(o *options) {
		o.silent = silent
	}
}

// WithCallSite uses site instead of capturing the caller automatically.
func WithCallSite(site CallSite) Option {
	return func(o *options) {
		o.site = site
		o.siteSet = true
	}
}

// WithRecorder reports the Outcome of the call to r.
func WithRecorder(r Recorder) Option {
	return func(o *options) {
		o.recorder = r
	}
}

// WithMaxFrames caps the frames logged by the stack-trace policy.
// Zero, the default, logs the whole stack.
func WithMaxFrames(n int) Option {
	return func(o *options) {
		if n < 0 {
			n = 0
		}
		o.maxFrames = n
	}
}
