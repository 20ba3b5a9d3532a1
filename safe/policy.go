package safe

// Policy selects how a caught failure is resolved.
type Policy int

const (
	// ReturnFallback logs the failure and returns a fallback value.
	ReturnFallback Policy = iota
	// ReturnFlag logs the failure and returns false.
	ReturnFlag
	// PassThrough logs the failure and absorbs it.
	PassThrough
	// Reraise returns a new error carrying the diagnostic and the original failure.
	Reraise
	// ReraiseWithTrace logs the failure and the call stack, then returns the
	// original failure.
	ReraiseWithTrace
)

// String returns the string representation of the policy.
func (p Policy) String() string {
	switch p {
	case ReturnFallback:
		return "return_fallback"
	case ReturnFlag:
		return "return_flag"
	case PassThrough:
		return "pass_through"
	case Reraise:
		return "reraise"
	case ReraiseWithTrace:
		return "reraise_with_trace"
	default:
		return "unknown"
	}
}

// Logs reports whether the policy emits a diagnostic to the sink on failure.
func (p Policy) Logs() bool {
	return p != Reraise
}

// Absorbs reports whether the policy keeps failures from reaching the caller.
func (p Policy) Absorbs() bool {
	return p == ReturnFallback || p == ReturnFlag || p == PassThrough
}
