package safe

import (
	"errors"
	"fmt"
)

// ErrPanic matches every *PanicError with errors.Is.
var ErrPanic = errors.New("safe: panic recovered")

// PanicError is the failure recorded when a guarded operation panics.
type PanicError struct {
	// Value is the value passed to panic.
	Value any

	// Stack is the call stack at the point the panic was recovered,
	// including the panicking frames.
	Stack []Frame
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("safe: panic recovered: %v", e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Is reports ErrPanic as a match.
func (e *PanicError) Is(target error) bool {
	return target == ErrPanic
}

// Error is returned by TryOrPanic and TryOrPanicErr. Its message is the full
// diagnostic; the original failure stays reachable through Unwrap.
type Error struct {
	Diagnostic string
	Name       string
	Problem    string
	Site       CallSite
	Err        error
}

func (e *Error) Error() string {
	return e.Diagnostic
}

func (e *Error) Unwrap() error {
	return e.Err
}
