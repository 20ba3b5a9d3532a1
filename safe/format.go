package safe

import (
	"errors"
	"fmt"
	"strings"
)

// Format builds the diagnostic for a failed call.
//
// The first line names the problem, prefixed with [name] when name is set.
// The second line holds the failure: only its short message when silent is
// true, otherwise its type, message and unwrap chain (plus the panic stack for
// a *PanicError). The last line is the call site.
func Format(err error, problem, name string, silent bool, site CallSite) string {
	var b strings.Builder
	writeHeadline(&b, problem, name)
	if silent {
		b.WriteString("Detail: " + shortMessage(err) + "\n")
	} else {
		b.WriteString("Detail: " + fullDetail(err) + "\n")
	}
	b.WriteString(site.String() + "\n")
	return b.String()
}

// FormatWithoutError builds a diagnostic that does not require a failure.
// When err is nil the detail line is left out.
func FormatWithoutError(problem, name string, err error, site CallSite) string {
	var b strings.Builder
	writeHeadline(&b, problem, name)
	if err != nil {
		b.WriteString("Detail: " + fullDetail(err) + "\n")
	}
	b.WriteString(site.String() + "\n")
	return b.String()
}

func writeHeadline(b *strings.Builder, problem, name string) {
	if name == "" {
		b.WriteString("Problem: " + problem + "\n")
		return
	}
	b.WriteString("[" + name + "] had a problem: " + problem + "\n")
}

func shortMessage(err error) string {
	if err == nil {
		return "<nil>"
	}
	msg := err.Error()
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	return msg
}

func fullDetail(err error) string {
	if err == nil {
		return "<nil>"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%T: %s", err, err.Error())
	writeCauses(&b, err)

	var pe *PanicError
	if errors.As(err, &pe) && len(pe.Stack) > 0 {
		b.WriteString("\npanic stack:")
		for _, f := range pe.Stack {
			fmt.Fprintf(&b, "\n  %s (%s:%d)", f.Function, f.File, f.Line)
		}
	}
	return b.String()
}

// writeCauses walks the unwrap tree depth-first, one line per cause.
func writeCauses(b *strings.Builder, err error) {
	var causes []error
	switch u := err.(type) {
	case interface{ Unwrap() error }:
		if c := u.Unwrap(); c != nil {
			causes = []error{c}
		}
	case interface{ Unwrap() []error }:
		causes = u.Unwrap()
	}
	for _, c := range causes {
		if c == nil {
			continue
		}
		fmt.Fprintf(b, "\ncaused by %T: %s", c, c.Error())
		writeCauses(b, c)
	}
}
