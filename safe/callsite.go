package safe

import (
	"fmt"
	"runtime"
	"strings"
)

// CallSite identifies where a guarded call was made.
type CallSite struct {
	Function string
	File     string
	Line     int
}

// String renders the call site the way diagnostics end.
func (c CallSite) String() string {
	return fmt.Sprintf("at %s in %s at line %d", c.Function, c.File, c.Line)
}

// IsZero reports whether c carries no location.
func (c CallSite) IsZero() bool {
	return c.Function == "" && c.File == "" && c.Line == 0
}

// Here returns the call site of its caller. It is meant for building a
// CallSite once and passing it with WithCallSite.
func Here() CallSite {
	return Caller(1)
}

// Caller returns the call site skip frames above its caller. Caller(0) is the
// function calling Caller.
func Caller(skip int) CallSite {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return CallSite{Function: "unknown", File: "unknown"}
	}
	name := "unknown"
	if fn := runtime.FuncForPC(pc); fn != nil {
		name = shortFuncName(fn.Name())
	}
	return CallSite{Function: name, File: file, Line: line}
}

// shortFuncName trims the import path, leaving pkg.Func or pkg.(*T).Method.
func shortFuncName(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name
}
