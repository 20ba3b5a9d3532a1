package safe

import (
	"runtime"
	"strconv"
	"strings"
)

// maxStackDepth bounds a single runtime.Callers read; deeper stacks are read
// in further passes.
const maxStackDepth = 64

// TraceHeader is logged before the frame blocks by the stack-trace policy.
const TraceHeader = "===== STACK TRACE ====="

// traceIndent is added once per frame, moving outward from the failure.
const traceIndent = "   "

// Frame is one entry of a captured call stack.
type Frame struct {
	Function string
	File     string
	Line     int
}

// CaptureStack returns the call stack of its caller, innermost frame first.
// skip works as in Caller: CaptureStack(0) starts at the function calling it.
// The stack is not truncated.
func CaptureStack(skip int) []Frame {
	var pcs []uintptr
	offset := skip + 2 // runtime.Callers and CaptureStack
	for {
		buf := make([]uintptr, maxStackDepth)
		n := runtime.Callers(offset, buf)
		pcs = append(pcs, buf[:n]...)
		if n < maxStackDepth {
			break
		}
		offset += n
	}
	return framesOf(pcs)
}

// capturePanicStack is called from a deferred recover. Leading runtime frames
// (gopanic, sigpanic and friends) are dropped so the stack starts at the frame
// that panicked.
func capturePanicStack() []Frame {
	frames := CaptureStack(2)
	for len(frames) > 0 && strings.HasPrefix(frames[0].Function, "runtime.") {
		frames = frames[1:]
	}
	return frames
}

func framesOf(pcs []uintptr) []Frame {
	if len(pcs) == 0 {
		return nil
	}
	out := make([]Frame, 0, len(pcs))
	iter := runtime.CallersFrames(pcs)
	for {
		f, more := iter.Next()
		out = append(out, Frame{
			Function: shortFuncName(f.Function),
			File:     f.File,
			Line:     f.Line,
		})
		if !more {
			break
		}
	}
	return out
}

// TraceLines renders one block per frame. Each block lists the function,
// file and line, indented three spaces deeper than the previous block.
func TraceLines(frames []Frame) []string {
	lines := make([]string, 0, len(frames))
	indent := ""
	for _, f := range frames {
		var b strings.Builder
		b.WriteString(indent + "Function: " + f.Function + "\n")
		b.WriteString(indent + "File: " + f.File + "\n")
		b.WriteString(indent + "Line: " + strconv.Itoa(f.Line))
		lines = append(lines, b.String())
		indent += traceIndent
	}
	return lines
}
