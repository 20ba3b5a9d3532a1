// Package jsonsafe saves values to files and loads them back with guarded
// failure reporting.
//
// Save refuses to replace an existing file unless asked to, creates missing
// parent directories, and writes an indented encoding of the value. Load
// reads a file and decodes it into a fresh value of the requested type.
// Every failure is a *Error whose Kind is one of the sentinel errors below, so
// callers can branch with errors.Is:
//
//	err := jsonsafe.Save("out/data.json", data, false)
//	if errors.Is(err, jsonsafe.ErrPermissionDenied) {
//	    // file already there
//	}
//
//	cfg, err := jsonsafe.Load[Config]("out/data.json")
//
// Failures always propagate. To degrade gracefully, wrap the call with one of
// the safe.Try functions.
//
// The existence check in Save and the write that follows are not atomic; two
// writers racing on one path end with last-writer-wins. Config.AtomicWrite
// only guarantees that readers never observe a partially written file.
package jsonsafe
