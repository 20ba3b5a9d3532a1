package jsonsafe

import (
	"errors"
	"strconv"
)

// Failure kinds. Every error returned by this package matches exactly one of
// them with errors.Is.
var (
	// ErrInvalidArgument indicates bad caller input, such as a blank path.
	ErrInvalidArgument = errors.New("jsonsafe: invalid argument")

	// ErrPermissionDenied indicates Save refused to overwrite an existing file.
	ErrPermissionDenied = errors.New("jsonsafe: permission denied")

	// ErrNotFound indicates Load found no file at the path.
	ErrNotFound = errors.New("jsonsafe: not found")

	// ErrData indicates the file content is empty or blank.
	ErrData = errors.New("jsonsafe: data error")

	// ErrSerialization indicates the value could not be encoded.
	ErrSerialization = errors.New("jsonsafe: serialization failed")

	// ErrDeserialization indicates the content could not be decoded or
	// decoded to nothing.
	ErrDeserialization = errors.New("jsonsafe: deserialization failed")

	// ErrInternal covers everything else: directory creation, I/O, and
	// unexpected empty results.
	ErrInternal = errors.New("jsonsafe: internal error")
)

// Error describes a failed Save or Load.
type Error struct {
	Op   string // "save" or "load"
	Path string
	Kind error  // one of the sentinel errors
	Msg  string // what went wrong
	Err  error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	s := "jsonsafe: " + e.Op + " " + strconv.Quote(e.Path) + ": " + e.Msg
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// Unwrap exposes both the failure kind and the underlying cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(op, path string, kind error, msg string, cause error) *Error {
	return &Error{Op: op, Path: path, Kind: kind, Msg: msg, Err: cause}
}
