package store

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes store failures.
type ErrorKind string

const (
	// KindIO indicates the artifact could not be read, written or removed.
	KindIO ErrorKind = "IO"

	// KindMalformed indicates the artifact exists but cannot be decoded.
	KindMalformed ErrorKind = "MALFORMED"
)

// Error is returned by every store operation that fails.
type Error struct {
	Op   string // "load", "save", "exists" or "remove"
	Path string
	Kind ErrorKind
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %s: %v", e.Op, e.Path, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsIOError reports whether err is a store I/O failure.
func IsIOError(err error) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind == KindIO
	}
	return false
}

// IsMalformed reports whether err is a decoding failure.
func IsMalformed(err error) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind == KindMalformed
	}
	return false
}

func ioError(op, path string, err error) *Error {
	return &Error{Op: op, Path: path, Kind: KindIO, Err: err}
}
