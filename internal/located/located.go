// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package located

import (
	"errors"
	"fmt"
	"runtime"
)

// Ensure Error implements the error interface.
var _ error = &Error{}

const unknownFile = "unknown"

// Error carries the file and line where an underlying error has been wrapped.
type Error struct {
	File string
	Line int
	Err  error
}

// Wrap returns err decorated with the location of the Wrap call. It returns nil if err is nil.
func Wrap(err error) error {
	if err == nil {
		return nil
	}

	return wrap(err, 2)
}

// Errorf formats a new error like fmt.Errorf and decorates it with the location of the Errorf call.
func Errorf(format string, args ...any) error {
	return wrap(fmt.Errorf(format, args...), 2)
}

func wrap(err error, skip int) *Error {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		file = unknownFile
	}

	return &Error{
		File: file,
		Line: line,
		Err:  err,
	}
}

func (e *Error) Error() string {
	message := "<nil>"
	if e.Err != nil {
		message = e.Err.Error()
	}

	return fmt.Sprintf("error occurred in source file [%s] at line number [%d] error message [%s]", e.File, e.Line, message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// From returns the first *Error found in the err chain.
func From(err error) (*Error, bool) {
	var locatedErr *Error
	if errors.As(err, &locatedErr) {
		return locatedErr, true
	}

	return nil, false
}

// LogArgs returns the key/value pairs describing err location, ready to be passed to a logger.
// It returns nil when err carries no location.
func LogArgs(err error) []any {
	locatedErr, ok := From(err)
	if !ok {
		return nil
	}

	return []any{"file", locatedErr.File, "line", locatedErr.Line}
}
