package encio

import (
	"errors"
	"fmt"
	"runtime"
)

// Error handling in posenc is designed to provide an easy way to distinguish io errors and bad data from schema and usage errors,
// and to reuse a small set of common error kinds for as many errors as possible, with extra information wrapped as applicable.
// Panics are only used when there is a clear misuse of the library; programmer error.
// To this end, all error cases are grouped into two error wrappers; IOError and Error, the idea being that
// IOError errors indicate a bad io.Reader/io.Writer or bad data, and are recoverable; the caller can drop the stream and carry on, and
// Error errors indicate the data and the type being decoded do not agree, or the type cannot be encoded at all.
//
// In this way, errors can be checked with
//
//	var encErr encio.Error
//	var ioErr encio.IOError
//	if errors.As(err, &encErr) {
//		//handle encoding error
//	} else if errors.As(err, &ioErr) {
//		//handle io error
//	}
//
// These errors will be wrapped by IOError or Error.
var (
	// ErrMalformed is returned when the read data is impossible to decode.
	ErrMalformed = errors.New("malformed")

	// ErrInvalidUTF8 is returned when a decoded string is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("invalid utf-8")

	// ErrBadDiscriminant is returned when a union's discriminant byte names no variant of the union.
	// The stream was not written for the type being decoded; the decode is aborted and must not be retried as-is.
	ErrBadDiscriminant = errors.New("invalid discriminant")

	// ErrBadType is returned when a type, where possible to detect, is wrong, unresolvable or inappropriate.
	// Due to the usage of unsafe.Pointer, it is not usually possible to detect incorrect types.
	// If this error is seen, it should be taken seriously; encoding of incorrect types has undefined behaviour.
	ErrBadType = errors.New("bad type")

	// ErrNilPointer is returned if a pointer that should not be nil is nil.
	ErrNilPointer = errors.New("nil pointer")

	// ErrBadConfig is returned when the config cannot be used to encode the given encodable.
	// i.e. a union registered with no variants.
	ErrBadConfig = errors.New("bad config")
)

// NewIOError returns an IOError wrapping err with the given message.
// err is typically the error returned from the io.Reader/io.Writer, or another error describing why the data can't be decoded.
// message has extra information about the error; if empty, it is filled with the calling function's name.
// offset is the stream offset the error occurred at, or -1 if unknown.
func NewIOError(err error, message string, offset int64) error {
	if err == nil {
		return NewError(errors.New("unknown error"), "trying to create new IOError", 1)
	}
	if message == "" {
		message = "in " + GetCaller(1)
	}

	return IOError{
		Err:     err,
		Message: message,
		Offset:  offset,
	}
}

// IOError is returned when io errors occur, or when read data is malformed.
type IOError struct {
	Err     error
	Message string
	// Offset is the number of bytes consumed from the stream when the error occurred, or -1.
	Offset int64
}

// Error implements error
func (e IOError) Error() string {
	str := e.Err.Error()
	if e.Message != "" {
		str = e.Message + ": " + str
	}
	if e.Offset >= 0 {
		str += fmt.Sprintf(" (at offset %v)", e.Offset)
	}
	return str
}

// Unwrap implements errors's Unwrap()
func (e IOError) Unwrap() error {
	return e.Err
}

// NewError returns an Error wrapping err with message.
// The caller is filled with the name of the function skip frames above the caller of NewError.
func NewError(err error, message string, skip int) error {
	return Error{
		Err:     err,
		Message: message,
		Caller:  GetCaller(skip + 1),
	}
}

// Error is returned when an internal error is encountered while encoding.
type Error struct {
	Err     error
	Message string
	Caller  string
}

// Error implements error
func (e Error) Error() (str string) {
	if e.Caller != "" {
		str = e.Caller + ": "
	}

	str += e.Err.Error()

	if e.Message != "" {
		str += " (" + e.Message + ")"
	}

	return str
}

// Unwrap implements errors's Unwrap()
func (e Error) Unwrap() error {
	return e.Err
}

// IsFatal reports whether err means the stream does not match the type being decoded.
// Such a decode must not be retried against the same data.
func IsFatal(err error) bool {
	return errors.Is(err, ErrBadDiscriminant)
}

// IsRecoverable reports whether err is an IOError; a failure of the stream or of its contents
// that says nothing about the type being decoded.
func IsRecoverable(err error) bool {
	var ioErr IOError
	return errors.As(err, &ioErr)
}

// GetCaller returns the name of the calling function, skipping skip functions.
// i.e. 0 writes the calling function, 1 the function calling that etc...
func GetCaller(skip int) string {
	pcs := make([]uintptr, 1)
	n := runtime.Callers(2+skip, pcs)
	if n != 1 {
		return "Unknown Function"
	}

	frames := runtime.CallersFrames(pcs)
	frame, _ := frames.Next()
	return frame.Function
}
