// Package errors provides a structured error type with wrapping and metadata
package errors

// Always import the project errors package as perr (platform/errors)

import (
	stderrs "errors"
	"fmt"
)

// ErrorCode defines the kinds of failure a request, an input, or the
// startup configuration layer can produce. Values are stable within a
// process run; add sparingly
type ErrorCode uint16

const (
	// ErrorCodeUnknown is for unclassified errors
	ErrorCodeUnknown ErrorCode = iota

	// ErrorCodeIO is a filesystem read/write failure; non-retryable
	ErrorCodeIO

	// ErrorCodeUTF8 marks input bytes that are not valid UTF-8
	ErrorCodeUTF8

	// ErrorCodeNetworkRequest is a transport-level failure (DNS, connect,
	// TLS, body read); retryable per the website checker's backoff policy
	ErrorCodeNetworkRequest

	// ErrorCodeReadResponseBody is an unexpected termination of a response
	// stream; retryable
	ErrorCodeReadResponseBody

	// ErrorCodeBuildRequestClient is a failure constructing a host's HTTP
	// client (bad TLS config, bad redirect cap); fatal for that host
	ErrorCodeBuildRequestClient

	// ErrorCodeInvalidFilePath is a local file reference that cannot be
	// resolved
	ErrorCodeInvalidFilePath

	// ErrorCodeInvalidFragment is a fragment identifier with no matching
	// anchor or heading in the target document
	ErrorCodeInvalidFragment

	// ErrorCodeInvalidURL is a reference that does not parse as a URI
	ErrorCodeInvalidURL

	// ErrorCodeInvalidBase is a configured base URL that does not parse
	ErrorCodeInvalidBase

	// ErrorCodeInvalidURLRemap is a remap rule whose pattern or target is
	// malformed
	ErrorCodeInvalidURLRemap

	// ErrorCodeEmptyURL is an extracted reference with no URL content
	ErrorCodeEmptyURL

	// ErrorCodeRejectedStatusCode is an HTTP status outside the accepted
	// set with no retry remaining
	ErrorCodeRejectedStatusCode

	// ErrorCodeTooManyRedirects is a redirect trail that exceeded the
	// configured cap
	ErrorCodeTooManyRedirects

	// ErrorCodeUnreachableEmailAddress is an SMTP probe failure
	ErrorCodeUnreachableEmailAddress

	// ErrorCodeGitignoreError is a malformed gitignore-style exclude
	// pattern, reported at startup
	ErrorCodeGitignoreError

	// ErrorCodePreprocessorError is a failure in an input preprocessing
	// step (e.g. a glob expansion), reported at startup
	ErrorCodePreprocessorError

	// ErrorCodeCookies is a malformed cookie jar source, reported at
	// startup
	ErrorCodeCookies
)

// Retryable reports whether an error of this kind is worth retrying.
// This is the single choke point the website checker consults before
// entering the backoff loop
func (c ErrorCode) Retryable() bool {
	switch c {
	case ErrorCodeNetworkRequest, ErrorCodeReadResponseBody:
		return true
	default:
		return false
	}
}

// ErrNotFound is a sentinel not-found error for convenience (a 404-class
// rejected status with no further detail)
var ErrNotFound = New(ErrorCodeRejectedStatusCode, "not found")

// Error is the structured error type with wrapping and metadata
// msg is human/developer facing; code is machine facing
// field is optional (for validation); op is optional operation tag
// orig is the wrapped cause
type Error struct {
	orig  error
	msg   string
	code  ErrorCode
	field string
	op    string
}

// Error implements the error interface
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.orig != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.orig)
	}
	return e.msg
}

// Unwrap returns the wrapped error, if any
func (e *Error) Unwrap() error { return e.orig }

// Code returns the error code
func (e *Error) Code() ErrorCode { return e.code }

// Field returns the offending field, if any
func (e *Error) Field() string { return e.field }

// Op returns the operation label, if set
func (e *Error) Op() string { return e.op }

// Root returns the deepest wrapped cause
func Root(err error) error {
	for err != nil {
		u := stderrs.Unwrap(err)
		if u == nil {
			return err
		}
		err = u
	}
	return nil
}

// CodeOf extracts an ErrorCode from any error, defaulting to Unknown
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether err has the given code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// Retryable reports whether err's code is worth retrying
func Retryable(err error) bool { return CodeOf(err).Retryable() }

// As unwraps and returns (*Error, true) if err is one of ours
func As(err error) (*Error, bool) {
	var e *Error
	if stderrs.As(err, &e) {
		return e, true
	}
	return nil, false
}

// Mutators (copy-on-write)

// WithField attaches a field to an *Error (copy-on-write). If err isn't *Error, returns err unchanged
func WithField(err error, field string) error {
	if e, ok := As(err); ok {
		c := *e
		c.field = field
		return &c
	}
	return err
}

// WithOp attaches an operation label to an *Error (copy-on-write). If err isn't *Error, returns err unchanged
func WithOp(err error, op string) error {
	if e, ok := As(err); ok {
		c := *e
		c.op = op
		return &c
	}
	return err
}

// WithFieldChain sets field on *Error or wraps a foreign error into an *Error with Unknown code (copy-on-write)
func WithFieldChain(err error, field string) error {
	if e, ok := As(err); ok {
		c := *e
		c.field = field
		return &c
	}
	return &Error{code: ErrorCodeUnknown, msg: err.Error(), field: field, orig: err}
}

// Constructors

// New returns a new *Error with the given code and message
func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

// Newf returns a new *Error with code and formatted message
func Newf(code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...)}
}

// Wrap returns a new *Error that wraps orig with code and message
func Wrap(orig error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, orig: orig}
}

// Wrapf returns a new *Error that wraps orig with code and formatted message
func Wrapf(orig error, code ErrorCode, format string, a ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, a...), orig: orig}
}

// WrapIf wraps only when err != nil (helper for 1-liners)
func WrapIf(err error, code ErrorCode, msg string) error {
	if err == nil {
		return nil
	}
	return Wrap(err, code, msg)
}

// Sugar

// NetworkRequestf returns a retryable transport-level error
func NetworkRequestf(format string, a ...any) error {
	return Newf(ErrorCodeNetworkRequest, format, a...)
}

// RejectedStatusCodef returns a non-retryable rejected-status error
func RejectedStatusCodef(format string, a ...any) error {
	return Newf(ErrorCodeRejectedStatusCode, format, a...)
}

// InvalidURLf returns a malformed-reference error
func InvalidURLf(format string, a ...any) error { return Newf(ErrorCodeInvalidURL, format, a...) }

// InvalidFragmentf returns a missing-fragment error
func InvalidFragmentf(format string, a ...any) error {
	return Newf(ErrorCodeInvalidFragment, format, a...)
}

// TooManyRedirectsf returns a redirect-cap-exceeded error
func TooManyRedirectsf(format string, a ...any) error {
	return Newf(ErrorCodeTooManyRedirects, format, a...)
}

// IOErrf returns a filesystem error
func IOErrf(format string, a ...any) error { return Newf(ErrorCodeIO, format, a...) }

// Internalf returns a generic internal error
func Internalf(format string, a ...any) error { return Newf(ErrorCodeUnknown, format, a...) }
