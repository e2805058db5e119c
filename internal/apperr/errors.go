// Package apperr defines the structured error kinds shared by middleware
// and handlers. The kind decides the HTTP response; the wrapped cause is
// kept for logging only and never reaches the client.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an application error.
type Kind uint8

const (
	KindInternal Kind = iota
	KindUnauthorized
	KindForbidden
	KindInvalid
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindInvalid:
		return "invalid"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Error carries a kind, a client-safe message and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Uniform client-facing messages.
const (
	MsgUnauthorized = "unauthorized access"
	MsgForbidden    = "forbidden access"
	MsgInternal     = "internal server error"
	MsgNotFound     = "not found"
)

// Unauthorized reports a missing or invalid credential, or a role mismatch.
func Unauthorized(cause error) *Error {
	return &Error{Kind: KindUnauthorized, Message: MsgUnauthorized, Err: cause}
}

// Forbidden reports an authenticated identity acting on someone else's resource.
func Forbidden(cause error) *Error {
	return &Error{Kind: KindForbidden, Message: MsgForbidden, Err: cause}
}

// Invalid reports a malformed request; msg is shown to the client.
func Invalid(msg string, cause error) *Error {
	return &Error{Kind: KindInvalid, Message: msg, Err: cause}
}

// NotFound reports a missing resource.
func NotFound(cause error) *Error {
	return &Error{Kind: KindNotFound, Message: MsgNotFound, Err: cause}
}

// Internal wraps an unexpected failure such as a store outage.
func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Message: MsgInternal, Err: cause}
}

// KindOf returns the kind of the first *Error in err's chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}
