// Package apperr defines the error kinds that services return and handlers
// translate into HTTP status codes.  Only the transport boundary looks at
// Kind; everything below it just wraps and returns.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure.
type Kind string

const (
	NotFound     Kind = "NOT_FOUND"
	Duplicate    Kind = "DUPLICATE"
	Unauthorized Kind = "UNAUTHORIZED"
	Forbidden    Kind = "FORBIDDEN"
	Conflict     Kind = "CONFLICT"
	Validation   Kind = "VALIDATION_ERROR"
	Unknown      Kind = "UNKNOWN"
)

// Error carries a kind, a client-safe message and an optional cause.  The
// cause is logged but never sent to the client.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches another *Error of the same kind, so errors.Is(err, apperr.E(NotFound, ""))
// style checks work regardless of message.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// E builds an error of the given kind.
func E(kind Kind, msg string) *Error { return &Error{Kind: kind, Message: msg} }

// Wrap attaches cause to a new error of the given kind.  A nil cause yields nil.
func Wrap(cause error, kind Kind, msg string) *Error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// KindOf reports the kind of err, or Unknown when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// Status maps a kind to the HTTP status used by the handlers.
func (k Kind) Status() int {
	switch k {
	case NotFound:
		return http.StatusNotFound
	case Duplicate, Conflict:
		return http.StatusConflict
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case Validation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message a client may see.  Unknown errors are
// always reported opaquely.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != Unknown {
		return e.Message
	}
	return "internal server error"
}
