// Package apperrors defines the closed set of domain errors returned by the
// services.  Store and library errors are translated into one of these kinds
// at the service boundary so handlers can build a response without knowing
// which driver or token library produced the failure.
package apperrors

import (
	"errors"
	"net/http"
)

// Kind identifies a domain error category.  Kinds are comparable and can be
// used directly as errors.Is targets.
type Kind string

const (
	KindNotFound             Kind = "NotFoundError"
	KindInvalidParameter     Kind = "InvalidParameterError"
	KindUnprocessableRequest Kind = "UnprocessableRequestError"
	KindUnauthorized         Kind = "UnauthorizedError"
	KindForbidden            Kind = "ForbiddenError"
)

func (k Kind) Error() string { return string(k) }

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidParameter:
		return http.StatusBadRequest
	case KindUnprocessableRequest:
		return http.StatusUnprocessableEntity
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

func (k Kind) title() string {
	switch k {
	case KindNotFound:
		return "Not Found"
	case KindInvalidParameter:
		return "Invalid Parameter"
	case KindUnprocessableRequest:
		return "Unprocessable Request"
	case KindUnauthorized:
		return "Unauthorized"
	case KindForbidden:
		return "Forbidden"
	}
	return "Internal Error"
}

// Error is a domain error.  Message is safe to show to clients; Source names
// the offending input field when there is one.
type Error struct {
	Kind    Kind
	Title   string
	Message string
	Source  string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Title
	}
	return e.Title + ": " + e.Message
}

// Is reports a match against the error's Kind, so callers can write
// errors.Is(err, apperrors.KindNotFound).
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// Status returns the HTTP status code for the error.
func (e *Error) Status() int { return e.Kind.Status() }

func newError(kind Kind, message, source string) *Error {
	return &Error{Kind: kind, Title: kind.title(), Message: message, Source: source}
}

// NotFound reports that the requested record does not exist.
func NotFound(message string) *Error {
	return newError(KindNotFound, message, "")
}

// InvalidParameter reports a caller input error.  source is the name of the
// offending field and may be empty.
func InvalidParameter(message, source string) *Error {
	return newError(KindInvalidParameter, message, source)
}

// UnprocessableRequest reports a well-formed request that cannot be honoured,
// such as an invalid or expired token.
func UnprocessableRequest(message string) *Error {
	return newError(KindUnprocessableRequest, message, "")
}

func Unauthorized(message string) *Error {
	return newError(KindUnauthorized, message, "")
}

func Forbidden(message string) *Error {
	return newError(KindForbidden, message, "")
}

// As extracts the domain error from err, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
