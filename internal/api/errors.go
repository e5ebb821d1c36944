package api

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorKind string

const (
	KindMalformedRequest ErrorKind = "malformed_request"
	KindInternalFault    ErrorKind = "internal_fault"
)

var (
	ErrMalformedRequest = errors.New("malformed request")
	ErrInternalFault    = errors.New("internal fault")
)

// Error is a classified gateway failure. errors.Is matches it against the
// sentinel for its kind as well as the wrapped cause.
type Error struct {
	Kind ErrorKind
	Err  error
}

func malformed(format string, args ...any) *Error {
	return &Error{Kind: KindMalformedRequest, Err: fmt.Errorf(format, args...)}
}

func internalFault(err error) *Error {
	return &Error{Kind: KindInternalFault, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.sentinel().Error()
	}
	return e.sentinel().Error() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	return target == e.sentinel()
}

func (e *Error) sentinel() error {
	if e.Kind == KindMalformedRequest {
		return ErrMalformedRequest
	}
	return ErrInternalFault
}

// Status maps the error kind onto an HTTP status code.
func (e *Error) Status() int {
	if e.Kind == KindMalformedRequest {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// publicMessage hides internal causes from clients.
func (e *Error) publicMessage() string {
	if e.Kind == KindMalformedRequest {
		return e.Error()
	}
	return ErrInternalFault.Error()
}
