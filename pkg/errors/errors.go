package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is an API failure. Code and Message are written into the response
// envelope and Status becomes the HTTP status.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap records err as the cause of an API failure. The cause is logged but
// never sent to clients.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

var (
	ErrNotFound     = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden    = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrUnauthorized = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrValidation   = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal     = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
)

// Solver outcomes. No solution is a normal negative answer for the submitted
// data; a timeout means the solve budget ran out before any verdict.
var (
	ErrNoSolution    = New("NO_SOLUTION", http.StatusUnprocessableEntity, "no feasible timetable satisfies the constraints")
	ErrSolverTimeout = New("SOLVER_TIMEOUT", http.StatusServiceUnavailable, "solver stopped before reaching a verdict")
	ErrQueueFull     = New("QUEUE_FULL", http.StatusServiceUnavailable, "solver queue is full")
)

// ErrCacheMiss reports that a cache key holds no value.
var ErrCacheMiss = errors.New("cache miss")

// FromError returns the *Error in err's chain, or an internal error wrapping
// err when there is none.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone copies a predefined error with a request-specific message.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
