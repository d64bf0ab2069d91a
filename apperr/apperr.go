package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain failure.
type Code string

const (
	CodeUnknown             Code = "UNKNOWN"
	CodeBadRequest          Code = "BAD_REQUEST"
	CodeNotFound            Code = "NOT_FOUND"
	CodeConflict            Code = "CONFLICT"
	CodeUnauthorized        Code = "UNAUTHORIZED"
	CodeUnprocessableEntity Code = "UNPROCESSABLE_ENTITY"
	CodeInternal            Code = "INTERNAL"
)

// Error is a domain error carrying a classification code, a user-facing
// message, and an optional wrapped cause.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches errors by code so sentinel comparisons survive wrapping.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code && e.Message == other.Message
}

// HTTPStatus maps the error code to an HTTP status.
func (e *Error) HTTPStatus() int {
	switch e.Code {
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeUnprocessableEntity:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Constructors

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

func BadRequest(msg string) *Error {
	return New(CodeBadRequest, msg)
}

func NotFound(msg string) *Error {
	return New(CodeNotFound, msg)
}

func Conflict(msg string) *Error {
	return New(CodeConflict, msg)
}

func Unauthorized(msg string) *Error {
	return New(CodeUnauthorized, msg)
}

func Unprocessable(msg string) *Error {
	return New(CodeUnprocessableEntity, msg)
}

func Internal(msg string) *Error {
	return New(CodeInternal, msg)
}

// FromError returns the *Error inside err, or nil if there is none.
func FromError(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}
