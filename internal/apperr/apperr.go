package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation Code = "VALIDATION_ERROR"
	CodeNotFound   Code = "NOT_FOUND"
	CodeFormat     Code = "FORMAT_ERROR"
	CodeInternal   Code = "INTERNAL_ERROR"
)

// Error is the service-wide error type. Validation covers bad user input
// (non-positive weight or dimensions, out-of-range discount), NotFound
// covers lookup misses, Format covers structural CSV problems. Per-row
// CSV import problems are recovered locally and never become errors.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func Validation(format string, args ...interface{}) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFound(entity string, id interface{}) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf("%s not found: %v", entity, id)}
}

func Format(format string, args ...interface{}) *Error {
	return &Error{Code: CodeFormat, Message: fmt.Sprintf(format, args...)}
}

func Internal(err error, message string) *Error {
	return &Error{Code: CodeInternal, Message: message, Cause: err}
}

// StatusCode maps an error to its HTTP response status.
func StatusCode(err error) int {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeFormat:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// IsNotFound reports whether err is a NotFound error.
func IsNotFound(err error) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Code == CodeNotFound
}
