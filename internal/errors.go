package internal

import (
	"errors"
	"net/http"
)

// HTTPError carries everything an error handler needs to render a
// failure: the status, a user-safe message, an optional machine-readable
// code, and the wrapped cause.
type HTTPError struct {
	// Err is the cause, kept for logs and never shown to clients.
	Err error

	// Message is what the client sees.
	Message string

	// ErrorCode is an application-specific error code.
	ErrorCode string

	// Code is the HTTP status.
	Code int
}

func (e *HTTPError) Error() string {
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func (e *HTTPError) StatusCode() int {
	return e.Code
}

func (e *HTTPError) StatusText() string {
	return http.StatusText(e.Code)
}

// HTTPErrorOption attaches extras to an HTTPError.
type HTTPErrorOption func(*HTTPError)

// NewHTTPError builds an HTTPError carrying code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{
		Code:    code,
		Message: message,
	}
}

func WithErrorCode(code string) HTTPErrorOption {
	return func(e *HTTPError) {
		e.ErrorCode = code
	}
}

func WithError(err error) HTTPErrorOption {
	return func(e *HTTPError) {
		e.Err = err
	}
}

// Shorthand constructors for the usual statuses.

func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return applyErrorOptions(NewHTTPError(http.StatusBadRequest, message), opts)
}

func ErrUnauthorized(message string, opts ...HTTPErrorOption) *HTTPError {
	return applyErrorOptions(NewHTTPError(http.StatusUnauthorized, message), opts)
}

func ErrForbidden(message string, opts ...HTTPErrorOption) *HTTPError {
	return applyErrorOptions(NewHTTPError(http.StatusForbidden, message), opts)
}

func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return applyErrorOptions(NewHTTPError(http.StatusNotFound, message), opts)
}

func ErrConflict(message string, opts ...HTTPErrorOption) *HTTPError {
	return applyErrorOptions(NewHTTPError(http.StatusConflict, message), opts)
}

func ErrTooManyRequests(message string, opts ...HTTPErrorOption) *HTTPError {
	return applyErrorOptions(NewHTTPError(http.StatusTooManyRequests, message), opts)
}

func ErrInternal(message string, opts ...HTTPErrorOption) *HTTPError {
	return applyErrorOptions(NewHTTPError(http.StatusInternalServerError, message), opts)
}

func ErrServiceUnavailable(message string, opts ...HTTPErrorOption) *HTTPError {
	return applyErrorOptions(NewHTTPError(http.StatusServiceUnavailable, message), opts)
}

func applyErrorOptions(e *HTTPError, opts []HTTPErrorOption) *HTTPError {
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// IsHTTPError reports whether err is (or wraps) an *HTTPError.
func IsHTTPError(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr)
}

// AsHTTPError extracts the HTTPError from an error chain if present.
// Returns nil if the chain contains no *HTTPError.
func AsHTTPError(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return nil
}
