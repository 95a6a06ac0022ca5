package http

import (
	"errors"
	"fmt"
)

// NetworkError is returned when the transport could not complete an exchange:
// DNS failure, refused connection, timeout, TLS failure or a broken body read.
// A response with a non-2xx status is never reported as a NetworkError.
type NetworkError struct {
	Method Method
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: network error: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsNetworkError reports whether err is, or wraps, a *NetworkError.
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// ErrorDetail is the error payload the service sends with a failure status.
type ErrorDetail struct {
	StatusCode int
	Message    string
}

func (d ErrorDetail) Error() string {
	if d.Message == "" {
		return fmt.Sprintf("status %d", d.StatusCode)
	}
	return fmt.Sprintf("status %d: %s", d.StatusCode, d.Message)
}
