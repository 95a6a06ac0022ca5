package database

import (
	"errors"
	"fmt"

	"github.com/wesleyorama2/rtdb/http"
)

var (
	// ErrInvalidSegment is reported when a single segment contains a separator.
	ErrInvalidSegment = errors.New("segment must not contain '/', use Path instead")

	// ErrInvalidPayload is reported when a payload is not well-formed JSON
	// or is rejected by the configured PayloadValidator.
	ErrInvalidPayload = errors.New("invalid payload")

	// ErrInvalidURL is reported for a base URL that cannot address the service.
	ErrInvalidURL = errors.New("invalid base URL")
)

// InvalidArgumentError is returned before any network activity when an
// argument cannot be used. It is fully recoverable: fix the input and retry.
type InvalidArgumentError struct {
	Argument string
	Value    string
	Err      error
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Argument, e.Value, e.Err)
}

func (e *InvalidArgumentError) Unwrap() error {
	return e.Err
}

// IsInvalidArgument reports whether err is, or wraps, an *InvalidArgumentError.
func IsInvalidArgument(err error) bool {
	var ia *InvalidArgumentError
	return errors.As(err, &ia)
}

// IsNetworkError reports whether err is a transport failure.
func IsNetworkError(err error) bool {
	return http.IsNetworkError(err)
}
