package cli

import (
	"errors"
	"fmt"

	"github.com/wesleyorama2/rtdb/http"
)

const (
	exitOK      = 0
	exitUsage   = 1
	exitNetwork = 2
	exitStatus  = 3
)

// StatusError reports a failure status answered by the database. The
// response has already been printed when it is returned.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("database answered %s", e.Status)
}

func isReported(err error) bool {
	var se *StatusError
	return errors.As(err, &se)
}

// ExitCode maps an error returned by a command to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var se *StatusError
	if errors.As(err, &se) {
		return exitStatus
	}
	if http.IsNetworkError(err) {
		return exitNetwork
	}
	return exitUsage
}
