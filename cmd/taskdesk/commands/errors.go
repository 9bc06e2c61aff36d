package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/florianilch/taskdesk/internal/authhttp"
	"github.com/florianilch/taskdesk/internal/taskapi"
)

// Exit codes
const (
	ExitFailure        = 1
	ExitSessionExpired = 2
)

// ExitCode maps an error returned by Execute to a process exit status.
func ExitCode(err error) int {
	if errors.Is(err, authhttp.ErrSessionExpired) {
		return ExitSessionExpired
	}
	return ExitFailure
}

// Report writes a user-facing description of err to w.
func Report(w io.Writer, err error) {
	var apiErr *taskapi.APIError
	switch {
	case errors.Is(err, authhttp.ErrSessionExpired):
		_, _ = fmt.Fprintln(w, "session expired, run `taskdesk login`")
	case errors.Is(err, taskapi.ErrUnauthorized):
		_, _ = fmt.Fprintln(w, "not logged in, run `taskdesk login`")
	case errors.As(err, &apiErr):
		_, _ = fmt.Fprintf(w, "Error: %s (status %d)\n", apiErr.Message, apiErr.StatusCode)
	default:
		_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	}
}
