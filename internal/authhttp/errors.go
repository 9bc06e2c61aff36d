package authhttp

import (
	"errors"
	"fmt"
)

// ErrSessionExpired is matched by errors returned when token renewal failed and
// the session was torn down. The user has to log in again.
var ErrSessionExpired = errors.New("session expired")

// SessionExpiredError reports a terminal authorization failure. Cause is the
// renewal failure that ended the session.
type SessionExpiredError struct {
	Cause error
}

func (e *SessionExpiredError) Error() string {
	if e.Cause == nil {
		return ErrSessionExpired.Error()
	}
	return fmt.Sprintf("%s: %v", ErrSessionExpired, e.Cause)
}

func (e *SessionExpiredError) Unwrap() error { return e.Cause }

// Is reports whether target is ErrSessionExpired.
func (e *SessionExpiredError) Is(target error) bool { return target == ErrSessionExpired }

// RenewalError is returned by RefreshEndpoint when the backend rejects the
// refresh token or answers without a new access token.
type RenewalError struct {
	StatusCode int
	Message    string
}

func (e *RenewalError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("token renewal failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("token renewal failed with status %d: %s", e.StatusCode, e.Message)
}
