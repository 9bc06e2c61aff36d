package taskapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Is maps the status code onto the package sentinels.
func (e *APIError) Is(target error) bool {
	switch e.StatusCode {
	case http.StatusNotFound:
		return target == ErrNotFound
	case http.StatusForbidden:
		return target == ErrForbidden
	case http.StatusUnauthorized:
		return target == ErrUnauthorized
	}
	return false
}

// ValidationError reports request input rejected before it was sent.
type ValidationError struct {
	Errs validator.ValidationErrors
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errs))
	for _, fe := range e.Errs {
		parts = append(parts, describeFieldError(fe))
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return e.Errs }

func describeFieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "eqfield":
		return fmt.Sprintf("%s must match %s", field, fe.Param())
	case "email":
		return field + " must be a valid e-mail address"
	case "hexcolor":
		return field + " must be a hex color such as #3498db"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// newAPIError builds an APIError from a response body. The message comes from
// the first of error, detail or message, then from the first field error of a
// field map, then from the raw body.
func newAPIError(status int, body []byte) *APIError {
	return &APIError{StatusCode: status, Message: errorMessage(status, body)}
}

func errorMessage(status int, body []byte) string {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(body, &doc); err == nil {
		for _, key := range []string{"error", "detail", "message"} {
			if msg := firstString(doc[key]); msg != "" {
				return msg
			}
		}

		fields := make([]string, 0, len(doc))
		for k := range doc {
			fields = append(fields, k)
		}
		slices.Sort(fields)
		// non_field_errors reads better without its key
		if i := slices.Index(fields, "non_field_errors"); i > 0 {
			fields = append([]string{"non_field_errors"}, slices.Delete(fields, i, i+1)...)
		}
		for _, field := range fields {
			if msg := firstString(doc[field]); msg != "" {
				if field == "non_field_errors" {
					return msg
				}
				return field + ": " + msg
			}
		}
	}

	if msg := strings.TrimSpace(string(body)); msg != "" {
		return msg
	}
	return http.StatusText(status)
}

// firstString returns raw if it is a JSON string, or its first element if it is
// a list of strings.
func firstString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return list[0]
	}
	return ""
}
