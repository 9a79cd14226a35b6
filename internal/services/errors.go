package services

import (
	"fmt"
	"net/http"

	"github.com/formahq/forma/internal/shared"
)

// APIError is a non-2xx API response decoded once at the HTTP boundary.
// It wraps one of the shared sentinel errors so callers can branch with
// [errors.Is] while still seeing the server's detail message.
type APIError struct {
	StatusCode int
	Detail     string
	kind       error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%v: %s (status %d)", e.kind, e.Detail, e.StatusCode)
}

func (e *APIError) Unwrap() error { return e.kind }

// decodeAPIError maps a non-2xx response to an *APIError, probing the JSON
// body for a server-provided message.
func decodeAPIError(resp *APIResponse) error {
	kind := shared.ErrServer
	switch {
	case resp.StatusCode == http.StatusBadRequest,
		resp.StatusCode == http.StatusUnprocessableEntity:
		kind = shared.ErrValidation
	case resp.StatusCode == http.StatusUnauthorized,
		resp.StatusCode == http.StatusForbidden:
		kind = shared.ErrAuthFailed
	case resp.StatusCode == http.StatusNotFound:
		kind = shared.ErrNotFound
	case resp.StatusCode == http.StatusConflict:
		kind = shared.ErrConflict
	case resp.StatusCode == http.StatusServiceUnavailable:
		kind = shared.ErrServiceUnavailable
	}

	detail := http.StatusText(resp.StatusCode)
	if m, ok := resp.JSONData.(map[string]any); ok {
		for _, key := range []string{"detail", "error", "message"} {
			if v, ok := m[key].(string); ok && v != "" {
				detail = v
				break
			}
		}
	}

	return &APIError{StatusCode: resp.StatusCode, Detail: detail, kind: kind}
}
