package authapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	apperrors "github.com/jrsteele09/referral-portal/internal/errors"
)

// APIError is a non-2xx response from the API with its body reduced to one
// human readable message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api responded %d: %s", e.StatusCode, e.Message)
}

// Unwrap classifies the response so callers can use errors.Is with the shared sentinels.
func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode >= http.StatusInternalServerError:
		return apperrors.ErrUpstreamUnavailable
	case e.StatusCode == http.StatusUnauthorized, e.StatusCode == http.StatusForbidden:
		return apperrors.ErrForbidden
	case e.StatusCode == http.StatusNotFound:
		return apperrors.ErrNotFound
	default:
		return apperrors.ErrInvalidInput
	}
}

// Rejected is true for 4xx responses: the API understood the request and said no.
func (e *APIError) Rejected() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// preferred keys, checked in order before falling back to field error lists.
var messageKeys = []string{"detail", "message", "error", "non_field_errors"}

// ErrorMessage reduces an error body to a single message. It understands
// {"detail": "..."}, {"message": "..."}, {"error": "..."}, {"non_field_errors": [...]}
// and per-field lists such as {"email": ["Enter a valid email address."]}.
func ErrorMessage(statusCode int, body []byte) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err == nil && len(fields) > 0 {
		for _, key := range messageKeys {
			if msg := firstString(fields[key]); msg != "" {
				return msg
			}
		}

		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if msg := firstString(fields[k]); msg != "" {
				return k + ": " + msg
			}
		}
	}

	if text := strings.TrimSpace(string(body)); text != "" && !strings.HasPrefix(text, "<") && len(text) < 200 {
		return text
	}
	if t := http.StatusText(statusCode); t != "" {
		return t
	}
	return fmt.Sprintf("status %d", statusCode)
}

func firstString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		for _, item := range list {
			if msg := firstString(item); msg != "" {
				return msg
			}
		}
	}
	return ""
}
