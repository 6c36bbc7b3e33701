package auth

import (
	"errors"
	"strings"

	apperrors "github.com/jrsteele09/referral-portal/internal/errors"
)

// Flow errors. They alias the shared catalogue so errors.Is works across packages.
var (
	ErrInvalidInput           = apperrors.ErrInvalidInput
	ErrAuthenticationRejected = apperrors.ErrInvalidCredentials
	ErrAPIUnavailable         = apperrors.ErrUpstreamUnavailable
	ErrUnknownRole            = apperrors.ErrUnknownRole
	ErrInvalidResponse        = apperrors.ErrUpstreamResponse
	ErrLoginInProgress        = apperrors.ErrSessionInProgress
	ErrSessionNotSaved        = apperrors.ErrCredentialStoreIO
)

// InputError is a credential that failed validation before any network call.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	return "invalid " + strings.ToLower(e.Field) + ": " + e.Message
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

// RejectedError is the API refusing the credentials. Message is the API's own
// human readable reason.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string {
	return "authentication rejected: " + e.Message
}

func (e *RejectedError) Unwrap() error { return ErrAuthenticationRejected }

const (
	msgUnavailable    = "Unable to reach the server. Please try again."
	msgUnknownRole    = "Your account does not have access to this portal."
	msgBadResponse    = "The server sent an unexpected response. Please try again."
	msgInProgress     = "A sign-in is already in progress. Please wait."
	msgNotSaved       = "Your session could not be saved. Please try again."
	msgGenericFailure = "An unexpected error occurred."
)

// UserMessage turns a flow error into the one message shown on the login page.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var inputErr *InputError
	if errors.As(err, &inputErr) {
		return inputErr.Message
	}
	var rejected *RejectedError
	if errors.As(err, &rejected) {
		if rejected.Message != "" {
			return rejected.Message
		}
		return "Invalid credentials"
	}

	switch {
	case errors.Is(err, ErrLoginInProgress):
		return msgInProgress
	case errors.Is(err, ErrUnknownRole):
		return msgUnknownRole
	case errors.Is(err, ErrInvalidResponse):
		return msgBadResponse
	case errors.Is(err, ErrSessionNotSaved):
		return msgNotSaved
	case errors.Is(err, ErrAPIUnavailable):
		return msgUnavailable
	default:
		return msgGenericFailure
	}
}
