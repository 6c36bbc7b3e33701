// Package errors holds the sentinel errors shared between the portal's packages.
// Callers match them with the standard errors.Is.
package errors

import (
	"errors"
	"fmt"
)

// Login and session
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnknownRole        = errors.New("unknown role")
	ErrSessionInProgress  = errors.New("session change in progress")
)

// Credential storage
var (
	ErrCredentialStoreIO  = errors.New("credential store failure")
	ErrInvalidStoreConfig = errors.New("invalid credential store configuration")
)

// Upstream Authentication API
var (
	ErrUpstreamUnavailable = errors.New("upstream API unavailable")
	ErrUpstreamResponse    = errors.New("invalid upstream response")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
)

// Wrapf prefixes err with a formatted message, keeping it matchable with errors.Is.
// A nil err stays nil.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
