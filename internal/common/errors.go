// Package common defines shared constants and sentinel errors used across
// the logdeck console layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Backend/transport errors.
	ErrUnavailable = errors.New("backend unavailable")

	// Auth errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Session lifecycle errors.
	ErrSessionChanged = errors.New("session changed")
)
