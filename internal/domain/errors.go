// Package domain contains the core business entities for Castellan.
package domain

import "errors"

// Domain errors - these represent business rule violations.
// Expected failures are converted to a result plus a user-facing
// notification at the store boundary and never propagate further.

var (
	// ErrInvalidCredentials indicates a login with an unknown email or a
	// password that does not match the configured sentinel value.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrDuplicateEmail indicates a registration or creation attempt with
	// an email already present in the directory.
	ErrDuplicateEmail = errors.New("user with this email already exists")

	// ErrNotFound indicates the requested user does not exist.
	ErrNotFound = errors.New("user not found")

	// ErrValidation indicates input rejected before any store operation
	// was attempted (empty required field, malformed email, too-short
	// password, confirmation mismatch).
	ErrValidation = errors.New("validation failed")

	// ErrUnexpected is the catch-all for infrastructure failures such as
	// storage decode errors. Callers degrade it to the nearest safe
	// default instead of surfacing a crash.
	ErrUnexpected = errors.New("unexpected failure")
)
