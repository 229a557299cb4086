// Package common defines shared sentinel errors and small helpers used across
// movielib layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Input rejected before reaching the store.
	ErrValidation = errors.New("validation error")

	// The database could not be opened or migrated.
	ErrStoreUnavailable = errors.New("store unavailable")

	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
)
