// Package common defines shared sentinel errors used across the TaskHub
// core. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Store-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Request validation errors.
	ErrInvalidArgument = errors.New("invalid argument")

	// Persistence errors (corrupt or unparseable snapshot).
	ErrDecodeFailure = errors.New("snapshot decode failure")

	// Auth errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrUnauthorized = errors.New("unauthorized")

	// Generic internal failure.
	ErrInternal = errors.New("internal error")
)
