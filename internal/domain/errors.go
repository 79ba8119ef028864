package domain

import "errors"

// Sentinel errors shared across services and repositories.
var (
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the caller is authenticated but not allowed to act on the resource (e.g. not the event owner).
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidInput is returned when the request is invalid (e.g. a program day outside the event's dates).
	ErrInvalidInput = errors.New("invalid input")
)
