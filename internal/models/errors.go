package models

import "errors"

// Sentinel errors shared between the store and service layers.
var (
	// ErrUserExists signals a login/email uniqueness violation on insert.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound signals a lookup that matched no user row.
	ErrUserNotFound = errors.New("user not found")
	// ErrSessionNotFound signals an unknown or expired session ID.
	ErrSessionNotFound = errors.New("session not found or expired")
)
