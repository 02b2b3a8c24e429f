package shared

import "errors"

// Errors shared across feature modules.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates a failed sign-in attempt. Handlers
	// surface it with a deliberately vague message.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
