package arr

import "errors"

// Sentinel errors for the arr package.
var (
	// ErrAuth is returned when the API key is rejected. Not retryable.
	ErrAuth = errors.New("authentication rejected")

	// ErrUnavailable is returned when the manager cannot be reached or
	// answers with a server error. Retryable.
	ErrUnavailable = errors.New("library manager unavailable")

	// ErrNotFound is returned for a missing resource.
	ErrNotFound = errors.New("not found")
)
