package library

import "errors"

// Sentinel errors returned by Service and Connector.
var (
	// ErrInvalidInput is returned when a required field is missing.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicateUsername is returned when registering a username that is taken.
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrInvalidCredentials is returned for an unknown username or a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountNotFound is returned when a like references an account that does not exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrUnavailable is returned when the store cannot be reached.
	ErrUnavailable = errors.New("database unavailable")

	// ErrNotConfigured is returned alongside ErrUnavailable when no database is configured.
	ErrNotConfigured = errors.New("database not configured")
)
