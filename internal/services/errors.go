package services

import (
	"errors"

	"storefront/internal/catalog"
)

var (
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicateUser is returned when registering an identifier that already exists.
	ErrDuplicateUser = errors.New("user already exists")

	// ErrUserNotFound is returned by a strict login for an unknown identifier.
	ErrUserNotFound = errors.New("no account for this identifier")

	// ErrAuthentication is returned when a password does not match the stored digest.
	ErrAuthentication = errors.New("authentication failed")

	// ErrNoSession is returned by operations that need a signed-in user.
	ErrNoSession = errors.New("no active session")

	// ErrNotFound is returned when a catalog entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrRemoteUnavailable is returned by reads that have no local fallback.
	ErrRemoteUnavailable = catalog.ErrUnavailable

	// ErrTransitionNotAllowed is returned when the status policy rejects a change.
	ErrTransitionNotAllowed = errors.New("order status transition not allowed")
)

// ValidationError describes malformed input. Message is meant for display.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Is makes errors.Is(err, ErrValidation) true.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
