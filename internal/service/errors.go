package service

import "errors"

var (
	ErrUnauthorized         = errors.New("unauthorized")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrEmailTaken           = errors.New("user with this email already exists")
	ErrGoalNotFound         = errors.New("goal not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrUserNotFound         = errors.New("user not found")
)

// ValidationError is a client input problem; Message is shown to the caller as is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(message string) error {
	return &ValidationError{Message: message}
}

// ErrNoFieldsToUpdate is returned by partial updates that carry no known field.
var ErrNoFieldsToUpdate = invalid("No fields to update")
