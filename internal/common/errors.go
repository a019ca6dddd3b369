// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Consonance errors.
	ErrInvalidRatio = errors.New("invalid ratio")
	ErrInvalidRange = errors.New("invalid enumeration range")

	// Zero table errors.
	ErrMalformedZeroFile = errors.New("malformed zero file")
	ErrEmptyZeroSet      = errors.New("empty zero set")
	ErrNotFound          = errors.New("not found")

	// Resonance errors.
	ErrInvalidTarget = errors.New("invalid resonance target")
	ErrNoResonance   = errors.New("no resonant zeros")

	// Configuration errors.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsInputError reports whether err was caused by bad user input rather than
// an internal failure.
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidRatio) ||
		errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrMalformedZeroFile) ||
		errors.Is(err, ErrEmptyZeroSet) ||
		errors.Is(err, ErrInvalidTarget) ||
		errors.Is(err, ErrInvalidConfig)
}
