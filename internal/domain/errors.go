package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound              = errors.New("user not found")
	ErrProfileNotFound           = errors.New("profile not found")
	ErrListingNotFound           = errors.New("listing not found")
	ErrConversationNotFound      = errors.New("conversation not found")
	ErrConversationAlreadyExists = errors.New("conversation already exists")
	ErrOnboardingRequired        = errors.New("profile onboarding required")
	ErrInvalidToken              = errors.New("invalid token")
	ErrSessionNotFound           = errors.New("session not found")
	ErrSessionExpired            = errors.New("session expired")
	ErrMagicLinkInvalid          = errors.New("magic link is invalid or expired")
)

// ValidationError reports user input that has the wrong shape or length.
// Message is meant to be shown to the user as is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError returns a ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// RetrievalError reports a failed read from the data store.
type RetrievalError struct {
	Message string
	Err     error
}

func (e *RetrievalError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}

// PermissionError reports an action the caller is not allowed to perform.
// Unauthenticated is set when signing in would fix it.
type PermissionError struct {
	Message         string
	Unauthenticated bool
}

func (e *PermissionError) Error() string {
	return e.Message
}

// ErrUnauthenticated builds the PermissionError returned when no identity is present.
func ErrUnauthenticated(action string) *PermissionError {
	return &PermissionError{
		Message:         fmt.Sprintf("sign in to %s", action),
		Unauthenticated: true,
	}
}

func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsPermissionError(err error) bool {
	var target *PermissionError
	return errors.As(err, &target)
}

func IsRetrievalError(err error) bool {
	var target *RetrievalError
	return errors.As(err, &target)
}
