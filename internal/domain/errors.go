package domain

import (
	"errors"  // Sentinel errors
	"strings" // Message joining
)

var (
	ErrDuplicateEmail      = errors.New("Email already in use")
	ErrInvalidCredentials  = errors.New("Invalid credentials")
	ErrInsufficientBalance = errors.New("Insufficient balance")
	ErrInvalidAmount       = errors.New("Amount must be a positive integer")
	ErrInvalidToken        = errors.New("Invalid or expired token")
	ErrUnauthorized        = errors.New("Unauthorized")
	ErrWalletNotFound      = errors.New("Wallet not found")
	ErrPublishFailed       = errors.New("failed to publish event")
	ErrStorageUnavailable  = errors.New("storage unavailable")
	ErrMissingSecret       = errors.New("signing secret is not configured")
)

// ValidationError reports malformed input rejected at the boundary
type ValidationError struct {
	Fields []string // One message per offending field
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "Invalid request"
	}
	return "Invalid request: " + strings.Join(e.Fields, "; ")
}

// NewValidationError builds a ValidationError from field messages
func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}
