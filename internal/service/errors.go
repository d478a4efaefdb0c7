package service

import (
	"errors"
	"fmt"
)

// Sentinel errors the handlers map onto the HTTP status taxonomy.
// Credential failures are deliberately indistinguishable: callers never learn
// whether the email was unknown, the password wrong, or the account inactive.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrWrongTokenType     = errors.New("invalid token type")
	ErrWrongPassword      = errors.New("current password is incorrect")

	ErrUserNotFound    = errors.New("user not found")
	ErrSessionNotFound = errors.New("session not found")
	ErrRoleNotFound    = errors.New("role not found for this user")

	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrRoleAlreadyGranted = errors.New("user already has this role")
	ErrRoleAlreadyRevoked = errors.New("role grant is already inactive")
	ErrAlreadyVerified    = errors.New("email is already verified")
	ErrAlreadyDeactivated = errors.New("user is already deactivated")

	ErrUnknownRole  = errors.New("unknown role name")
	ErrUserInactive = errors.New("user account is inactive")
	ErrSelfAction   = errors.New("operation not allowed on your own account")
)

// ValidationError carries the full list of violated input rules so clients
// see every problem at once.
type ValidationError struct {
	Message string
	Errors  []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Message, e.Errors)
}

// NewValidationError creates a validation error with the given rule violations
func NewValidationError(message string, errors []string) *ValidationError {
	return &ValidationError{Message: message, Errors: errors}
}
