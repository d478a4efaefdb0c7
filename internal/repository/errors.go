package repository

import "errors"

// Common repository errors
var (
	// ErrNotFound is returned when a record is not found
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned when trying to create a user with an existing email
	ErrDuplicateEmail = errors.New("user with this email already exists")

	// ErrDuplicateUsername is returned when trying to create a user with an existing username
	ErrDuplicateUsername = errors.New("username already taken")

	// ErrDuplicateRole is returned when a user already actively holds the role.
	// The partial unique index makes concurrent double-grants surface here too.
	ErrDuplicateRole = errors.New("user already has this role")

	// ErrDuplicateToken is returned when trying to create a token that already exists
	ErrDuplicateToken = errors.New("token already exists")
)
