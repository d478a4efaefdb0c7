package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

const (
	usernameMinLength = 3
	usernameMaxLength = 20
)

// ValidateEmail validates an email address
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidateUsername checks the username format and returns every violated
// rule. An empty slice means the username is acceptable.
func ValidateUsername(username string) []string {
	var errors []string

	if len(username) < usernameMinLength {
		errors = append(errors, fmt.Sprintf("Username must be at least %d characters long", usernameMinLength))
	}

	if len(username) > usernameMaxLength {
		errors = append(errors, fmt.Sprintf("Username must be no more than %d characters long", usernameMaxLength))
	}

	if !usernameRegex.MatchString(username) {
		errors = append(errors, "Username can only contain letters, numbers, and underscores")
	}

	if strings.HasPrefix(username, "_") || strings.HasSuffix(username, "_") {
		errors = append(errors, "Username cannot start or end with underscore")
	}

	return errors
}

// SanitizeEmail sanitizes an email address
func SanitizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
