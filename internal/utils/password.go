package utils

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt silently ignores everything past 72 bytes, so longer inputs are
// truncated up front. This caps the effective entropy of very long passwords.
const maxPasswordBytes = 72

// punctuation set accepted by the strength policy
const passwordSpecialChars = "!@#$%^&*()_+-=[]{}|;:,.<>?"

// HashPassword hashes a password using bcrypt with the given cost.
// Input longer than 72 bytes (UTF-8) is truncated before hashing.
func HashPassword(password string, cost int) (string, error) {
	if len(password) > maxPasswordBytes {
		password = password[:maxPasswordBytes]
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// CheckPasswordHash compares a password with a hash using bcrypt's own
// constant-time comparison. The same 72-byte truncation applies so that any
// password accepted by HashPassword verifies against its hash.
func CheckPasswordHash(password, hash string) bool {
	if len(password) > maxPasswordBytes {
		password = password[:maxPasswordBytes]
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// ValidatePasswordStrength checks the password policy and returns every
// violated rule, not just the first one. An empty slice means the password
// is acceptable.
func ValidatePasswordStrength(password string, minLength int) []string {
	var errors []string

	if len(password) < minLength {
		errors = append(errors, fmt.Sprintf("Password must be at least %d characters long", minLength))
	}

	hasUpper := false
	hasLower := false
	hasDigit := false
	hasSpecial := false

	for _, char := range password {
		switch {
		case 'A' <= char && char <= 'Z':
			hasUpper = true
		case 'a' <= char && char <= 'z':
			hasLower = true
		case '0' <= char && char <= '9':
			hasDigit = true
		case strings.ContainsRune(passwordSpecialChars, char):
			hasSpecial = true
		}
	}

	if !hasUpper {
		errors = append(errors, "Password must contain at least one uppercase letter")
	}
	if !hasLower {
		errors = append(errors, "Password must contain at least one lowercase letter")
	}
	if !hasDigit {
		errors = append(errors, "Password must contain at least one number")
	}
	if !hasSpecial {
		errors = append(errors, "Password must contain at least one special character")
	}

	return errors
}
