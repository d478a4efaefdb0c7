package domain

import "time"

// Token type discriminators embedded in signed claims
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// TokenClaims represents the verified contents of a signed token. Roles are
// embedded at issuance time, so a grant or revocation takes effect only once
// the user logs in again or refreshes.
type TokenClaims struct {
	UserID    int64    `json:"user_id"`
	Email     string   `json:"email"`
	Username  string   `json:"username"`
	Roles     []string `json:"roles"`
	TokenType string   `json:"type"`
	Exp       int64    `json:"exp"`
	Iat       int64    `json:"iat"`
}

// IsExpired checks if the token is expired
func (tc TokenClaims) IsExpired() bool {
	return time.Now().Unix() > tc.Exp
}

// HasRole reports whether the embedded role list contains name
func (tc TokenClaims) HasRole(name string) bool {
	for _, r := range tc.Roles {
		if r == name {
			return true
		}
	}
	return false
}

// PasswordResetToken is a single-use opaque credential for resetting a
// password. Once UsedAt is set the token is inert regardless of expiry.
type PasswordResetToken struct {
	ID        int64      `json:"id" db:"id"`
	UserID    int64      `json:"user_id" db:"user_id"`
	Token     string     `json:"-" db:"token"`
	ExpiresAt time.Time  `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UsedAt    *time.Time `json:"used_at" db:"used_at"`
}

// EmailVerificationToken is a single-use opaque credential confirming that
// the account owner controls the registered email address.
type EmailVerificationToken struct {
	ID         int64      `json:"id" db:"id"`
	UserID     int64      `json:"user_id" db:"user_id"`
	Token      string     `json:"-" db:"token"`
	ExpiresAt  time.Time  `json:"expires_at" db:"expires_at"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	VerifiedAt *time.Time `json:"verified_at" db:"verified_at"`
}
