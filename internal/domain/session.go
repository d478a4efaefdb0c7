package domain

import "time"

// Session is the server-side record of one login. The opaque session and
// refresh tokens are random handles independent of the signed JWTs: the JWT
// proves identity to the API, the session row is the revocation anchor.
type Session struct {
	ID             int64     `json:"id" db:"id"`
	UserID         int64     `json:"user_id" db:"user_id"`
	SessionToken   string    `json:"-" db:"session_token"`
	RefreshToken   string    `json:"-" db:"refresh_token"`
	DeviceInfo     *string   `json:"device_info" db:"device_info"`
	IPAddress      *string   `json:"ip_address" db:"ip_address"`
	UserAgent      *string   `json:"user_agent" db:"user_agent"`
	ExpiresAt      time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	LastAccessedAt time.Time `json:"last_accessed_at" db:"last_accessed_at"`
}
