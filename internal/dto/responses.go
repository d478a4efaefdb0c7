package dto

// SuccessResponse is the fixed envelope for successful responses
type SuccessResponse struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message"`
}

// ErrorResponse is the fixed envelope for failed responses
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
	Details any    `json:"details,omitempty"`
}

// UserInfo represents the compact user block embedded in auth responses
type UserInfo struct {
	ID         int64    `json:"id"`
	Email      string   `json:"email"`
	Username   string   `json:"username"`
	FirstName  string   `json:"first_name"`
	LastName   string   `json:"last_name"`
	IsVerified bool     `json:"is_verified"`
	IsAdmin    bool     `json:"is_admin"`
	Roles      []string `json:"roles"`
}

// AuthResponse represents a successful login or refresh
type AuthResponse struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	TokenType    string   `json:"token_type"`
	ExpiresIn    int      `json:"expires_in"`
	User         UserInfo `json:"user"`
	SessionID    int64    `json:"session_id,omitempty"`
}

// RegisterResponse represents a successful registration.
// VerificationToken is only populated in debug mode; in production the token
// travels by email.
type RegisterResponse struct {
	UserID            int64  `json:"user_id"`
	Email             string `json:"email"`
	Username          string `json:"username"`
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	IsVerified        bool   `json:"is_verified"`
	VerificationToken string `json:"verification_token,omitempty"`
}

// UserResponse represents a full user profile
type UserResponse struct {
	ID                int64          `json:"id"`
	Email             string         `json:"email"`
	Username          string         `json:"username"`
	FirstName         string         `json:"first_name"`
	LastName          string         `json:"last_name"`
	Phone             *string        `json:"phone"`
	DateOfBirth       *string        `json:"date_of_birth"`
	IsActive          bool           `json:"is_active"`
	IsVerified        bool           `json:"is_verified"`
	IsAdmin           bool           `json:"is_admin"`
	ProfilePictureURL *string        `json:"profile_picture_url"`
	Preferences       map[string]any `json:"preferences"`
	LastLoginAt       *string        `json:"last_login_at"`
	CreatedAt         string         `json:"created_at"`
	UpdatedAt         string         `json:"updated_at"`
}

// UserListResponse represents a paginated user listing
type UserListResponse struct {
	Users  []*UserResponse `json:"users"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

// RoleResponse represents one role grant
type RoleResponse struct {
	ID             int64   `json:"id"`
	RoleName       string  `json:"role_name"`
	GrantedAt      string  `json:"granted_at"`
	GrantedByEmail *string `json:"granted_by_email"`
	ExpiresAt      *string `json:"expires_at"`
	IsActive       bool    `json:"is_active"`
}

// RoleListResponse represents a user's role grants
type RoleListResponse struct {
	UserID int64           `json:"user_id"`
	Roles  []*RoleResponse `json:"roles"`
	Total  int             `json:"total"`
}

// RoleCatalogResponse lists every role the system knows
type RoleCatalogResponse struct {
	Roles []RoleDefinitionResponse `json:"roles"`
	Total int                      `json:"total"`
}

// RoleDefinitionResponse describes one catalog entry
type RoleDefinitionResponse struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

// SessionResponse represents one active session
type SessionResponse struct {
	ID             int64   `json:"id"`
	DeviceInfo     *string `json:"device_info"`
	IPAddress      *string `json:"ip_address"`
	UserAgent      *string `json:"user_agent"`
	ExpiresAt      string  `json:"expires_at"`
	CreatedAt      string  `json:"created_at"`
	LastAccessedAt string  `json:"last_accessed_at"`
}

// SessionListResponse represents a user's active sessions
type SessionListResponse struct {
	UserID   int64              `json:"user_id"`
	Sessions []*SessionResponse `json:"sessions"`
	Total    int                `json:"total"`
}

// RevokeAllResponse reports how many sessions a bulk revoke removed
type RevokeAllResponse struct {
	UserID          int64 `json:"user_id"`
	SessionsRevoked int64 `json:"sessions_revoked"`
}

// ForgotPasswordResponse is deliberately identical whether or not the email
// matched an account. ResetToken is only populated in debug mode.
type ForgotPasswordResponse struct {
	Email      string `json:"email"`
	ExpiresIn  int    `json:"expires_in"`
	ResetToken string `json:"reset_token,omitempty"`
}
