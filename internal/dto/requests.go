package dto

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Email             string         `json:"email" binding:"required"`
	Username          string         `json:"username" binding:"required"`
	Password          string         `json:"password" binding:"required"`
	FirstName         string         `json:"first_name" binding:"required"`
	LastName          string         `json:"last_name" binding:"required"`
	Phone             string         `json:"phone"`
	DateOfBirth       string         `json:"date_of_birth"`
	ProfilePictureURL string         `json:"profile_picture_url"`
	Preferences       map[string]any `json:"preferences"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents a token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ForgotPasswordRequest represents a password reset request
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

// ResetPasswordRequest redeems a password reset token
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// VerifyEmailRequest redeems an email verification token
type VerifyEmailRequest struct {
	Token string `json:"token" binding:"required"`
}

// ChangePasswordRequest represents a password change request.
// CurrentPassword is required unless an admin changes another user's password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// UpdateUserRequest represents a profile update. Nil fields are left untouched.
type UpdateUserRequest struct {
	FirstName         *string         `json:"first_name"`
	LastName          *string         `json:"last_name"`
	Phone             *string         `json:"phone"`
	DateOfBirth       *string         `json:"date_of_birth"`
	ProfilePictureURL *string         `json:"profile_picture_url"`
	Preferences       *map[string]any `json:"preferences"`
}

// GrantRoleRequest represents a role grant request
type GrantRoleRequest struct {
	RoleName string `json:"role_name" binding:"required"`
}
