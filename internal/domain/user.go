package domain

import "time"

// User represents a marketplace account
type User struct {
	ID                int64          `json:"id" db:"id"`
	Email             string         `json:"email" db:"email"`
	Username          string         `json:"username" db:"username"`
	PasswordHash      string         `json:"-" db:"password_hash"`
	FirstName         string         `json:"first_name" db:"first_name"`
	LastName          string         `json:"last_name" db:"last_name"`
	Phone             *string        `json:"phone" db:"phone"`
	DateOfBirth       *time.Time     `json:"date_of_birth" db:"date_of_birth"`
	IsActive          bool           `json:"is_active" db:"is_active"`
	IsVerified        bool           `json:"is_verified" db:"is_verified"`
	IsAdmin           bool           `json:"is_admin" db:"is_admin"`
	ProfilePictureURL *string        `json:"profile_picture_url" db:"profile_picture_url"`
	Preferences       map[string]any `json:"preferences" db:"preferences"`
	LastLoginAt       *time.Time     `json:"last_login_at" db:"last_login_at"`
	CreatedAt         time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at" db:"updated_at"`
}

// UserFilter narrows user listing queries
type UserFilter struct {
	IsVerified *bool
	IsAdmin    *bool
	Search     string
}
