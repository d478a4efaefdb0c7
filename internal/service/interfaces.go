package service

import (
	"context"

	"github.com/gamarriando/user-service/internal/dto"
)

// AuthService defines methods for authentication operations
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest, clientIP, userAgent string) (*dto.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.AuthResponse, error)
	Logout(ctx context.Context, userID int64) (int64, error)
	ForgotPassword(ctx context.Context, email string) (*dto.ForgotPasswordResponse, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
	VerifyEmail(ctx context.Context, userID int64, token string) error
}

// UserService defines methods for user profile operations
type UserService interface {
	Get(ctx context.Context, userID int64) (*dto.UserResponse, error)
	List(ctx context.Context, params ListUsersParams) (*dto.UserListResponse, error)
	Update(ctx context.Context, userID int64, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	ChangePassword(ctx context.Context, userID int64, req *dto.ChangePasswordRequest, selfService bool) error
	Deactivate(ctx context.Context, userID, requestedBy int64) error
}

// RoleService defines methods for role grant operations
type RoleService interface {
	Grant(ctx context.Context, userID int64, roleName string, grantedBy int64) (*dto.RoleListResponse, error)
	Revoke(ctx context.Context, userID, grantID, revokedBy int64) (*dto.RoleListResponse, error)
	List(ctx context.Context, userID int64) (*dto.RoleListResponse, error)
	ActiveRoleNames(ctx context.Context, userID int64) ([]string, error)
	Catalog() *dto.RoleCatalogResponse
}

// SessionService defines methods for session operations
type SessionService interface {
	List(ctx context.Context, userID int64) (*dto.SessionListResponse, error)
	Revoke(ctx context.Context, sessionID, requestedBy int64, admin bool) error
	RevokeAll(ctx context.Context, userID int64) (int64, error)
}

// MaintenanceService removes expired sessions and single-use tokens
type MaintenanceService interface {
	SweepExpired(ctx context.Context) (sessions, tokens int64, err error)
}

// ListUsersParams narrows and pages user listings
type ListUsersParams struct {
	Limit      int
	Offset     int
	IsVerified *bool
	IsAdmin    *bool
	Search     string
}
