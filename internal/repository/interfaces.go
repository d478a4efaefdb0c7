package repository

import (
	"context"

	"github.com/gamarriando/user-service/internal/domain"
)

// UserRepository defines methods for user operations
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
	UpdateLastLogin(ctx context.Context, userID int64) error
	SetVerified(ctx context.Context, userID int64) error
	Deactivate(ctx context.Context, userID int64) error
	List(ctx context.Context, filter domain.UserFilter, limit, offset int) ([]*domain.User, error)
	Count(ctx context.Context, filter domain.UserFilter) (int, error)
}

// RoleRepository defines methods for role grant operations
type RoleRepository interface {
	Grant(ctx context.Context, grant *domain.RoleGrant) error
	GetByID(ctx context.Context, userID, grantID int64) (*domain.RoleGrant, error)
	ListActive(ctx context.Context, userID int64) ([]*domain.RoleGrant, error)
	Revoke(ctx context.Context, userID, grantID int64) error
}

// SessionRepository defines methods for session operations
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByID(ctx context.Context, sessionID int64) (*domain.Session, error)
	ListActive(ctx context.Context, userID int64) ([]*domain.Session, error)
	Delete(ctx context.Context, sessionID int64) error
	DeleteByUserID(ctx context.Context, userID int64) (int64, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

// AuthTokenRepository defines methods for single-use token operations
// (password reset and email verification)
type AuthTokenRepository interface {
	CreateResetToken(ctx context.Context, token *domain.PasswordResetToken) error
	GetResetToken(ctx context.Context, token string) (*domain.PasswordResetToken, error)
	MarkResetTokenUsed(ctx context.Context, token string) error

	CreateVerificationToken(ctx context.Context, token *domain.EmailVerificationToken) error
	GetVerificationToken(ctx context.Context, token string) (*domain.EmailVerificationToken, error)
	MarkVerificationTokenUsed(ctx context.Context, token string) error

	DeleteExpired(ctx context.Context) (int64, error)
}
