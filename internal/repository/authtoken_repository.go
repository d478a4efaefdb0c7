package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gamarriando/user-service/internal/domain"
	"github.com/gamarriando/user-service/pkg/database"
	"github.com/lib/pq"
)

// authTokenRepository implements AuthTokenRepository for password reset and
// email verification tokens. Both tables share the same shape; only the
// usage-timestamp column name differs.
type authTokenRepository struct {
	db *database.Postgres
}

// NewAuthTokenRepository creates a new auth token repository
func NewAuthTokenRepository(db *database.Postgres) AuthTokenRepository {
	return &authTokenRepository{db: db}
}

// CreateResetToken inserts a password reset token and fills in the generated id
func (r *authTokenRepository) CreateResetToken(ctx context.Context, token *domain.PasswordResetToken) error {
	query := `
		INSERT INTO password_reset_tokens (user_id, token, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}

	err := r.db.DB.QueryRowContext(ctx, query,
		token.UserID,
		token.Token,
		token.ExpiresAt,
		token.CreatedAt,
	).Scan(&token.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("reset token already exists: %w", ErrDuplicateToken)
		}
		return fmt.Errorf("failed to create reset token: %w", err)
	}

	return nil
}

// GetResetToken looks up a reset token by its raw value
func (r *authTokenRepository) GetResetToken(ctx context.Context, token string) (*domain.PasswordResetToken, error) {
	query := `
		SELECT id, user_id, token, expires_at, created_at, used_at
		FROM password_reset_tokens
		WHERE token = $1
	`

	result := &domain.PasswordResetToken{}
	var usedAt sql.NullTime

	err := r.db.DB.QueryRowContext(ctx, query, token).Scan(
		&result.ID,
		&result.UserID,
		&result.Token,
		&result.ExpiresAt,
		&result.CreatedAt,
		&usedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("reset token not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get reset token: %w", err)
	}

	if usedAt.Valid {
		result.UsedAt = &usedAt.Time
	}

	return result, nil
}

// MarkResetTokenUsed sets the usage timestamp, making the token permanently inert
func (r *authTokenRepository) MarkResetTokenUsed(ctx context.Context, token string) error {
	query := `UPDATE password_reset_tokens SET used_at = NOW() WHERE token = $1 AND used_at IS NULL`

	result, err := r.db.DB.ExecContext(ctx, query, token)
	if err != nil {
		return fmt.Errorf("failed to mark reset token used: %w", err)
	}

	return requireRowsAffected(result, "reset token")
}

// CreateVerificationToken inserts an email verification token and fills in the generated id
func (r *authTokenRepository) CreateVerificationToken(ctx context.Context, token *domain.EmailVerificationToken) error {
	query := `
		INSERT INTO email_verification_tokens (user_id, token, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}

	err := r.db.DB.QueryRowContext(ctx, query,
		token.UserID,
		token.Token,
		token.ExpiresAt,
		token.CreatedAt,
	).Scan(&token.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("verification token already exists: %w", ErrDuplicateToken)
		}
		return fmt.Errorf("failed to create verification token: %w", err)
	}

	return nil
}

// GetVerificationToken looks up a verification token by its raw value
func (r *authTokenRepository) GetVerificationToken(ctx context.Context, token string) (*domain.EmailVerificationToken, error) {
	query := `
		SELECT id, user_id, token, expires_at, created_at, verified_at
		FROM email_verification_tokens
		WHERE token = $1
	`

	result := &domain.EmailVerificationToken{}
	var verifiedAt sql.NullTime

	err := r.db.DB.QueryRowContext(ctx, query, token).Scan(
		&result.ID,
		&result.UserID,
		&result.Token,
		&result.ExpiresAt,
		&result.CreatedAt,
		&verifiedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("verification token not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get verification token: %w", err)
	}

	if verifiedAt.Valid {
		result.VerifiedAt = &verifiedAt.Time
	}

	return result, nil
}

// MarkVerificationTokenUsed sets the verification timestamp, making the token permanently inert
func (r *authTokenRepository) MarkVerificationTokenUsed(ctx context.Context, token string) error {
	query := `UPDATE email_verification_tokens SET verified_at = NOW() WHERE token = $1 AND verified_at IS NULL`

	result, err := r.db.DB.ExecContext(ctx, query, token)
	if err != nil {
		return fmt.Errorf("failed to mark verification token used: %w", err)
	}

	return requireRowsAffected(result, "verification token")
}

// DeleteExpired removes all reset and verification tokens past their expiry
func (r *authTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	var total int64

	for _, query := range []string{
		`DELETE FROM password_reset_tokens WHERE expires_at < NOW()`,
		`DELETE FROM email_verification_tokens WHERE expires_at < NOW()`,
	} {
		result, err := r.db.DB.ExecContext(ctx, query)
		if err != nil {
			return total, fmt.Errorf("failed to delete expired tokens: %w", err)
		}

		count, err := result.RowsAffected()
		if err != nil {
			return total, fmt.Errorf("failed to get rows affected: %w", err)
		}
		total += count
	}

	return total, nil
}
