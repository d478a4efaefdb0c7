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

// sessionRepository implements SessionRepository interface
type sessionRepository struct {
	db *database.Postgres
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *database.Postgres) SessionRepository {
	return &sessionRepository{db: db}
}

// Create inserts a new session and fills in the generated id
func (r *sessionRepository) Create(ctx context.Context, session *domain.Session) error {
	query := `
		INSERT INTO user_sessions (user_id, session_token, refresh_token, device_info,
			ip_address, user_agent, expires_at, created_at, last_accessed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	now := time.Now()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	if session.LastAccessedAt.IsZero() {
		session.LastAccessedAt = now
	}

	err := r.db.DB.QueryRowContext(ctx, query,
		session.UserID,
		session.SessionToken,
		session.RefreshToken,
		session.DeviceInfo,
		session.IPAddress,
		session.UserAgent,
		session.ExpiresAt,
		session.CreatedAt,
		session.LastAccessedAt,
	).Scan(&session.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("session token already exists: %w", ErrDuplicateToken)
		}
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// GetByID returns one session by its id
func (r *sessionRepository) GetByID(ctx context.Context, sessionID int64) (*domain.Session, error) {
	query := `
		SELECT id, user_id, session_token, refresh_token, device_info, ip_address,
			user_agent, expires_at, created_at, last_accessed_at
		FROM user_sessions
		WHERE id = $1
	`

	session := &domain.Session{}
	var deviceInfo, ipAddress, userAgent sql.NullString

	err := r.db.DB.QueryRowContext(ctx, query, sessionID).Scan(
		&session.ID,
		&session.UserID,
		&session.SessionToken,
		&session.RefreshToken,
		&deviceInfo,
		&ipAddress,
		&userAgent,
		&session.ExpiresAt,
		&session.CreatedAt,
		&session.LastAccessedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if deviceInfo.Valid {
		session.DeviceInfo = &deviceInfo.String
	}
	if ipAddress.Valid {
		session.IPAddress = &ipAddress.String
	}
	if userAgent.Valid {
		session.UserAgent = &userAgent.String
	}

	return session, nil
}

// ListActive returns the user's unexpired sessions, most recently accessed first
func (r *sessionRepository) ListActive(ctx context.Context, userID int64) ([]*domain.Session, error) {
	query := `
		SELECT id, user_id, session_token, refresh_token, device_info, ip_address,
			user_agent, expires_at, created_at, last_accessed_at
		FROM user_sessions
		WHERE user_id = $1 AND expires_at > NOW()
		ORDER BY last_accessed_at DESC
	`

	rows, err := r.db.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*domain.Session
	for rows.Next() {
		session := &domain.Session{}
		var deviceInfo, ipAddress, userAgent sql.NullString

		err := rows.Scan(
			&session.ID,
			&session.UserID,
			&session.SessionToken,
			&session.RefreshToken,
			&deviceInfo,
			&ipAddress,
			&userAgent,
			&session.ExpiresAt,
			&session.CreatedAt,
			&session.LastAccessedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}

		if deviceInfo.Valid {
			session.DeviceInfo = &deviceInfo.String
		}
		if ipAddress.Valid {
			session.IPAddress = &ipAddress.String
		}
		if userAgent.Valid {
			session.UserAgent = &userAgent.String
		}

		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}

	return sessions, nil
}

// Delete hard-deletes one session. A missing row reports ErrNotFound so the
// API boundary can answer revokes of unknown ids with 404, not success.
func (r *sessionRepository) Delete(ctx context.Context, sessionID int64) error {
	query := `DELETE FROM user_sessions WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query, sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return requireRowsAffected(result, "session")
}

// DeleteByUserID hard-deletes every session for the user and returns the count
func (r *sessionRepository) DeleteByUserID(ctx context.Context, userID int64) (int64, error) {
	query := `DELETE FROM user_sessions WHERE user_id = $1`

	result, err := r.db.DB.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete sessions: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return count, nil
}

// DeleteExpired removes all sessions whose expiry has passed
func (r *sessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM user_sessions WHERE expires_at < NOW()`

	result, err := r.db.DB.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return count, nil
}
