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

// roleRepository implements RoleRepository interface
type roleRepository struct {
	db *database.Postgres
}

// NewRoleRepository creates a new role repository
func NewRoleRepository(db *database.Postgres) RoleRepository {
	return &roleRepository{db: db}
}

// Grant inserts an active role grant and fills in the generated id. The
// partial unique index on (user_id, role_name) WHERE is_active turns a
// concurrent duplicate grant into ErrDuplicateRole.
func (r *roleRepository) Grant(ctx context.Context, grant *domain.RoleGrant) error {
	query := `
		INSERT INTO user_roles (user_id, role_name, granted_by, granted_at, expires_at, is_active)
		VALUES ($1, $2, $3, $4, $5, true)
		RETURNING id
	`

	if grant.GrantedAt.IsZero() {
		grant.GrantedAt = time.Now()
	}
	grant.IsActive = true

	err := r.db.DB.QueryRowContext(ctx, query,
		grant.UserID,
		grant.RoleName,
		grant.GrantedBy,
		grant.GrantedAt,
		grant.ExpiresAt,
	).Scan(&grant.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("user %d already holds role %s: %w", grant.UserID, grant.RoleName, ErrDuplicateRole)
		}
		return fmt.Errorf("failed to grant role: %w", err)
	}

	return nil
}

// GetByID retrieves one grant row scoped to a user
func (r *roleRepository) GetByID(ctx context.Context, userID, grantID int64) (*domain.RoleGrant, error) {
	query := `
		SELECT ur.id, ur.user_id, ur.role_name, ur.granted_by, u.email, ur.granted_at, ur.expires_at, ur.is_active
		FROM user_roles ur
		LEFT JOIN users u ON ur.granted_by = u.id
		WHERE ur.id = $1 AND ur.user_id = $2
	`

	grant, err := scanRoleGrant(r.db.DB.QueryRowContext(ctx, query, grantID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("role grant %d not found for user %d: %w", grantID, userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get role grant: %w", err)
	}

	return grant, nil
}

// ListActive returns the user's active grants, newest first. Grants with a
// past expires_at are excluded even while still flagged active.
func (r *roleRepository) ListActive(ctx context.Context, userID int64) ([]*domain.RoleGrant, error) {
	query := `
		SELECT ur.id, ur.user_id, ur.role_name, ur.granted_by, u.email, ur.granted_at, ur.expires_at, ur.is_active
		FROM user_roles ur
		LEFT JOIN users u ON ur.granted_by = u.id
		WHERE ur.user_id = $1 AND ur.is_active = true
			AND (ur.expires_at IS NULL OR ur.expires_at > NOW())
		ORDER BY ur.granted_at DESC
	`

	rows, err := r.db.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	defer rows.Close()

	var grants []*domain.RoleGrant
	for rows.Next() {
		grant, err := scanRoleGrant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan role grant: %w", err)
		}
		grants = append(grants, grant)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate role grants: %w", err)
	}

	return grants, nil
}

// Revoke soft-deletes one active grant. Revoking an already-inactive grant
// reports not found so the caller can reject the state transition.
func (r *roleRepository) Revoke(ctx context.Context, userID, grantID int64) error {
	query := `UPDATE user_roles SET is_active = false WHERE id = $1 AND user_id = $2 AND is_active = true`

	result, err := r.db.DB.ExecContext(ctx, query, grantID, userID)
	if err != nil {
		return fmt.Errorf("failed to revoke role: %w", err)
	}

	return requireRowsAffected(result, "role grant")
}

func scanRoleGrant(row rowScanner) (*domain.RoleGrant, error) {
	grant := &domain.RoleGrant{}
	var grantedBy sql.NullInt64
	var grantedByEmail sql.NullString
	var expiresAt sql.NullTime

	err := row.Scan(
		&grant.ID,
		&grant.UserID,
		&grant.RoleName,
		&grantedBy,
		&grantedByEmail,
		&grant.GrantedAt,
		&expiresAt,
		&grant.IsActive,
	)
	if err != nil {
		return nil, err
	}

	if grantedBy.Valid {
		grant.GrantedBy = &grantedBy.Int64
	}
	if grantedByEmail.Valid {
		grant.GrantedByEmail = &grantedByEmail.String
	}
	if expiresAt.Valid {
		grant.ExpiresAt = &expiresAt.Time
	}

	return grant, nil
}
