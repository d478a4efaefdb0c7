package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gamarriando/user-service/internal/domain"
	"github.com/gamarriando/user-service/pkg/database"
	"github.com/lib/pq"
)

// userRepository implements UserRepository interface
type userRepository struct {
	db *database.Postgres
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.Postgres) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, email, username, password_hash, first_name, last_name, phone,
		date_of_birth, is_active, is_verified, is_admin, profile_picture_url,
		preferences, last_login_at, created_at, updated_at`

// Create inserts a new user and fills in the generated id
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (email, username, password_hash, first_name, last_name, phone,
			date_of_birth, is_active, is_verified, is_admin, profile_picture_url,
			preferences, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}

	preferences, err := marshalPreferences(user.Preferences)
	if err != nil {
		return err
	}

	err = r.db.DB.QueryRowContext(ctx, query,
		user.Email,
		user.Username,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Phone,
		user.DateOfBirth,
		user.IsActive,
		user.IsVerified,
		user.IsAdmin,
		user.ProfilePictureURL,
		preferences,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID)

	if err != nil {
		if dupErr := mapUserUniqueViolation(err, user); dupErr != nil {
			return dupErr
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByEmail retrieves a user by email (case-insensitive)
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE lower(email) = lower($1)`, userColumns)
	return r.getOne(ctx, query, email)
}

// GetByUsername retrieves a user by username
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE username = $1`, userColumns)
	return r.getOne(ctx, query, username)
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	return r.getOne(ctx, query, id)
}

func (r *userRepository) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	user, err := scanUser(r.db.DB.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// Update persists profile fields of an existing user
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET first_name = $2, last_name = $3, phone = $4, date_of_birth = $5,
			profile_picture_url = $6, preferences = $7, updated_at = NOW()
		WHERE id = $1
	`

	preferences, err := marshalPreferences(user.Preferences)
	if err != nil {
		return err
	}

	result, err := r.db.DB.ExecContext(ctx, query,
		user.ID,
		user.FirstName,
		user.LastName,
		user.Phone,
		user.DateOfBirth,
		user.ProfilePictureURL,
		preferences,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	return requireRowsAffected(result, "user")
}

// UpdatePassword replaces the stored password hash
func (r *userRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query, userID, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return requireRowsAffected(result, "user")
}

// UpdateLastLogin updates the last login timestamp for a user
func (r *userRepository) UpdateLastLogin(ctx context.Context, userID int64) error {
	query := `UPDATE users SET last_login_at = NOW(), updated_at = NOW() WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}

	return requireRowsAffected(result, "user")
}

// SetVerified marks the user's email as confirmed
func (r *userRepository) SetVerified(ctx context.Context, userID int64) error {
	query := `UPDATE users SET is_verified = true, updated_at = NOW() WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to set user verified: %w", err)
	}

	return requireRowsAffected(result, "user")
}

// Deactivate soft-deletes the user. Rows are never physically removed.
func (r *userRepository) Deactivate(ctx context.Context, userID int64) error {
	query := `UPDATE users SET is_active = false, updated_at = NOW() WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to deactivate user: %w", err)
	}

	return requireRowsAffected(result, "user")
}

// List returns active users matching the filter, newest first
func (r *userRepository) List(ctx context.Context, filter domain.UserFilter, limit, offset int) ([]*domain.User, error) {
	where, args := buildUserFilter(filter)
	args = append(args, limit, offset)

	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, userColumns, where, len(args)-1, len(args))

	rows, err := r.db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}

// Count returns the number of active users matching the filter
func (r *userRepository) Count(ctx context.Context, filter domain.UserFilter) (int, error) {
	where, args := buildUserFilter(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM users WHERE %s`, where)

	var count int
	if err := r.db.DB.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}

	return count, nil
}

func buildUserFilter(filter domain.UserFilter) (string, []any) {
	conditions := []string{"is_active = true"}
	var args []any

	if filter.IsVerified != nil {
		args = append(args, *filter.IsVerified)
		conditions = append(conditions, fmt.Sprintf("is_verified = $%d", len(args)))
	}

	if filter.IsAdmin != nil {
		args = append(args, *filter.IsAdmin)
		conditions = append(conditions, fmt.Sprintf("is_admin = $%d", len(args)))
	}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(email ILIKE $%d OR username ILIKE $%d OR first_name ILIKE $%d OR last_name ILIKE $%d)",
			n, n, n, n))
	}

	return strings.Join(conditions, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	user := &domain.User{}
	var phone, profilePictureURL sql.NullString
	var dateOfBirth, lastLoginAt sql.NullTime
	var preferences []byte

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&phone,
		&dateOfBirth,
		&user.IsActive,
		&user.IsVerified,
		&user.IsAdmin,
		&profilePictureURL,
		&preferences,
		&lastLoginAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if phone.Valid {
		user.Phone = &phone.String
	}
	if profilePictureURL.Valid {
		user.ProfilePictureURL = &profilePictureURL.String
	}
	if dateOfBirth.Valid {
		user.DateOfBirth = &dateOfBirth.Time
	}
	if lastLoginAt.Valid {
		user.LastLoginAt = &lastLoginAt.Time
	}

	user.Preferences = map[string]any{}
	if len(preferences) > 0 {
		if err := json.Unmarshal(preferences, &user.Preferences); err != nil {
			return nil, fmt.Errorf("failed to decode preferences: %w", err)
		}
	}

	return user, nil
}

func marshalPreferences(preferences map[string]any) ([]byte, error) {
	if preferences == nil {
		preferences = map[string]any{}
	}
	data, err := json.Marshal(preferences)
	if err != nil {
		return nil, fmt.Errorf("failed to encode preferences: %w", err)
	}
	return data, nil
}

// mapUserUniqueViolation translates pq unique violations into the sentinel
// duplicate errors. 23505 is the only way a concurrent duplicate surfaces.
func mapUserUniqueViolation(err error, user *domain.User) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != "23505" {
		return nil
	}

	if strings.Contains(pqErr.Constraint, "username") {
		return fmt.Errorf("username %s already taken: %w", user.Username, ErrDuplicateUsername)
	}
	return fmt.Errorf("user with email %s already exists: %w", user.Email, ErrDuplicateEmail)
}

func requireRowsAffected(result sql.Result, entity string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%s not found: %w", entity, ErrNotFound)
	}

	return nil
}
