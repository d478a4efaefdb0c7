package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gamarriando/user-service/internal/domain"
	"github.com/gamarriando/user-service/internal/dto"
	"github.com/gamarriando/user-service/internal/repository"
	"github.com/gamarriando/user-service/internal/utils"
	"go.uber.org/zap"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// userService implements UserService interface
type userService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	logger      *zap.Logger
	opts        AuthOptions
}

// NewUserService creates a new user service
func NewUserService(repos *repository.Repositories, logger *zap.Logger, opts AuthOptions) UserService {
	return &userService{
		userRepo:    repos.User,
		sessionRepo: repos.Session,
		logger:      logger,
		opts:        opts,
	}
}

// Get returns one user's full profile
func (s *userService) Get(ctx context.Context, userID int64) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return toUserResponse(user), nil
}

// List returns a filtered page of active users together with the total count
func (s *userService) List(ctx context.Context, params ListUsersParams) (*dto.UserListResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	filter := domain.UserFilter{
		IsVerified: params.IsVerified,
		IsAdmin:    params.IsAdmin,
		Search:     params.Search,
	}

	users, err := s.userRepo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	total, err := s.userRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	responses := make([]*dto.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, toUserResponse(user))
	}

	return &dto.UserListResponse{
		Users:  responses,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}, nil
}

// Update applies the non-nil fields of the request to the user's profile
func (s *userService) Update(ctx context.Context, userID int64, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.DateOfBirth != nil {
		if *req.DateOfBirth == "" {
			user.DateOfBirth = nil
		} else {
			parsed, err := time.Parse("2006-01-02", *req.DateOfBirth)
			if err != nil {
				return nil, NewValidationError("Invalid date of birth", []string{"Date of birth must be in YYYY-MM-DD format"})
			}
			user.DateOfBirth = &parsed
		}
	}
	if req.ProfilePictureURL != nil {
		user.ProfilePictureURL = req.ProfilePictureURL
	}
	if req.Preferences != nil {
		user.Preferences = *req.Preferences
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	updated, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload user: %w", err)
	}

	return toUserResponse(updated), nil
}

// ChangePassword sets a new password. When the owner changes their own
// password the current one must check out first; an admin acting on another
// account skips that proof.
func (s *userService) ChangePassword(ctx context.Context, userID int64, req *dto.ChangePasswordRequest, selfService bool) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if selfService {
		if !utils.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
			return ErrWrongPassword
		}
	}

	if errs := utils.ValidatePasswordStrength(req.NewPassword, s.opts.PasswordMinLength); len(errs) > 0 {
		return NewValidationError("Weak password", errs)
	}

	passwordHash, err := utils.HashPassword(req.NewPassword, s.opts.BCryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, passwordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.Info("Password changed", zap.Int64("user_id", userID))
	return nil
}

// Deactivate soft-deletes a user and revokes their sessions. Admins cannot
// deactivate themselves.
func (s *userService) Deactivate(ctx context.Context, userID, requestedBy int64) error {
	if userID == requestedBy {
		return ErrSelfAction
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if !user.IsActive {
		return ErrAlreadyDeactivated
	}

	if err := s.userRepo.Deactivate(ctx, userID); err != nil {
		return fmt.Errorf("failed to deactivate user: %w", err)
	}

	if _, err := s.sessionRepo.DeleteByUserID(ctx, userID); err != nil {
		s.logger.Warn("Failed to revoke sessions of deactivated user",
			zap.Int64("user_id", userID), zap.Error(err))
	}

	s.logger.Info("User deactivated",
		zap.Int64("user_id", userID), zap.Int64("requested_by", requestedBy))
	return nil
}

func toUserResponse(user *domain.User) *dto.UserResponse {
	response := &dto.UserResponse{
		ID:                user.ID,
		Email:             user.Email,
		Username:          user.Username,
		FirstName:         user.FirstName,
		LastName:          user.LastName,
		Phone:             user.Phone,
		IsActive:          user.IsActive,
		IsVerified:        user.IsVerified,
		IsAdmin:           user.IsAdmin,
		ProfilePictureURL: user.ProfilePictureURL,
		Preferences:       user.Preferences,
		CreatedAt:         user.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:         user.UpdatedAt.UTC().Format(time.RFC3339),
	}

	if user.DateOfBirth != nil {
		dob := user.DateOfBirth.Format("2006-01-02")
		response.DateOfBirth = &dob
	}
	if user.LastLoginAt != nil {
		lastLogin := user.LastLoginAt.UTC().Format(time.RFC3339)
		response.LastLoginAt = &lastLogin
	}

	return response
}
