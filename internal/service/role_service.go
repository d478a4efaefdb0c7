package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gamarriando/user-service/internal/domain"
	"github.com/gamarriando/user-service/internal/dto"
	"github.com/gamarriando/user-service/internal/repository"
	"go.uber.org/zap"
)

// roleService implements RoleService interface
type roleService struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
	logger   *zap.Logger
}

// NewRoleService creates a new role service
func NewRoleService(repos *repository.Repositories, logger *zap.Logger) RoleService {
	return &roleService{
		userRepo: repos.User,
		roleRepo: repos.Role,
		logger:   logger,
	}
}

// Grant assigns a role to a user and returns their updated grant list.
// Granting a role the user already holds is a conflict, as is granting to
// yourself or to a deactivated account.
func (s *roleService) Grant(ctx context.Context, userID int64, roleName string, grantedBy int64) (*dto.RoleListResponse, error) {
	if !domain.IsValidRole(roleName) {
		return nil, ErrUnknownRole
	}

	if userID == grantedBy {
		return nil, ErrSelfAction
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	grants, err := s.roleRepo.ListActive(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	for _, grant := range grants {
		if grant.RoleName == roleName {
			return nil, ErrRoleAlreadyGranted
		}
	}

	grant := &domain.RoleGrant{
		UserID:    userID,
		RoleName:  roleName,
		GrantedBy: &grantedBy,
		IsActive:  true,
	}
	if err := s.roleRepo.Grant(ctx, grant); err != nil {
		// The partial unique index catches races the list check missed
		if errors.Is(err, repository.ErrDuplicateRole) {
			return nil, ErrRoleAlreadyGranted
		}
		return nil, fmt.Errorf("failed to grant role: %w", err)
	}

	s.logger.Info("Role granted",
		zap.Int64("user_id", userID),
		zap.String("role", roleName),
		zap.Int64("granted_by", grantedBy))

	return s.List(ctx, userID)
}

// Revoke deactivates one role grant and returns the updated grant list.
// Revoking an already-revoked grant is a conflict; an unknown grant id is
// not found. Admins cannot revoke their own grants.
func (s *roleService) Revoke(ctx context.Context, userID, grantID, revokedBy int64) (*dto.RoleListResponse, error) {
	if userID == revokedBy {
		return nil, ErrSelfAction
	}

	grant, err := s.roleRepo.GetByID(ctx, userID, grantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("failed to get role grant: %w", err)
	}

	if !grant.IsActive {
		return nil, ErrRoleAlreadyRevoked
	}

	if err := s.roleRepo.Revoke(ctx, userID, grantID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoleAlreadyRevoked
		}
		return nil, fmt.Errorf("failed to revoke role: %w", err)
	}

	s.logger.Info("Role revoked",
		zap.Int64("user_id", userID),
		zap.Int64("grant_id", grantID),
		zap.Int64("revoked_by", revokedBy))

	return s.List(ctx, userID)
}

// List returns the user's active role grants
func (s *roleService) List(ctx context.Context, userID int64) (*dto.RoleListResponse, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	grants, err := s.roleRepo.ListActive(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}

	roles := make([]*dto.RoleResponse, 0, len(grants))
	for _, grant := range grants {
		roles = append(roles, toRoleResponse(grant))
	}

	return &dto.RoleListResponse{
		UserID: userID,
		Roles:  roles,
		Total:  len(roles),
	}, nil
}

// Catalog returns the static description of every known role
func (s *roleService) Catalog() *dto.RoleCatalogResponse {
	roles := make([]dto.RoleDefinitionResponse, 0, len(domain.RoleCatalog))
	for _, def := range domain.RoleCatalog {
		roles = append(roles, dto.RoleDefinitionResponse{
			Name:        def.Name,
			Description: def.Description,
			Permissions: def.Permissions,
		})
	}

	return &dto.RoleCatalogResponse{
		Roles: roles,
		Total: len(roles),
	}
}

// ActiveRoleNames returns just the role names of the user's active grants
func (s *roleService) ActiveRoleNames(ctx context.Context, userID int64) ([]string, error) {
	grants, err := s.roleRepo.ListActive(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}

	names := make([]string, 0, len(grants))
	for _, grant := range grants {
		names = append(names, grant.RoleName)
	}
	return names, nil
}

func toRoleResponse(grant *domain.RoleGrant) *dto.RoleResponse {
	response := &dto.RoleResponse{
		ID:             grant.ID,
		RoleName:       grant.RoleName,
		GrantedAt:      grant.GrantedAt.UTC().Format(time.RFC3339),
		GrantedByEmail: grant.GrantedByEmail,
		IsActive:       grant.IsActive,
	}
	if grant.ExpiresAt != nil {
		expiresAt := grant.ExpiresAt.UTC().Format(time.RFC3339)
		response.ExpiresAt = &expiresAt
	}
	return response
}
