package service

import (
	"context"
	"fmt"

	"github.com/gamarriando/user-service/internal/repository"
	"go.uber.org/zap"
)

// maintenanceService implements MaintenanceService interface
type maintenanceService struct {
	sessionRepo   repository.SessionRepository
	authTokenRepo repository.AuthTokenRepository
	logger        *zap.Logger
}

// NewMaintenanceService creates a new maintenance service
func NewMaintenanceService(repos *repository.Repositories, logger *zap.Logger) MaintenanceService {
	return &maintenanceService{
		sessionRepo:   repos.Session,
		authTokenRepo: repos.AuthToken,
		logger:        logger,
	}
}

// SweepExpired removes expired sessions and expired single-use tokens,
// returning the counts deleted from each side
func (s *maintenanceService) SweepExpired(ctx context.Context) (int64, int64, error) {
	sessions, err := s.sessionRepo.DeleteExpired(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to sweep expired sessions: %w", err)
	}

	tokens, err := s.authTokenRepo.DeleteExpired(ctx)
	if err != nil {
		return sessions, 0, fmt.Errorf("failed to sweep expired tokens: %w", err)
	}

	if sessions > 0 || tokens > 0 {
		s.logger.Info("Swept expired records",
			zap.Int64("sessions", sessions), zap.Int64("tokens", tokens))
	}

	return sessions, tokens, nil
}
