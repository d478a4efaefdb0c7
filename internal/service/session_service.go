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

// sessionService implements SessionService interface
type sessionService struct {
	sessionRepo repository.SessionRepository
	logger      *zap.Logger
}

// NewSessionService creates a new session service
func NewSessionService(repos *repository.Repositories, logger *zap.Logger) SessionService {
	return &sessionService{
		sessionRepo: repos.Session,
		logger:      logger,
	}
}

// List returns the user's unexpired sessions, most recently accessed first
func (s *sessionService) List(ctx context.Context, userID int64) (*dto.SessionListResponse, error) {
	sessions, err := s.sessionRepo.ListActive(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	responses := make([]*dto.SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		responses = append(responses, toSessionResponse(session))
	}

	return &dto.SessionListResponse{
		UserID:   userID,
		Sessions: responses,
		Total:    len(responses),
	}, nil
}

// Revoke hard-deletes one session. Non-admins can only revoke their own;
// a session belonging to someone else answers not-found rather than
// confirming it exists.
func (s *sessionService) Revoke(ctx context.Context, sessionID, requestedBy int64, admin bool) error {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("failed to get session: %w", err)
	}

	if !admin && session.UserID != requestedBy {
		return ErrSessionNotFound
	}

	if err := s.sessionRepo.Delete(ctx, sessionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}

	s.logger.Info("Session revoked",
		zap.Int64("session_id", sessionID), zap.Int64("requested_by", requestedBy))
	return nil
}

// RevokeAll hard-deletes every session of the user and returns the count
func (s *sessionService) RevokeAll(ctx context.Context, userID int64) (int64, error) {
	count, err := s.sessionRepo.DeleteByUserID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete sessions: %w", err)
	}

	s.logger.Info("All sessions revoked",
		zap.Int64("user_id", userID), zap.Int64("count", count))
	return count, nil
}

func toSessionResponse(session *domain.Session) *dto.SessionResponse {
	return &dto.SessionResponse{
		ID:             session.ID,
		DeviceInfo:     session.DeviceInfo,
		IPAddress:      session.IPAddress,
		UserAgent:      session.UserAgent,
		ExpiresAt:      session.ExpiresAt.UTC().Format(time.RFC3339),
		CreatedAt:      session.CreatedAt.UTC().Format(time.RFC3339),
		LastAccessedAt: session.LastAccessedAt.UTC().Format(time.RFC3339),
	}
}
