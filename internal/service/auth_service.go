package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gamarriando/user-service/internal/domain"
	"github.com/gamarriando/user-service/internal/dto"
	"github.com/gamarriando/user-service/internal/repository"
	"github.com/gamarriando/user-service/internal/utils"
	"go.uber.org/zap"
)

// AuthOptions carries the auth policy knobs, injected once at startup
type AuthOptions struct {
	BCryptCost              int
	PasswordMinLength       int
	ResetTokenExpiry        time.Duration
	VerificationTokenExpiry time.Duration
	Debug                   bool
}

// authService implements AuthService interface
type authService struct {
	userRepo      repository.UserRepository
	sessionRepo   repository.SessionRepository
	authTokenRepo repository.AuthTokenRepository
	roles         RoleService
	jwtManager    *utils.JWTManager
	logger        *zap.Logger
	opts          AuthOptions
}

// NewAuthService creates a new auth service. Role names embedded into issued
// tokens come from the role service.
func NewAuthService(
	repos *repository.Repositories,
	roles RoleService,
	jwtManager *utils.JWTManager,
	logger *zap.Logger,
	opts AuthOptions,
) AuthService {
	return &authService{
		userRepo:      repos.User,
		sessionRepo:   repos.Session,
		authTokenRepo: repos.AuthToken,
		roles:         roles,
		jwtManager:    jwtManager,
		logger:        logger,
		opts:          opts,
	}
}

// Register creates a new user and issues an email verification token.
// The token is echoed in the response only in debug mode; in production it
// travels by email (the mail sender is an external collaborator).
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	email := utils.SanitizeEmail(req.Email)
	if !utils.ValidateEmail(email) {
		return nil, NewValidationError("Invalid email format", []string{"Invalid email format"})
	}

	if errs := utils.ValidateUsername(req.Username); len(errs) > 0 {
		return nil, NewValidationError("Invalid username", errs)
	}

	if errs := utils.ValidatePasswordStrength(req.Password, s.opts.PasswordMinLength); len(errs) > 0 {
		return nil, NewValidationError("Weak password", errs)
	}

	var dateOfBirth *time.Time
	if req.DateOfBirth != "" {
		parsed, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			return nil, NewValidationError("Invalid date of birth", []string{"Date of birth must be in YYYY-MM-DD format"})
		}
		dateOfBirth = &parsed
	}

	// Check-then-act: the unique indexes still back this up under concurrency
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	if _, err := s.userRepo.GetByUsername(ctx, req.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	passwordHash, err := utils.HashPassword(req.Password, s.opts.BCryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		Username:     req.Username,
		PasswordHash: passwordHash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		DateOfBirth:  dateOfBirth,
		IsActive:     true,
		IsVerified:   false,
		IsAdmin:      false,
		Preferences:  req.Preferences,
	}
	if req.Phone != "" {
		phone := req.Phone
		user.Phone = &phone
	}
	if req.ProfilePictureURL != "" {
		url := req.ProfilePictureURL
		user.ProfilePictureURL = &url
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, ErrEmailTaken
		case errors.Is(err, repository.ErrDuplicateUsername):
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	verificationToken, err := s.issueVerificationToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	response := &dto.RegisterResponse{
		UserID:     user.ID,
		Email:      user.Email,
		Username:   user.Username,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		IsVerified: false,
	}
	if s.opts.Debug {
		response.VerificationToken = verificationToken
	}

	return response, nil
}

// Login authenticates a user, embeds their active roles in a fresh token
// pair and records a session. Unknown email, wrong password and deactivated
// account all fail the same way.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest, clientIP, userAgent string) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, utils.SanitizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	roles, err := s.roles.ActiveRoleNames(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	accessToken, refreshToken, err := s.generateTokenPair(user, roles)
	if err != nil {
		return nil, err
	}

	session, err := s.createSession(ctx, user.ID, clientIP, userAgent)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn("Failed to update last login", zap.Int64("user_id", user.ID), zap.Error(err))
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    s.jwtManager.GetAccessTokenExpiry(),
		User:         userInfo(user, roles),
		SessionID:    session.ID,
	}, nil
}

// Refresh rotates a valid refresh token into a brand-new access and refresh
// pair. Access tokens presented here are rejected as wrong-type rather than
// merely invalid. Roles are re-read from the store, so this is also the point
// where grant changes reach the token.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.AuthResponse, error) {
	claims, err := s.jwtManager.Verify(refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims.TokenType != domain.TokenTypeRefresh {
		return nil, ErrWrongTokenType
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.IsActive {
		return nil, ErrInvalidToken
	}

	roles, err := s.roles.ActiveRoleNames(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	newAccessToken, newRefreshToken, err := s.generateTokenPair(user, roles)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  newAccessToken,
		RefreshToken: newRefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    s.jwtManager.GetAccessTokenExpiry(),
		User:         userInfo(user, roles),
	}, nil
}

// Logout revokes every session of the user and reports the count removed
func (s *authService) Logout(ctx context.Context, userID int64) (int64, error) {
	count, err := s.sessionRepo.DeleteByUserID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to revoke sessions: %w", err)
	}
	return count, nil
}

// ForgotPassword issues a reset token when the email matches an active
// account. The response is identical either way to prevent email
// enumeration; the token itself only leaves through the response in debug
// mode, otherwise it is handed to the mail sender boundary (currently a log
// line).
func (s *authService) ForgotPassword(ctx context.Context, email string) (*dto.ForgotPasswordResponse, error) {
	email = utils.SanitizeEmail(email)
	if !utils.ValidateEmail(email) {
		return nil, NewValidationError("Invalid email format", []string{"Invalid email format"})
	}

	response := &dto.ForgotPasswordResponse{
		Email:     email,
		ExpiresIn: int(s.opts.ResetTokenExpiry.Seconds()),
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return response, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.IsActive {
		return response, nil
	}

	token, err := utils.GenerateOpaqueToken()
	if err != nil {
		return nil, err
	}

	resetToken := &domain.PasswordResetToken{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(s.opts.ResetTokenExpiry),
	}
	if err := s.authTokenRepo.CreateResetToken(ctx, resetToken); err != nil {
		return nil, err
	}

	// Mail delivery is out of scope; the token is logged for operators
	s.logger.Info("Password reset token issued", zap.Int64("user_id", user.ID))

	if s.opts.Debug {
		response.ResetToken = token
	}

	return response, nil
}

// ResetPassword redeems a reset token. The token fails closed when unknown,
// already used or expired. The password update happens before the token is
// marked used: a failed update must leave the token redeemable.
func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if errs := utils.ValidatePasswordStrength(newPassword, s.opts.PasswordMinLength); len(errs) > 0 {
		return NewValidationError("Weak password", errs)
	}

	resetToken, err := s.authTokenRepo.GetResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("failed to get reset token: %w", err)
	}

	if resetToken.UsedAt != nil {
		return ErrInvalidToken
	}

	if time.Now().After(resetToken.ExpiresAt) {
		return ErrInvalidToken
	}

	passwordHash, err := utils.HashPassword(newPassword, s.opts.BCryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, resetToken.UserID, passwordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if err := s.authTokenRepo.MarkResetTokenUsed(ctx, token); err != nil {
		return fmt.Errorf("failed to mark reset token used: %w", err)
	}

	s.logger.Info("Password reset", zap.Int64("user_id", resetToken.UserID))
	return nil
}

// VerifyEmail redeems a verification token against the addressed user. A
// token tied to a different user id is rejected even when otherwise valid.
func (s *authService) VerifyEmail(ctx context.Context, userID int64, token string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if user.IsVerified {
		return ErrAlreadyVerified
	}

	verificationToken, err := s.authTokenRepo.GetVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("failed to get verification token: %w", err)
	}

	if verificationToken.VerifiedAt != nil {
		return ErrInvalidToken
	}

	if time.Now().After(verificationToken.ExpiresAt) {
		return ErrInvalidToken
	}

	if verificationToken.UserID != userID {
		return ErrInvalidToken
	}

	if err := s.userRepo.SetVerified(ctx, userID); err != nil {
		return fmt.Errorf("failed to verify user: %w", err)
	}

	if err := s.authTokenRepo.MarkVerificationTokenUsed(ctx, token); err != nil {
		return fmt.Errorf("failed to mark verification token used: %w", err)
	}

	return nil
}

func (s *authService) issueVerificationToken(ctx context.Context, userID int64) (string, error) {
	token, err := utils.GenerateOpaqueToken()
	if err != nil {
		return "", err
	}

	verificationToken := &domain.EmailVerificationToken{
		UserID:    userID,
		Token:     token,
		ExpiresAt: time.Now().Add(s.opts.VerificationTokenExpiry),
	}
	if err := s.authTokenRepo.CreateVerificationToken(ctx, verificationToken); err != nil {
		return "", err
	}

	s.logger.Info("Email verification token issued", zap.Int64("user_id", userID))
	return token, nil
}

func (s *authService) generateTokenPair(user *domain.User, roles []string) (string, string, error) {
	accessToken, err := s.jwtManager.Generate(user, roles, domain.TokenTypeAccess)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.Generate(user, roles, domain.TokenTypeRefresh)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return accessToken, refreshToken, nil
}

func (s *authService) createSession(ctx context.Context, userID int64, clientIP, userAgent string) (*domain.Session, error) {
	sessionToken, err := utils.GenerateOpaqueToken()
	if err != nil {
		return nil, err
	}

	refreshToken, err := utils.GenerateOpaqueToken()
	if err != nil {
		return nil, err
	}

	deviceInfo, err := json.Marshal(map[string]string{
		"user_agent": userAgent,
		"login_time": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode device info: %w", err)
	}
	deviceInfoStr := string(deviceInfo)

	session := &domain.Session{
		UserID:       userID,
		SessionToken: sessionToken,
		RefreshToken: refreshToken,
		DeviceInfo:   &deviceInfoStr,
		ExpiresAt:    time.Now().Add(s.jwtManager.GetRefreshTokenExpiry()),
	}
	if clientIP != "" {
		session.IPAddress = &clientIP
	}
	if userAgent != "" {
		session.UserAgent = &userAgent
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

func userInfo(user *domain.User, roles []string) dto.UserInfo {
	return dto.UserInfo{
		ID:         user.ID,
		Email:      user.Email,
		Username:   user.Username,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		IsVerified: user.IsVerified,
		IsAdmin:    user.IsAdmin,
		Roles:      roles,
	}
}
