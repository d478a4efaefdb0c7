package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gamarriando/user-service/internal/dto"
	"github.com/gamarriando/user-service/internal/service"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	authService service.AuthService
	responder   *ErrorResponder
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService service.AuthService, responder *ErrorResponder) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		responder:   responder,
	}
}

// Register handles user registration
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration request"
// @Success 201 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	response, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		h.responder.respond(c, err)
		return
	}

	respondCreated(c, "User registered successfully", response)
}

// Login handles user login
// @Summary Authenticate with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login request"
// @Success 200 {object} dto.SuccessResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	response, err := h.authService.Login(c.Request.Context(), &req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		h.responder.respond(c, err)
		return
	}

	respondOK(c, "Login successful", response)
}

// Refresh handles token rotation
// @Summary Exchange a refresh token for a new token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshRequest true "Refresh request"
// @Success 200 {object} dto.SuccessResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	response, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.responder.respond(c, err)
		return
	}

	respondOK(c, "Token refreshed successfully", response)
}

// Logout revokes all of the caller's sessions
// @Summary Logout the current user
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.SuccessResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		abortUnauthorized(c, "Authentication required")
		return
	}

	count, err := h.authService.Logout(c.Request.Context(), userID)
	if err != nil {
		h.responder.respond(c, err)
		return
	}

	respondOK(c, "Logged out successfully", dto.RevokeAllResponse{
		UserID:          userID,
		SessionsRevoked: count,
	})
}

// ForgotPassword issues a password reset token
// @Summary Request a password reset
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.ForgotPasswordRequest true "Forgot password request"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	response, err := h.authService.ForgotPassword(c.Request.Context(), req.Email)
	if err != nil {
		h.responder.respond(c, err)
		return
	}

	respondOK(c, "If the email exists, a password reset link has been sent", response)
}

// ResetPassword redeems a password reset token
// @Summary Reset password with a token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.ResetPasswordRequest true "Reset password request"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		h.responder.respond(c, err)
		return
	}

	respondOK(c, "Password reset successfully", nil)
}

// VerifyEmail redeems an email verification token for the addressed user
// @Summary Verify a user's email address
// @Tags auth
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body dto.VerifyEmailRequest true "Verify email request"
// @Success 200 {object} dto.SuccessResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /users/{id}/verify-email [post]
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "Invalid user id")
		return
	}

	var req dto.VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if err := h.authService.VerifyEmail(c.Request.Context(), userID, req.Token); err != nil {
		h.responder.respond(c, err)
		return
	}

	respondOK(c, "Email verified successfully", nil)
}
