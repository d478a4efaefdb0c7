package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gamarriando/user-service/internal/dto"
	"github.com/gamarriando/user-service/internal/service"
)

// SessionHandler handles session requests
type SessionHandler struct {
	sessionService service.SessionService
	responder      *ErrorResponder
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionService service.SessionService, responder *ErrorResponder) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		responder:      responder,
	}
}

// List returns a user's unexpired sessions. Users can list their own;
// listing someone else's requires the admin role.
// @Summary List a user's sessions
// @Tags sessions
// @Security BearerAuth
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /users/{id}/sessions [get]
func (h *SessionHandler) List(c *gin.Context) {
	userID, ok := h.authorizeOwnerOrAdmin(c)
	if !ok {
		return
	}

	response, err := h.sessionService.List(c.Request.Context(), userID)
	if err != nil {
		h.responder.respond(c, err)
		return
	}

	respondOK(c, "Sessions retrieved successfully", response)
}

// RevokeAll hard-deletes every session of the user
// @Summary Revoke all of a user's sessions
// @Tags sessions
// @Security BearerAuth
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /users/{id}/sessions [delete]
func (h *SessionHandler) RevokeAll(c *gin.Context) {
	userID, ok := h.authorizeOwnerOrAdmin(c)
	if !ok {
		return
	}

	count, err := h.sessionService.RevokeAll(c.Request.Context(), userID)
	if err != nil {
		h.responder.respond(c, err)
		return
	}

	respondOK(c, "Sessions revoked successfully", dto.RevokeAllResponse{
		UserID:          userID,
		SessionsRevoked: count,
	})
}

// Revoke hard-deletes one session by id
// @Summary Revoke a session
// @Tags sessions
// @Security BearerAuth
// @Produce json
// @Param id path int true "Session ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /sessions/{id} [delete]
func (h *SessionHandler) Revoke(c *gin.Context) {
	sessionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "Invalid session id")
		return
	}

	callerID, ok := currentUserID(c)
	if !ok {
		abortUnauthorized(c, "Authentication required")
		return
	}

	if err := h.sessionService.Revoke(c.Request.Context(), sessionID, callerID, isAdminRequest(c)); err != nil {
		h.responder.respond(c, err)
		return
	}

	respondOK(c, "Session revoked successfully", nil)
}

func (h *SessionHandler) authorizeOwnerOrAdmin(c *gin.Context) (int64, bool) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "Invalid user id")
		return 0, false
	}

	callerID, ok := currentUserID(c)
	if !ok {
		abortUnauthorized(c, "Authentication required")
		return 0, false
	}

	if callerID != userID && !isAdminRequest(c) {
		abortForbidden(c)
		return 0, false
	}

	return userID, true
}
