package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gamarriando/user-service/internal/dto"
	"github.com/gamarriando/user-service/internal/service"
)

// UserHandler handles user profile requests
type UserHandler struct {
	userService service.UserService
	responder   *ErrorResponder
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService service.UserService, responder *ErrorResponder) *UserHandler {
	return &UserHandler{
		userService: userService,
		responder:   responder,
	}
}

// List returns a filtered page of users
// @Summary List users
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Param is_verified query bool false "Filter by verified status"
// @Param is_admin query bool false "Filter by admin status"
// @Param search query string false "Match against email, username and names"
// @Success 200 {object} dto.SuccessResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	params := service.ListUsersParams{
		Search: c.Query("search"),
	}

	if limit := c.Query("limit"); limit != "" {
		value, err := strconv.Atoi(limit)
		if err != nil {
			respondBadRequest(c, "Invalid limit")
			return
		}
		params.Limit = value
	}
	if offset := c.Query("offset"); offset != "" {
		value, err := strconv.Atoi(offset)
		if err != nil {
			respondBadRequest(c, "Invalid offset")
			return
		}
		params.Offset = value
	}
	if verified := c.Query("is_verified"); verified != "" {
		value, err := strconv.ParseBool(verified)
		if err != nil {
			respondBadRequest(c, "Invalid is_verified")
			return
		}
		params.IsVerified = &value
	}
	if admin := c.Query("is_admin"); admin != "" {
		value, err := strconv.ParseBool(admin)
		if err != nil {
			respondBadRequest(c, "Invalid is_admin")
			return
		}
		params.IsAdmin = &value
	}

	response, err := h.userService.List(c.Request.Context(), params)
	if err != nil {
		h.responder.respond(c, err)
		return
	}

	respondOK(c, "Users retrieved successfully", response)
}

// Me returns the caller's own profile
// @Summary Get the current user's profile
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.SuccessResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		abortUnauthorized(c, "Authentication required")
		return
	}

	response, err := h.userService.Get(c.Request.Context(), userID)
	if err != nil {
		h.responder.respond(c, err)
		return
	}

	respondOK(c, "User retrieved successfully", response)
}

// Get returns one user's profile. Callers can read their own profile;
// reading someone else's requires the admin role.
// @Summary Get a user
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	userID, ok := h.authorizeOwnerOrAdmin(c)
	if !ok {
		return
	}

	response, err := h.userService.Get(c.Request.Context(), userID)
	if err != nil {
		h.responder.respond(c, err)
		return
	}

	respondOK(c, "User retrieved successfully", response)
}

// Update applies a partial profile update
// @Summary Update a user's profile
// @Tags users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body dto.UpdateUserRequest true "Profile update"
// @Success 200 {object} dto.SuccessResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	userID, ok := h.authorizeOwnerOrAdmin(c)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	response, err := h.userService.Update(c.Request.Context(), userID, &req)
	if err != nil {
		h.responder.respond(c, err)
		return
	}

	respondOK(c, "User updated successfully", response)
}

// ChangePassword sets a new password for the user. Owners must present their
// current password; admins changing another account's password do not.
// @Summary Change a user's password
// @Tags users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body dto.ChangePasswordRequest true "Password change"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /users/{id}/change-password [post]
func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, ok := h.authorizeOwnerOrAdmin(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	callerID, _ := currentUserID(c)
	selfService := callerID == userID
	if selfService && req.CurrentPassword == "" {
		respondBadRequest(c, "Current password is required")
		return
	}

	if err := h.userService.ChangePassword(c.Request.Context(), userID, &req, selfService); err != nil {
		h.responder.respond(c, err)
		return
	}

	respondOK(c, "Password changed successfully", nil)
}

// Deactivate soft-deletes a user account
// @Summary Deactivate a user
// @Tags users
// @Security BearerAuth
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /users/{id} [delete]
func (h *UserHandler) Deactivate(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "Invalid user id")
		return
	}

	callerID, ok := currentUserID(c)
	if !ok {
		abortUnauthorized(c, "Authentication required")
		return
	}

	if err := h.userService.Deactivate(c.Request.Context(), userID, callerID); err != nil {
		h.responder.respond(c, err)
		return
	}

	respondOK(c, "User deactivated successfully", nil)
}

// authorizeOwnerOrAdmin parses the path user id and enforces that the caller
// is either that user or holds the admin role. It writes the response on
// failure.
func (h *UserHandler) authorizeOwnerOrAdmin(c *gin.Context) (int64, bool) {
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
