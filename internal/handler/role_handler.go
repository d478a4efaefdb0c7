package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gamarriando/user-service/internal/dto"
	"github.com/gamarriando/user-service/internal/service"
)

// RoleHandler handles role grant requests
type RoleHandler struct {
	roleService service.RoleService
	responder   *ErrorResponder
}

// NewRoleHandler creates a new role handler
func NewRoleHandler(roleService service.RoleService, responder *ErrorResponder) *RoleHandler {
	return &RoleHandler{
		roleService: roleService,
		responder:   responder,
	}
}

// List returns a user's active role grants. Users can read their own grants;
// reading someone else's requires the admin role.
// @Summary List a user's roles
// @Tags roles
// @Security BearerAuth
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /users/{id}/roles [get]
func (h *RoleHandler) List(c *gin.Context) {
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
	if callerID != userID && !isAdminRequest(c) {
		abortForbidden(c)
		return
	}

	response, err := h.roleService.List(c.Request.Context(), userID)
	if err != nil {
		h.responder.respond(c, err)
		return
	}

	respondOK(c, "Roles retrieved successfully", response)
}

// Catalog returns the static list of every role the system knows
// @Summary List available roles
// @Tags roles
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.SuccessResponse
// @Router /roles [get]
func (h *RoleHandler) Catalog(c *gin.Context) {
	respondOK(c, "Available roles retrieved successfully", h.roleService.Catalog())
}

// Grant assigns a role to a user
// @Summary Grant a role
// @Tags roles
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body dto.GrantRoleRequest true "Role grant request"
// @Success 201 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /users/{id}/roles [post]
func (h *RoleHandler) Grant(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "Invalid user id")
		return
	}

	var req dto.GrantRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	callerID, ok := currentUserID(c)
	if !ok {
		abortUnauthorized(c, "Authentication required")
		return
	}

	response, err := h.roleService.Grant(c.Request.Context(), userID, req.RoleName, callerID)
	if err != nil {
		h.responder.respond(c, err)
		return
	}

	respondCreated(c, "Role granted successfully", response)
}

// Revoke deactivates one role grant
// @Summary Revoke a role grant
// @Tags roles
// @Security BearerAuth
// @Produce json
// @Param id path int true "User ID"
// @Param grant_id path int true "Grant ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /users/{id}/roles/{grant_id} [delete]
func (h *RoleHandler) Revoke(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "Invalid user id")
		return
	}

	grantID, err := strconv.ParseInt(c.Param("grant_id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "Invalid grant id")
		return
	}

	callerID, ok := currentUserID(c)
	if !ok {
		abortUnauthorized(c, "Authentication required")
		return
	}

	response, err := h.roleService.Revoke(c.Request.Context(), userID, grantID, callerID)
	if err != nil {
		h.responder.respond(c, err)
		return
	}

	respondOK(c, "Role revoked successfully", response)
}
