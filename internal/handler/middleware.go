package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gamarriando/user-service/internal/domain"
	"github.com/gamarriando/user-service/internal/dto"
	"github.com/gamarriando/user-service/internal/utils"
)

const (
	contextKeyUserID = "user_id"
	contextKeyClaims = "claims"
)

// AuthMiddleware validates the bearer token and adds the caller's identity
// to the request context. Only access tokens pass; a refresh token presented
// here is rejected.
func AuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Authorization header is required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "Invalid authorization header format")
			return
		}

		claims, err := jwtManager.Verify(parts[1])
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		if claims.TokenType != domain.TokenTypeAccess {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(contextKeyUserID, claims.UserID)
		c.Set(contextKeyClaims, claims)

		c.Next()
	}
}

// RequireRoles only lets through callers whose token carries at least one of
// the given roles. Authorization is decided on the roles embedded at token
// issuance, not on the current store contents.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentClaims(c)
		if !ok {
			abortUnauthorized(c, "Authentication required")
			return
		}

		for _, role := range roles {
			if claims.HasRole(role) {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, dto.ErrorResponse{
			Message: "Insufficient permissions",
			Error:   http.StatusText(http.StatusForbidden),
		})
		c.Abort()
	}
}

func abortForbidden(c *gin.Context) {
	c.JSON(http.StatusForbidden, dto.ErrorResponse{
		Message: "Insufficient permissions",
		Error:   http.StatusText(http.StatusForbidden),
	})
	c.Abort()
}

func abortUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
		Message: message,
		Error:   http.StatusText(http.StatusUnauthorized),
	})
	c.Abort()
}

func currentUserID(c *gin.Context) (int64, bool) {
	value, exists := c.Get(contextKeyUserID)
	if !exists {
		return 0, false
	}
	userID, ok := value.(int64)
	return userID, ok
}

func currentClaims(c *gin.Context) (*domain.TokenClaims, bool) {
	value, exists := c.Get(contextKeyClaims)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*domain.TokenClaims)
	return claims, ok
}

// isAdminRequest reports whether the caller's token carries the admin role
func isAdminRequest(c *gin.Context) bool {
	claims, ok := currentClaims(c)
	return ok && claims.HasRole(domain.RoleAdmin)
}
