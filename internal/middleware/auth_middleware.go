package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resto_pos_terminal/pkg/utils"
)

// Context keys set by AuthMiddleware.
const (
	ContextPrincipal   = "principal"
	ContextDisplayName = "displayName"
	ContextRole        = "userRole"
)

// SessionVerifier tells whether a token's session id is still the signed-in one.
type SessionVerifier interface {
	SessionActive(sessionID string) bool
}

// BearerToken returns the token of an "Authorization: Bearer" header.
func BearerToken(c *gin.Context) (string, bool) {
	scheme, tokenString, found := strings.Cut(c.GetHeader("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "bearer") || tokenString == "" {
		return "", false
	}
	return tokenString, true
}

// AuthMiddleware validates the terminal access token and exposes its claims on the context.
// Tokens of a session that has since been logged out or replaced are rejected.
func AuthMiddleware(sessions SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authorization header required", ""))
			return
		}

		tokenString, ok := BearerToken(c)
		if !ok {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid authorization header format. Use Bearer <token>", ""))
			return
		}

		claims, err := utils.ValidateToken(tokenString)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid or expired token", err.Error()))
			return
		}
		if sessions != nil && !sessions.SessionActive(claims.ID) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Session has ended", ""))
			return
		}

		c.Set(ContextPrincipal, claims.Principal)
		c.Set(ContextDisplayName, claims.DisplayName)
		c.Set(ContextRole, claims.Role)

		c.Next()
	}
}

// RoleAuthMiddleware allows the request through only for the listed roles.
// AuthMiddleware must run first.
func RoleAuthMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextRole)
		if role == "" {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "User role not found in token claims", ""))
			return
		}

		for _, r := range allowedRoles {
			if strings.EqualFold(role, r) {
				c.Next()
				return
			}
		}
		utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden,
			"You do not have permission to access this resource", "required roles: "+strings.Join(allowedRoles, ", ")))
	}
}
