package middleware

import (
	"net/http"
	"strings"

	"boardsync/internal/core/domain"
	"boardsync/internal/core/ports"
	"boardsync/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
)

// AuthMiddleware resolves the bearer credential into an identity and
// stores it in the gin context. Requests without a decodable credential
// get 401.
func AuthMiddleware(identity ports.IdentityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		resolved, err := identity.Resolve(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credential"})
			c.Abort()
			return
		}

		c.Set(ContextUserID, domain.UserID(resolved.Username))
		c.Set(ContextUsername, resolved.Username)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), resolved.Username))
		c.Next()
	}
}

// UserFromContext returns the authenticated user id placed there by
// AuthMiddleware.
func UserFromContext(c *gin.Context) (domain.UserID, bool) {
	v, exists := c.Get(ContextUserID)
	if !exists {
		return "", false
	}
	userID, ok := v.(domain.UserID)
	return userID, ok
}
