package middleware

import (
	"net/http"
	"strings"

	"variant-editor-service/common/auth"

	"github.com/gin-gonic/gin"
)

const UserContextKey = "userID"

// AuthMiddleware accepts the identity headers injected by the API gateway, or a bearer
// token signed with secret when the service is called directly.
func AuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		role := c.GetHeader("X-User-Role")

		if userID == "" {
			if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
				claims, err := auth.ParseAndValidateToken(secret, strings.TrimPrefix(header, "Bearer "), "access")
				if err != nil {
					c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
					return
				}
				userID, _ = claims["sub"].(string)
				if userID == "" {
					userID, _ = claims["user_id"].(string)
				}
				role, _ = claims["role"].(string)
			}
		}

		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set(UserContextKey, userID)
		c.Set("role", role)
		c.Next()
	}
}

// AdminOnly restricts access to admin role.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists || role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin role required"})
			return
		}
		c.Next()
	}
}
