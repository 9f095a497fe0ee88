package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"origiganics/api/internal/config"
	"origiganics/api/internal/security"
)

// UserLoader re-reads the authenticated user so token claims are never
// trusted on their own: the user must still exist, and for admin-gated
// actions the role check runs against the stored record.
type UserLoader interface {
	LoadUser(c *gin.Context, userID string) (CurrentUser, error)
}

type CurrentUser struct {
	ID            string
	Email         string
	Role          string
	EmailVerified bool
}

// Auth guards customer routes. The credential is a bearer token in the
// Authorization header, signed in the customer trust domain.
func Auth(cfg *config.AppConfig, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_token"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := security.ParseSessionToken(tokenStr, cfg.Security.CustomerJWTSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}

		user, err := users.LoadUser(c, claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user_not_found"})
			return
		}

		c.Set("session_claims", *claims)
		c.Set("current_user", user)

		c.Next()
	}
}
