package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"origiganics/api/internal/config"
	"origiganics/api/internal/security"
)

// AdminCookieName is the admin session cookie. It is httpOnly,
// SameSite=Strict, Secure outside development, and cleared by
// overwriting it with an already-expired cookie of the same name/path.
const AdminCookieName = "adminAuth"

// AdminAuth guards back-office API routes. Beyond signature and expiry,
// the claims must name the configured admin principal, and the role is
// re-read from storage rather than trusted from the token.
func AdminAuth(cfg *config.AppConfig, users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(AdminCookieName)
		if err != nil || tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_admin_session"})
			return
		}

		claims, err := security.VerifyAdminToken(tokenStr, cfg.Security.AdminJWTSecret, cfg.Security.AdminEmail)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_admin_session"})
			return
		}

		user, err := users.LoadUser(c, claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user_not_found"})
			return
		}
		if user.Role != "admin" && user.Role != "super_admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		c.Set("session_claims", *claims)
		c.Set("current_user", user)

		c.Next()
	}
}
