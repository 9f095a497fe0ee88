package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"origiganics/api/internal/middleware"
	"origiganics/api/internal/repository"
	"origiganics/api/internal/security"
	"origiganics/api/internal/service"
)

type adminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h HandlerSet) AdminLogin(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authService.AdminLogin(c.Request.Context(), req.Email, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrNotAdmin):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
		return
	default:
		h.internalError(c, err, "admin login failed")
		return
	}

	h.setAdminCookie(c, result.Token, h.cfg.Security.AdminTokenTTL)
	c.JSON(http.StatusOK, gin.H{
		"message": "logged in",
		"user": gin.H{
			"email": result.User.Email,
			"role":  string(result.User.Role),
		},
	})
}

// AdminVerify reports whether the adminAuth cookie carries a valid
// session for the configured admin principal.
func (h HandlerSet) AdminVerify(c *gin.Context) {
	tokenStr, err := c.Cookie(middleware.AdminCookieName)
	if err != nil || tokenStr == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing_admin_session"})
		return
	}

	claims, err := security.VerifyAdminToken(tokenStr, h.cfg.Security.AdminJWTSecret, h.cfg.Security.AdminEmail)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_admin_session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"email":  claims.Email,
		"role":   claims.Role,
		"userId": claims.UserID,
	})
}

// AdminLogout clears the session by overwriting the cookie with one
// that is already expired.
func (h HandlerSet) AdminLogout(c *gin.Context) {
	h.setAdminCookie(c, "", -time.Hour)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h HandlerSet) setAdminCookie(c *gin.Context, value string, ttl time.Duration) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middleware.AdminCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   h.cfg.Environment == "production",
		SameSite: http.SameSiteStrictMode,
	})
}

func (h HandlerSet) AdminListCustomers(c *gin.Context) {
	limit := 50
	offset := 0

	if perPage := c.Query("perPage"); perPage != "" {
		if v, err := strconv.Atoi(perPage); err == nil && v > 0 && v <= 200 {
			limit = v
		}
	}
	if page := c.Query("page"); page != "" {
		if v, err := strconv.Atoi(page); err == nil && v > 1 {
			offset = (v - 1) * limit
		}
	}

	customers, err := h.users.ListCustomers(c.Request.Context(), limit, offset)
	if err != nil {
		h.internalError(c, err, "list customers failed")
		return
	}

	items := make([]gin.H, 0, len(customers))
	for _, user := range customers {
		items = append(items, gin.H{
			"id":            user.ID,
			"email":         user.Email,
			"firstName":     user.FirstName,
			"lastName":      user.LastName,
			"emailVerified": user.EmailVerified,
			"createdAt":     user.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h HandlerSet) AdminDeleteCustomer(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id required"})
		return
	}

	err := h.authService.DeleteCustomer(c.Request.Context(), id)
	switch {
	case err == nil:
		c.Status(http.StatusNoContent)
	case errors.Is(err, service.ErrAdminUndeletable):
		c.JSON(http.StatusForbidden, gin.H{"error": "admin_accounts_cannot_be_deleted"})
	case errors.Is(err, repository.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user_not_found"})
	default:
		h.internalError(c, err, "delete customer failed")
	}
}
