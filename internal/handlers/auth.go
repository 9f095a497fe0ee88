package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"origiganics/api/internal/middleware"
	"origiganics/api/internal/service"
	"origiganics/api/internal/verification"
)

type signupRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName"`
}

type userResponse struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Role          string `json:"role"`
	EmailVerified bool   `json:"emailVerified"`
}

func (h HandlerSet) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.authService.Signup(c.Request.Context(), service.SignupInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email_already_registered"})
			return
		}
		h.internalError(c, err, "signup failed")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "verification code sent",
		"user": userResponse{
			ID:        user.ID,
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Role:      string(user.Role),
		},
	})
}

type verifyEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6,numeric"`
}

func (h HandlerSet) VerifyEmail(c *gin.Context) {
	var req verifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.codes.Verify(c.Request.Context(), service.NormalizeEmail(req.Email), req.Code)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "email verified"})
	case errors.Is(err, verification.ErrCodeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "no_active_code"})
	case errors.Is(err, verification.ErrCodeExpired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "code_expired"})
	case errors.Is(err, verification.ErrCodeMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": "code_mismatch"})
	default:
		h.internalError(c, err, "verify email failed")
	}
}

type resendCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (h HandlerSet) ResendCode(c *gin.Context) {
	var req resendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.codes.Resend(c.Request.Context(), service.NormalizeEmail(req.Email))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "verification code re-sent"})
	case errors.Is(err, verification.ErrCodeNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": "no_active_code", "message": "please sign up again"})
	default:
		h.internalError(c, err, "resend code failed")
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
		return
	case errors.Is(err, service.ErrEmailNotVerified):
		c.JSON(http.StatusForbidden, gin.H{"error": "email_not_verified"})
		return
	default:
		h.internalError(c, err, "login failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": result.Token,
		"user": userResponse{
			ID:            result.User.ID,
			Email:         result.User.Email,
			FirstName:     result.User.FirstName,
			LastName:      result.User.LastName,
			Role:          string(result.User.Role),
			EmailVerified: result.User.EmailVerified,
		},
	})
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPassword returns the same response whether or not the account
// exists. Only an infrastructure failure changes the status code.
func (h HandlerSet) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resetURLBase := h.cfg.Security.ResetURLBase
	if err := h.authService.RequestPasswordReset(c.Request.Context(), req.Email, resetURLBase); err != nil {
		h.internalError(c, err, "password reset request failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "if an account exists for that email, a reset link has been sent",
	})
}

type resetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

func (h HandlerSet) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.authService.ResetPassword(c.Request.Context(), req.Token, req.Password)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "password updated"})
	case errors.Is(err, service.ErrResetTokenInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_or_expired_token"})
	default:
		h.internalError(c, err, "password reset failed")
	}
}

func (h HandlerSet) Me(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": gin.H{
		"id":            user.ID,
		"email":         user.Email,
		"role":          user.Role,
		"emailVerified": user.EmailVerified,
	}})
}

func currentUser(c *gin.Context) (middleware.CurrentUser, bool) {
	val, exists := c.Get("current_user")
	if !exists {
		return middleware.CurrentUser{}, false
	}
	user, ok := val.(middleware.CurrentUser)
	return user, ok
}

func (h HandlerSet) internalError(c *gin.Context, err error, msg string) {
	h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg(msg)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
}
