package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"origiganics/api/internal/config"
	"origiganics/api/internal/mail"
	"origiganics/api/internal/middleware"
	"origiganics/api/internal/ratelimit"
	"origiganics/api/internal/repository"
	"origiganics/api/internal/service"
	"origiganics/api/internal/session"
	"origiganics/api/internal/verification"
)

type HandlerSet struct {
	log           zerolog.Logger
	cfg           *config.AppConfig
	authService   *service.AuthService
	codes         *verification.Service
	users         service.UserStore
	resendLimiter ratelimit.Limiter
	sessions      *session.Tracker
	db            *pgxpool.Pool
	cache         *redis.Client
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	sender := mail.NewSMTPSender(cfg.SMTP, log)

	var codeStore verification.CodeStore
	var resendLimiter ratelimit.Limiter
	if cfg.Store.Backend == "redis" {
		codeStore = verification.NewRedisStore(cache)
		resendLimiter = ratelimit.NewRedisLimiter(cache, cfg.RateLimit.ResendMax, cfg.RateLimit.ResendWindow, "rl:resend")
	} else {
		codeStore = verification.NewMemoryStore()
		resendLimiter = ratelimit.NewMemoryLimiter(cfg.RateLimit.ResendMax, cfg.RateLimit.ResendWindow)
	}

	codes := verification.NewService(codeStore, userRepo, sender, cfg.Security.VerifyCodeTTL, log)
	auth := service.NewAuthService(userRepo, codes, sender, cfg, log)
	sessions := session.NewTracker(session.Config{
		Timeout:     cfg.Session.Timeout,
		WarningLead: cfg.Session.WarningLead,
	}, session.SystemScheduler())

	return HandlerSet{
		log:           log,
		cfg:           cfg,
		authService:   auth,
		codes:         codes,
		users:         userRepo,
		resendLimiter: resendLimiter,
		sessions:      sessions,
		db:            db,
		cache:         cache,
	}
}

// loader adapts the user store to the middleware's re-read hook.
type loader struct {
	users service.UserStore
}

func (l loader) LoadUser(c *gin.Context, userID string) (middleware.CurrentUser, error) {
	user, err := l.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		return middleware.CurrentUser{}, err
	}
	return middleware.CurrentUser{
		ID:            user.ID,
		Email:         user.Email,
		Role:          string(user.Role),
		EmailVerified: user.EmailVerified,
	}, nil
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	users := loader{users: h.users}

	v1 := router.Group("/v1")
	{
		auth := v1.Group("/auth")
		auth.POST("/signup", h.Signup)
		auth.POST("/verify-email", h.VerifyEmail)
		auth.POST("/resend-code", middleware.RateLimit(h.resendLimiter), h.ResendCode)
		auth.POST("/login", h.Login)
		auth.POST("/forgot-password", h.ForgotPassword)
		auth.POST("/reset-password", h.ResetPassword)

		protected := v1.Group("/auth")
		protected.Use(middleware.Auth(h.cfg, users))
		// Reading session state is not activity; a polled warning must
		// stay visible until the client extends or acts.
		protected.GET("/session", h.SessionState)
		protected.POST("/session/extend", h.ExtendSession)

		active := protected.Group("")
		active.Use(h.trackActivity())
		active.GET("/me", h.Me)
	}

	profile := v1.Group("")
	profile.Use(middleware.Auth(h.cfg, users), h.trackActivity())
	profile.PUT("/profile/addresses", h.UpdateAddresses)
	profile.POST("/wishlist/:productId", h.AddToWishlist)
	profile.DELETE("/wishlist/:productId", h.RemoveFromWishlist)

	admin := v1.Group("/admin")
	admin.POST("/login", h.AdminLogin)
	admin.POST("/logout", h.AdminLogout)
	admin.GET("/verify", h.AdminVerify)

	adminAPI := v1.Group("/admin")
	adminAPI.Use(middleware.AdminAuth(h.cfg, users))
	adminAPI.GET("/customers", h.AdminListCustomers)
	adminAPI.DELETE("/customers/:id", h.AdminDeleteCustomer)
}
