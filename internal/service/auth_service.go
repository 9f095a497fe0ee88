package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"origiganics/api/internal/config"
	"origiganics/api/internal/ids"
	"origiganics/api/internal/mail"
	"origiganics/api/internal/models"
	"origiganics/api/internal/repository"
	"origiganics/api/internal/security"
	"origiganics/api/internal/verification"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrNotAdmin           = errors.New("not an admin account")
	ErrResetTokenInvalid  = errors.New("invalid or expired reset token")
	ErrAdminUndeletable   = errors.New("admin accounts cannot be deleted")
)

type AuthService struct {
	users  UserStore
	codes  *verification.Service
	sender mail.Sender
	cfg    *config.AppConfig
	log    zerolog.Logger
}

func NewAuthService(
	users UserStore,
	codes *verification.Service,
	sender mail.Sender,
	cfg *config.AppConfig,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:  users,
		codes:  codes,
		sender: sender,
		cfg:    cfg,
		log:    log,
	}
}

type SignupInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Signup creates an unverified customer account and kicks off the
// email-verification flow.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (models.User, error) {
	input.Email = NormalizeEmail(input.Email)
	if input.Email == "" || input.Password == "" {
		return models.User{}, fmt.Errorf("email and password required")
	}

	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return models.User{}, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return models.User{}, err
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:           ids.New(),
		Email:        input.Email,
		PasswordHash: passwordHash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         models.UserRoleCustomer,
		Wishlist:     []string{},
		Addresses:    []models.Address{},
	}

	if err := s.users.Create(ctx, user); err != nil {
		return models.User{}, err
	}

	if err := s.codes.Issue(ctx, user.Email); err != nil {
		// The account exists; the customer can still request a resend.
		s.log.Error().Err(err).Str("email", user.Email).Msg("issue verification code failed")
	}

	return user, nil
}

type LoginResult struct {
	Token string
	User  models.User
}

// Login validates credentials and issues a customer bearer token.
func (s *AuthService) Login(ctx context.Context, email string, password string) (LoginResult, error) {
	email = NormalizeEmail(email)
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return LoginResult{}, ErrInvalidCredentials
	}

	if !user.EmailVerified {
		return LoginResult{}, ErrEmailNotVerified
	}

	token, err := security.IssueSessionToken(
		s.cfg.Security.CustomerJWTSecret,
		user.ID,
		user.Email,
		string(user.Role),
		s.cfg.Security.CustomerTokenTTL,
	)
	if err != nil {
		return LoginResult{}, err
	}

	return LoginResult{Token: token, User: user}, nil
}

// AdminLogin validates credentials against the configured admin
// identity and issues an admin-domain token for the cookie session.
func (s *AuthService) AdminLogin(ctx context.Context, email string, password string) (LoginResult, error) {
	email = NormalizeEmail(email)
	if email != NormalizeEmail(s.cfg.Security.AdminEmail) {
		return LoginResult{}, ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	if !user.Role.IsAdmin() {
		return LoginResult{}, ErrNotAdmin
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, err := security.IssueSessionToken(
		s.cfg.Security.AdminJWTSecret,
		user.ID,
		user.Email,
		"admin",
		s.cfg.Security.AdminTokenTTL,
	)
	if err != nil {
		return LoginResult{}, err
	}

	return LoginResult{Token: token, User: user}, nil
}

// RequestPasswordReset issues a single-use reset token. It never
// reports whether the account exists; callers must return the same
// response on every path.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string, resetURLBase string) error {
	email = NormalizeEmail(email)
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil
		}
		return err
	}

	token, tokenHash, err := security.GenerateResetToken()
	if err != nil {
		return err
	}

	expires := time.Now().Add(s.cfg.Security.ResetTokenTTL)
	if err := s.users.SetResetToken(ctx, user.ID, tokenHash, expires); err != nil {
		return err
	}

	link := fmt.Sprintf("%s?token=%s", resetURLBase, token)
	if err := s.sender.Send(user.Email, "Reset your password", mail.PasswordResetBody(link)); err != nil {
		s.log.Error().Err(err).Str("email", user.Email).Msg("reset mail failed")
		return err
	}
	return nil
}

// ResetPassword consumes a reset token and replaces the password.
func (s *AuthService) ResetPassword(ctx context.Context, token string, password string) error {
	user, err := s.users.FindByResetTokenHash(ctx, security.HashResetToken(token))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrResetTokenInvalid
		}
		return err
	}

	if user.ResetTokenExpires == nil || time.Now().After(*user.ResetTokenExpires) {
		return ErrResetTokenInvalid
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return err
	}

	return s.users.UpdatePassword(ctx, user.ID, passwordHash)
}

// DeleteCustomer removes a customer account. Admin-role accounts are
// never hard-deleted.
func (s *AuthService) DeleteCustomer(ctx context.Context, id string) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user.Role.IsAdmin() {
		return ErrAdminUndeletable
	}
	return s.users.Delete(ctx, id)
}

func NormalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}
