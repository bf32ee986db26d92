package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/campdir/campdir-api/internal/crypto"
	"github.com/campdir/campdir-api/internal/mailer"
	"github.com/campdir/campdir-api/internal/model"
	"github.com/campdir/campdir-api/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNameRequired       = errors.New("name is required")
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrInvalidRole        = errors.New("role must be user or publisher")
	ErrEmailTaken         = errors.New("email already taken")
	ErrNoUserWithEmail    = errors.New("no user with that email")
	ErrResetTokenInvalid  = errors.New("invalid or expired reset token")
	ErrMailFailed         = errors.New("could not send email")
)

// resetTokenTTL is how long a password reset token stays valid.
const resetTokenTTL = 10 * time.Minute

// AuthService handles registration, login and the password reset flow.
type AuthService struct {
	users     UserStore
	mail      mailer.Sender
	jwtSecret string
	jwtExpiry time.Duration
	appURL    string
	logger    *slog.Logger
}

// NewAuthService creates a new AuthService. appURL is the external base
// URL embedded into reset links.
func NewAuthService(users UserStore, mail mailer.Sender, secret string, expiry time.Duration, appURL string, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:     users,
		mail:      mail,
		jwtSecret: secret,
		jwtExpiry: expiry,
		appURL:    appURL,
		logger:    logger,
	}
}

// Register creates a new user account and returns an auth token. The
// admin role cannot be self-assigned: only user and publisher are
// accepted from registration requests.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.AuthResponse, error) {
	if req.Name == "" {
		return model.AuthResponse{}, ErrNameRequired
	}
	if req.Email == "" {
		return model.AuthResponse{}, ErrEmailRequired
	}
	if req.Password == "" {
		return model.AuthResponse{}, ErrPasswordRequired
	}
	if len(req.Password) < 6 {
		return model.AuthResponse{}, ErrPasswordTooShort
	}

	role := req.Role
	if role == "" {
		role = model.RoleUser
	}
	if role != model.RoleUser && role != model.RolePublisher {
		return model.AuthResponse{}, ErrInvalidRole
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return model.AuthResponse{}, err
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		Role:         role,
		PasswordHash: hash,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return model.AuthResponse{}, ErrEmailTaken
		}
		return model.AuthResponse{}, err
	}

	return s.tokenResponse(user)
}

// Login authenticates a user and returns an auth token. Missing
// credentials, an unknown email and a wrong password all produce the
// same ErrInvalidCredentials so the response does not reveal which
// emails have accounts.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return model.AuthResponse{}, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.AuthResponse{}, ErrInvalidCredentials
		}
		return model.AuthResponse{}, err
	}

	match, err := crypto.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return model.AuthResponse{}, err
	}
	if !match {
		return model.AuthResponse{}, ErrInvalidCredentials
	}

	return s.tokenResponse(user)
}

// GetUser retrieves a user by ID and returns safe user data.
func (s *AuthService) GetUser(ctx context.Context, userID int64) (model.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, ErrNotAuthenticated
		}
		return model.UserResponse{}, err
	}
	return user.ToResponse(), nil
}

// ForgotPassword issues a reset token for the account with the given
// email and mails it. If the mail cannot be sent the token fields are
// rolled back before the failure is reported, so no live token sits in
// the store without having been delivered.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	if email == "" {
		return ErrEmailRequired
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrNoUserWithEmail
		}
		return err
	}

	token, digest, err := crypto.GenerateResetToken()
	if err != nil {
		return err
	}

	if err := s.users.SetResetToken(ctx, user.ID, digest, time.Now().Add(resetTokenTTL)); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/api/v1/auth/resetpassword/%s", s.appURL, token)
	if err := s.mail.Send(user.Email, "Password reset", mailer.ResetPasswordBody(resetURL)); err != nil {
		s.logger.Error("reset mail failed, rolling back token",
			slog.Int64("user_id", user.ID), slog.String("error", err.Error()))
		if clearErr := s.users.ClearResetToken(ctx, user.ID); clearErr != nil {
			s.logger.Error("reset token rollback failed",
				slog.Int64("user_id", user.ID), slog.String("error", clearErr.Error()))
		}
		return fmt.Errorf("%w: %v", ErrMailFailed, err)
	}

	return nil
}

// ResetPassword consumes a reset token and replaces the user's password,
// then logs them in by returning a fresh auth token.
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) (model.AuthResponse, error) {
	if password == "" {
		return model.AuthResponse{}, ErrPasswordRequired
	}
	if len(password) < 6 {
		return model.AuthResponse{}, ErrPasswordTooShort
	}

	user, err := s.users.GetByResetToken(ctx, crypto.HashResetToken(token))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.AuthResponse{}, ErrResetTokenInvalid
		}
		return model.AuthResponse{}, err
	}
	if user.ResetTokenExpiry == nil || time.Now().After(*user.ResetTokenExpiry) {
		return model.AuthResponse{}, ErrResetTokenInvalid
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return model.AuthResponse{}, err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return model.AuthResponse{}, err
	}
	if err := s.users.ClearResetToken(ctx, user.ID); err != nil {
		return model.AuthResponse{}, err
	}

	return s.tokenResponse(user)
}

func (s *AuthService) tokenResponse(user *model.User) (model.AuthResponse, error) {
	token, err := crypto.GenerateToken(user.ID, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		return model.AuthResponse{}, err
	}
	return model.AuthResponse{Token: token, User: user.ToResponse()}, nil
}
