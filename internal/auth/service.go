package auth

import (
	"context"
	"strings"
	"time"

	"clothing-store/internal/metrics"
	"clothing-store/internal/model"
	"clothing-store/internal/repository"

	"github.com/rs/zerolog"
)

// LoginRequest is the body of a login call.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      model.UserView
}

// Service authenticates admins and checks session tokens.
type Service interface {
	// Login verifies credentials and issues a session token.
	Login(ctx context.Context, email, password string) (*LoginResult, error)

	// Verify reports whether token is a valid session token.
	Verify(token string) bool

	// ParseToken returns the claims of a valid token.
	ParseToken(token string) (*Claims, error)
}

type service struct {
	users  repository.UserRepository
	tokens *TokenManager
	logger zerolog.Logger
}

// NewService creates a new auth service.
func NewService(users repository.UserRepository, tokens *TokenManager, logger zerolog.Logger) Service {
	return &service{
		users:  users,
		tokens: tokens,
		logger: logger.With().Str("service", "auth").Logger(),
	}
}

func (s *service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, model.ErrMissingCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to look up user")
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		return nil, model.NewStorageError("Server error during login", err)
	}

	if user == nil {
		burnPasswordCheck(password)
		s.logger.Warn().Msg("login attempt for unknown account")
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		return nil, model.ErrInvalidCredentials
	}

	if !CheckPassword(user.PasswordHash, password) {
		s.logger.Warn().Str("user_id", user.ID).Msg("login attempt with wrong password")
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		return nil, model.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Generate(user.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("failed to issue token")
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		return nil, model.NewStorageError("Server error during login", err)
	}

	s.logger.Info().Str("user_id", user.ID).Msg("admin logged in")
	metrics.LoginAttempts.WithLabelValues("success").Inc()

	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user.View(),
	}, nil
}

func (s *service) Verify(token string) bool {
	if token == "" {
		return false
	}
	_, err := s.tokens.Validate(token)
	return err == nil
}

func (s *service) ParseToken(token string) (*Claims, error) {
	if token == "" {
		return nil, model.ErrAuthRequired
	}

	claims, err := s.tokens.Validate(token)
	if err != nil {
		s.logger.Debug().Err(err).Msg("rejected session token")
		return nil, model.ErrInvalidToken.Wrap(err)
	}
	return claims, nil
}
