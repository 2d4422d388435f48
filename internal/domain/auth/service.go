package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"invoicedesk/internal/core/apperror"
	"invoicedesk/pkg/logger"
)

// Credentials is the login request.
type Credentials struct {
	Username string
	Password string
}

// ServiceConfig holds the administrator account.
type ServiceConfig struct {
	Username     string
	PasswordHash []byte // bcrypt
}

// HashPassword produces a bcrypt hash suitable for ServiceConfig.PasswordHash.
func HashPassword(password string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

// Service implements the login flow that maintains the flag.
type Service struct {
	flags  *FlagStore
	config ServiceConfig
}

// NewService creates a new auth service.
func NewService(flags *FlagStore, config ServiceConfig) *Service {
	return &Service{flags: flags, config: config}
}

// Login checks the administrator credentials and sets the flag.
func (s *Service) Login(ctx context.Context, creds Credentials) error {
	if strings.TrimSpace(creds.Username) == "" || creds.Password == "" {
		return apperror.NewValidation("username and password are required")
	}
	if len(s.config.PasswordHash) == 0 {
		return apperror.NewUnauthorized("login is disabled")
	}

	userOK := subtle.ConstantTimeCompare([]byte(creds.Username), []byte(s.config.Username)) == 1
	passErr := bcrypt.CompareHashAndPassword(s.config.PasswordHash, []byte(creds.Password))
	if !userOK || passErr != nil {
		logger.Warn(ctx, "login rejected", "username", creds.Username)
		return apperror.NewUnauthorized("invalid credentials")
	}

	if err := s.flags.Set(ctx); err != nil {
		return apperror.NewInternal(err)
	}
	logger.Info(ctx, "admin logged in", "username", creds.Username)
	return nil
}

// Logout clears the flag. It succeeds when the flag is already absent.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.flags.Clear(ctx); err != nil {
		return apperror.NewInternal(err)
	}
	logger.Info(ctx, "admin logged out")
	return nil
}

// IsAuthenticated exposes the current flag value.
func (s *Service) IsAuthenticated(ctx context.Context) (bool, error) {
	return s.flags.IsAuthenticated(ctx)
}
