package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/praxislegal/trust_accounting_app/internal/apperrors"
	portssvc "github.com/praxislegal/trust_accounting_app/internal/core/ports/services"
	"github.com/praxislegal/trust_accounting_app/internal/dto"
	"github.com/praxislegal/trust_accounting_app/internal/middleware"
	"github.com/praxislegal/trust_accounting_app/internal/utils"
	"github.com/praxislegal/trust_accounting_app/pkg/config"
)

// AuthService verifies credentials and issues JWT access tokens.
type AuthService struct {
	cfg     *config.Config
	userSvc portssvc.UserSvcFacade
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, userSvc portssvc.UserSvcFacade) portssvc.AuthSvcFacade {
	return &AuthService{cfg: cfg, userSvc: userSvc}
}

var _ portssvc.AuthSvcFacade = (*AuthService)(nil)

// Login verifies the email/password pair and returns a signed token.
// Invalid credentials always map to ErrUnauthorized without revealing
// whether the email exists.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userSvc.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to look up user for login: %w", err)
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		logger.Warn("Login failed: password mismatch", slog.String("user_id", user.UserID))
		return nil, apperrors.ErrUnauthorized
	}

	token, expiresAt, err := utils.GenerateJWT(user.UserID, s.cfg.JWTSecret, s.cfg.JWTIssuer, s.cfg.TokenExpiryDuration)
	if err != nil {
		logger.Error("Failed to sign access token", slog.String("error", err.Error()), slog.String("user_id", user.UserID))
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	logger.Info("User logged in", slog.String("user_id", user.UserID))
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      dto.ToUserResponse(user),
	}, nil
}
