package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// AuthService coordinates manager login.
type AuthService struct {
	managers   repository.ManagerRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, managers repository.ManagerRepository) *AuthService {
	return &AuthService{
		managers:   managers,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// TokenManager exposes the signer so the HTTP layer can build the
// authentication middleware from the same secret.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Login authenticates a manager by email and password. Unknown emails
// and wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Manager, string, time.Time, error) {
	manager, err := s.managers.GetByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, err
	}
	if !manager.Active {
		return nil, "", time.Time{}, apperrors.NewForbidden("manager account disabled")
	}
	if err := auth.ComparePassword(manager.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	token, exp, err := s.tokenMgr.GenerateToken(manager.ID, manager.Email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return manager, token, exp, nil
}

// ChangePassword replaces a manager's password after verifying the
// current one.
func (s *AuthService) ChangePassword(ctx context.Context, managerID int64, current, next string) error {
	manager, err := s.managers.GetByID(ctx, managerID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if err := auth.ComparePassword(manager.PasswordHash, current); err != nil {
		return apperrors.NewUnauthorized("invalid credentials")
	}

	hash, err := auth.HashPassword(next, s.bcryptCost)
	if err != nil {
		return err
	}
	return s.managers.UpdatePassword(ctx, managerID, hash)
}
