package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// AuthHandler exposes manager login.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login POST /auth/managers/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.ManagerLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	manager, token, expiresAt, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.ManagerLoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Manager: dto.Manager{
			ID:    manager.ID,
			Name:  manager.Name,
			Email: manager.Email,
		},
	})
}

// ChangePassword POST /auth/managers/password.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Manager == nil {
		return apperrors.NewUnauthorized("manager required")
	}

	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.CurrentPassword == "" || len(req.NewPassword) < 8 {
		return apperrors.NewValidationError("currentPassword required; newPassword must be at least 8 characters", nil)
	}

	if err := h.auth.ChangePassword(c.UserContext(), principal.Manager.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": "password updated"})
}
