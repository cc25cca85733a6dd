package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// SessionsHandler exposes per-user conversation state.
type SessionsHandler struct {
	sessions *service.SessionService
}

// NewSessionsHandler constructs handler.
func NewSessionsHandler(sessions *service.SessionService) *SessionsHandler {
	return &SessionsHandler{sessions: sessions}
}

// GetSession GET /sessions/:user_id. Unknown users get a fresh default
// session rather than a 404.
func (h *SessionsHandler) GetSession(c *fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Params("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		return apperrors.NewValidationError("user_id must be a positive integer", nil)
	}

	session, err := h.sessions.Get(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewSessionResponse(session))
}

// UpsertSession POST /sessions.
func (h *SessionsHandler) UpsertSession(c *fiber.Ctx) error {
	var req dto.UpsertSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.TelegramUserID == 0 {
		return apperrors.NewValidationError("telegramUserId required", nil)
	}

	session := req.ToDomain()
	if err := h.sessions.Save(c.UserContext(), session); err != nil {
		return err
	}
	return c.JSON(dto.NewSessionResponse(session))
}
