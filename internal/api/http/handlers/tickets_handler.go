package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// TicketsHandler exposes the conversation endpoints.
type TicketsHandler struct {
	conversations *service.ConversationService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(conversations *service.ConversationService) *TicketsHandler {
	return &TicketsHandler{conversations: conversations}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.TelegramUserID == 0 || strings.TrimSpace(req.Message) == "" {
		return apperrors.NewValidationError("telegramUserId and message required", nil)
	}

	user := domain.UserInfo{UserID: req.TelegramUserID, UserName: req.UserName}
	result, err := h.conversations.CreateTicket(c.UserContext(), user, req.Message)
	if err != nil {
		return err
	}

	if result.NeedsClarification {
		return c.JSON(dto.CreateTicketResponse{
			NeedsClarification: true,
			Suggestion:         result.Suggestion,
			Missing:            result.Missing,
		})
	}

	resp := dto.CreateTicketResponse{Category: result.Category}
	ticket := dto.NewTicketResponse(result.Ticket)
	resp.Ticket = &ticket
	if result.AIReply != nil {
		reply := dto.NewMessageResponse(result.AIReply)
		resp.AIReply = &reply
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	var userID *int64
	if raw := c.Query("user_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return apperrors.NewValidationError("user_id must be an integer", nil)
		}
		userID = &parsed
	}

	summaries, err := h.conversations.ListTickets(c.UserContext(), userID)
	if err != nil {
		return err
	}
	items := make([]dto.TicketSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		items = append(items, dto.NewTicketSummaryResponse(s))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	limit := c.QueryInt("limit", 0)
	offset := c.QueryInt("offset", 0)

	ticket, msgs, total, err := h.conversations.GetTicket(c.UserContext(), id, limit, offset)
	if err != nil {
		return err
	}
	messages := make([]dto.MessageResponse, 0, len(msgs))
	for i := range msgs {
		messages = append(messages, dto.NewMessageResponse(&msgs[i]))
	}
	return c.JSON(dto.TicketDetailResponse{
		Ticket:   dto.NewTicketResponse(ticket),
		Messages: messages,
		Total:    total,
	})
}

// AppendMessage POST /tickets/:id/messages.
func (h *TicketsHandler) AppendMessage(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.AppendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	role := domain.SenderRole(req.SenderRole)
	if !domain.ValidSenderRole(role) {
		return apperrors.NewValidationError("invalid senderRole", map[string]any{"senderRole": req.SenderRole})
	}
	if strings.TrimSpace(req.Content) == "" && req.MediaType == nil {
		return apperrors.NewValidationError("content or media required", nil)
	}

	var attachment *domain.Attachment
	if req.MediaType != nil {
		kind := domain.AttachmentKind(*req.MediaType)
		if kind != domain.AttachmentPhoto && kind != domain.AttachmentVideo {
			return apperrors.NewValidationError("invalid mediaType", map[string]any{"mediaType": *req.MediaType})
		}
		attachment = &domain.Attachment{Kind: kind}
		if req.MediaURL != nil {
			attachment.URL = *req.MediaURL
		}
		if req.MediaFileID != nil {
			attachment.FileID = *req.MediaFileID
		}
	}

	msg, err := h.conversations.AppendMessage(c.UserContext(), id, role, req.SenderID, req.Content, attachment)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewMessageResponse(msg))
}

// UpdateStatus PATCH /tickets/:id/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.conversations.UpdateStatus(c.UserContext(), id, domain.TicketStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketResponse(ticket))
}

// AssignManager PATCH /tickets/:id/assign.
func (h *TicketsHandler) AssignManager(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.AssignManagerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.ManagerID == 0 {
		return apperrors.NewValidationError("managerId required", nil)
	}

	ticket, err := h.conversations.AssignManager(c.UserContext(), id, req.ManagerID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketResponse(ticket))
}

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("id must be a positive integer", nil)
	}
	return id, nil
}
