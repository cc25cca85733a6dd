package dto

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	TelegramUserID int64  `json:"telegramUserId"`
	UserName       string `json:"userName"`
	Message        string `json:"message"`
}

// CreateTicketResponse covers both outcomes of a create attempt: a
// clarification ask (no ticket) or a created ticket with the first AI
// reply.
type CreateTicketResponse struct {
	NeedsClarification bool             `json:"needsClarification"`
	Suggestion         string           `json:"suggestion,omitempty"`
	Missing            []string         `json:"missing,omitempty"`
	Ticket             *TicketResponse  `json:"ticket,omitempty"`
	Category           string           `json:"category,omitempty"`
	AIReply            *MessageResponse `json:"aiReply,omitempty"`
}

// AppendMessageRequest payload.
type AppendMessageRequest struct {
	SenderRole  string  `json:"senderRole"`
	SenderID    string  `json:"senderId"`
	Content     string  `json:"content"`
	MediaType   *string `json:"mediaType,omitempty"`
	MediaURL    *string `json:"mediaUrl,omitempty"`
	MediaFileID *string `json:"mediaFileId,omitempty"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// AssignManagerRequest payload.
type AssignManagerRequest struct {
	ManagerID int64 `json:"managerId"`
}

// TicketResponse represents a ticket.
type TicketResponse struct {
	ID                int64      `json:"id"`
	TicketNumber      string     `json:"ticketNumber"`
	TelegramUserID    int64      `json:"telegramUserId"`
	UserName          string     `json:"userName"`
	Status            string     `json:"status"`
	AssignedManagerID *int64     `json:"assignedManagerId,omitempty"`
	AISummary         *string    `json:"aiSummary,omitempty"`
	EscalatedAt       *time.Time `json:"escalatedAt,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// TicketSummaryResponse is a list entry with a first-message preview.
type TicketSummaryResponse struct {
	TicketResponse
	FirstMessage string `json:"firstMessage"`
	MessageCount int    `json:"messageCount"`
}

// MessageResponse represents a stored message.
type MessageResponse struct {
	ID           int64     `json:"id"`
	TicketID     int64     `json:"ticketId"`
	SenderRole   string    `json:"senderRole"`
	SenderID     string    `json:"senderId"`
	Content      string    `json:"content"`
	MediaType    *string   `json:"mediaType,omitempty"`
	MediaURL     *string   `json:"mediaUrl,omitempty"`
	MediaFileID  *string   `json:"mediaFileId,omitempty"`
	AIConfidence *float64  `json:"aiConfidence,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// TicketDetailResponse bundles a ticket with its timeline.
type TicketDetailResponse struct {
	Ticket   TicketResponse    `json:"ticket"`
	Messages []MessageResponse `json:"messages"`
	Total    int               `json:"total"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:                t.ID,
		TicketNumber:      t.Number,
		TelegramUserID:    t.UserID,
		UserName:          t.UserName,
		Status:            string(t.Status),
		AssignedManagerID: t.AssignedManagerID,
		AISummary:         t.AISummary,
		EscalatedAt:       t.EscalatedAt,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
}

// NewMessageResponse maps a domain message.
func NewMessageResponse(m *domain.Message) MessageResponse {
	resp := MessageResponse{
		ID:           m.ID,
		TicketID:     m.TicketID,
		SenderRole:   string(m.SenderRole),
		SenderID:     m.SenderID,
		Content:      m.Content,
		AIConfidence: m.AIConfidence,
		CreatedAt:    m.CreatedAt,
	}
	if m.Attachment != nil {
		kind := string(m.Attachment.Kind)
		resp.MediaType = &kind
		if m.Attachment.URL != "" {
			url := m.Attachment.URL
			resp.MediaURL = &url
		}
		if m.Attachment.FileID != "" {
			fileID := m.Attachment.FileID
			resp.MediaFileID = &fileID
		}
	}
	return resp
}

// NewTicketSummaryResponse maps a summary row.
func NewTicketSummaryResponse(s domain.TicketSummary) TicketSummaryResponse {
	return TicketSummaryResponse{
		TicketResponse: NewTicketResponse(&s.Ticket),
		FirstMessage:   s.FirstMessage,
		MessageCount:   s.MessageCount,
	}
}
