package dto

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// UpsertSessionRequest payload. The whole session state is replaced
// atomically.
type UpsertSessionRequest struct {
	TelegramUserID        int64   `json:"telegramUserId"`
	ActiveTicketID        *int64  `json:"activeTicketId,omitempty"`
	AwaitingClarification bool    `json:"awaitingClarification"`
	OriginalMessage       string  `json:"originalMessage"`
	PendingMediaType      *string `json:"pendingMediaType,omitempty"`
	PendingMediaURL       *string `json:"pendingMediaUrl,omitempty"`
	PendingMediaFileID    *string `json:"pendingMediaFileId,omitempty"`
	PendingMediaCaption   *string `json:"pendingMediaCaption,omitempty"`
}

// SessionResponse represents per-user conversation state.
type SessionResponse struct {
	TelegramUserID        int64     `json:"telegramUserId"`
	ActiveTicketID        *int64    `json:"activeTicketId,omitempty"`
	AwaitingClarification bool      `json:"awaitingClarification"`
	OriginalMessage       string    `json:"originalMessage"`
	PendingMediaType      *string   `json:"pendingMediaType,omitempty"`
	PendingMediaURL       *string   `json:"pendingMediaUrl,omitempty"`
	PendingMediaFileID    *string   `json:"pendingMediaFileId,omitempty"`
	PendingMediaCaption   *string   `json:"pendingMediaCaption,omitempty"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// NewSessionResponse maps a domain session.
func NewSessionResponse(s *domain.Session) SessionResponse {
	return SessionResponse{
		TelegramUserID:        s.UserID,
		ActiveTicketID:        s.ActiveTicketID,
		AwaitingClarification: s.AwaitingClarification,
		OriginalMessage:       s.OriginalMessage,
		PendingMediaType:      s.PendingMediaType,
		PendingMediaURL:       s.PendingMediaURL,
		PendingMediaFileID:    s.PendingMediaFileID,
		PendingMediaCaption:   s.PendingMediaCaption,
		UpdatedAt:             s.UpdatedAt,
	}
}

// ToDomain converts the request into a domain session.
func (r UpsertSessionRequest) ToDomain() *domain.Session {
	return &domain.Session{
		UserID:                r.TelegramUserID,
		ActiveTicketID:        r.ActiveTicketID,
		AwaitingClarification: r.AwaitingClarification,
		OriginalMessage:       r.OriginalMessage,
		PendingMediaType:      r.PendingMediaType,
		PendingMediaURL:       r.PendingMediaURL,
		PendingMediaFileID:    r.PendingMediaFileID,
		PendingMediaCaption:   r.PendingMediaCaption,
	}
}
