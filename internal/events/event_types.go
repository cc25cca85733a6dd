package events

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventMessageAdded        EventType = "message_added"
	EventTicketEscalated     EventType = "ticket_escalated"
	EventTicketStatusChanged EventType = "ticket_status_changed"
)

// Event represents a domain event emitted by the orchestrator.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  int64       `json:"ticket_id"`
	UserID    int64       `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	TicketNumber string `json:"ticket_number"`
	Category     string `json:"category"`
}

// MessageAddedPayload payload.
type MessageAddedPayload struct {
	MessageID   int64             `json:"message_id"`
	SenderRole  domain.SenderRole `json:"sender_role"`
	BodyPreview string            `json:"body_preview"`
	HasMedia    bool              `json:"has_media"`
}

// TicketEscalatedPayload payload.
type TicketEscalatedPayload struct {
	TicketNumber string  `json:"ticket_number"`
	Confidence   float64 `json:"confidence"`
	Notified     bool    `json:"notified"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}
