package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
// new is the initial state at creation; closed is terminal. The
// ai_processing -> escalated transition is driven by the orchestrator,
// everything else arrives as an external (manager) status write.
type TicketStatus string

const (
	TicketStatusNew          TicketStatus = "new"
	TicketStatusAIProcessing TicketStatus = "ai_processing"
	TicketStatusEscalated    TicketStatus = "escalated"
	TicketStatusResolved     TicketStatus = "resolved"
	TicketStatusClosed       TicketStatus = "closed"
)

// ValidTicketStatus reports whether s is a known status value.
func ValidTicketStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusNew, TicketStatusAIProcessing, TicketStatusEscalated, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// Ticket is the aggregate for support conversations.
type Ticket struct {
	ID                int64
	Number            string
	UserID            int64
	UserName          string
	Status            TicketStatus
	AssignedManagerID *int64
	AISummary         *string
	EscalatedAt       *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TicketSummary is the listing projection with a first-message preview.
type TicketSummary struct {
	Ticket
	FirstMessage string
	MessageCount int
}

// UserInfo identifies the messaging-platform user behind a ticket.
type UserInfo struct {
	UserID   int64
	UserName string
}
