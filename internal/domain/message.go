package domain

import "time"

// SenderRole indicates who authored a message.
type SenderRole string

const (
	SenderRoleUser    SenderRole = "user"
	SenderRoleAI      SenderRole = "ai"
	SenderRoleManager SenderRole = "manager"
)

// ValidSenderRole reports whether r is a known role.
func ValidSenderRole(r SenderRole) bool {
	return r == SenderRoleUser || r == SenderRoleAI || r == SenderRoleManager
}

// AttachmentKind differentiates media types a user can send.
type AttachmentKind string

const (
	AttachmentPhoto AttachmentKind = "photo"
	AttachmentVideo AttachmentKind = "video"
)

// Attachment stores platform media metadata alongside a message.
type Attachment struct {
	Kind   AttachmentKind
	URL    string
	FileID string
}

// Message is one entry in a ticket timeline. Messages are append-only;
// AIConfidence is set only on AI-authored messages.
type Message struct {
	ID           int64
	TicketID     int64
	SenderRole   SenderRole
	SenderID     string
	Content      string
	Attachment   *Attachment
	AIConfidence *float64
	CreatedAt    time.Time
}
