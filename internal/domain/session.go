package domain

import "time"

// Session is per-user routing state: which ticket receives the user's
// next message, whether that message answers a clarification prompt,
// and a single-slot buffer for media sent before its ticket exists.
type Session struct {
	UserID                int64     `json:"user_id"`
	ActiveTicketID        *int64    `json:"active_ticket_id"`
	AwaitingClarification bool      `json:"awaiting_clarification"`
	OriginalMessage       string    `json:"original_message"`
	PendingMediaType      *string   `json:"pending_media_type"`
	PendingMediaURL       *string   `json:"pending_media_url"`
	PendingMediaFileID    *string   `json:"pending_media_file_id"`
	PendingMediaCaption   *string   `json:"pending_media_caption"`
	UpdatedAt             time.Time `json:"updated_at"`
}
