package domain

// Manager is a human operator who picks up escalated tickets.
type Manager struct {
	ID           int64
	Name         string
	Email        string
	TelegramID   *int64
	PasswordHash string
	Active       bool
}
