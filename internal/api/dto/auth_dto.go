package dto

import "time"

// ManagerLoginRequest payload.
type ManagerLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ManagerLoginResponse carries the issued token.
type ManagerLoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Manager   Manager   `json:"manager"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Manager is the public view of a manager account.
type Manager struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
