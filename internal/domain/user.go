package domain

import "time"

// User is an account that submits complaints and receives notifications.
// Admins are users with IsAdmin set; AdminRole optionally labels their duty.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	IsAdmin      bool
	AdminRole    *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Role returns the display role used in profile responses.
func (u *User) Role() string {
	if u.IsAdmin {
		return "admin"
	}
	return "user"
}
