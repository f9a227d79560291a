package domain

import "time"

// Notification is an entry in a user's notification feed.
type Notification struct {
	ID        string
	UserID    string
	Message   string
	Read      bool
	CreatedAt time.Time
}
