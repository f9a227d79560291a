package dto

import (
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// NotificationResponse represents one feed entry.
type NotificationResponse struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// UnreadCountResponse answers GET /notifications/unread-count.
type UnreadCountResponse struct {
	UnreadCount int `json:"unread_count"`
}

// NewNotificationResponse maps a domain notification.
func NewNotificationResponse(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Message:   n.Message,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

// NewNotificationResponses maps a feed.
func NewNotificationResponses(feed []domain.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(feed))
	for i := range feed {
		out = append(out, NewNotificationResponse(&feed[i]))
	}
	return out
}
