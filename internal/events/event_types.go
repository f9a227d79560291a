package events

import (
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventComplaintSubmitted     EventType = "complaint_submitted"
	EventComplaintStatusChanged EventType = "complaint_status_changed"
	EventComplaintDeleted       EventType = "complaint_deleted"
)

// Actor encapsulates actor metadata for an event. Anonymous submissions carry an empty ID.
type Actor struct {
	Type domain.SubjectType `json:"type,omitempty"`
	ID   string             `json:"id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	ComplaintID string      `json:"complaint_id"`
	Actor       Actor       `json:"actor"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// ComplaintSubmittedPayload payload.
type ComplaintSubmittedPayload struct {
	Category     string `json:"category"`
	Urgency      string `json:"urgency"`
	ContactEmail string `json:"contact_email"`
	Status       string `json:"status"`
}

// ComplaintStatusChangedPayload payload. Notified is false when no user matched the contact email.
type ComplaintStatusChangedPayload struct {
	NewStatus    string `json:"new_status"`
	Feedback     string `json:"feedback"`
	ContactEmail string `json:"contact_email"`
	Notified     bool   `json:"notified"`
}

// ComplaintDeletedPayload payload.
type ComplaintDeletedPayload struct {
	ContactEmail string `json:"contact_email"`
}
