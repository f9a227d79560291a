package dto

import (
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// ContactPayload identifies the complainant.
type ContactPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// SubmitComplaintRequest payload. Status and CreatedAt are optional.
type SubmitComplaintRequest struct {
	Category    string         `json:"category"`
	Description string         `json:"description"`
	Urgency     string         `json:"urgency"`
	Contact     ContactPayload `json:"contact"`
	Status      string         `json:"status"`
	CreatedAt   *time.Time     `json:"created_at"`
}

// UpdateStatusRequest payload. Response is accepted as an alias for Feedback.
type UpdateStatusRequest struct {
	Status   string `json:"status"`
	Feedback string `json:"feedback"`
	Response string `json:"response"`
}

// FeedbackText returns whichever feedback field the client sent.
func (r UpdateStatusRequest) FeedbackText() string {
	if r.Feedback != "" {
		return r.Feedback
	}
	return r.Response
}

// ComplaintResponse represents a stored complaint.
type ComplaintResponse struct {
	ID          string         `json:"id"`
	Category    string         `json:"category"`
	Description string         `json:"description"`
	Urgency     string         `json:"urgency"`
	Contact     ContactPayload `json:"contact"`
	Status      string         `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
}

// NewComplaintResponse maps a domain complaint.
func NewComplaintResponse(c *domain.Complaint) ComplaintResponse {
	return ComplaintResponse{
		ID:          c.ID,
		Category:    c.Category,
		Description: c.Description,
		Urgency:     c.Urgency,
		Contact: ContactPayload{
			Name:  c.Contact.Name,
			Email: c.Contact.Email,
			Phone: c.Contact.Phone,
		},
		Status:    c.Status,
		CreatedAt: c.CreatedAt,
	}
}

// NewComplaintResponses maps a slice of complaints.
func NewComplaintResponses(complaints []domain.Complaint) []ComplaintResponse {
	out := make([]ComplaintResponse, 0, len(complaints))
	for i := range complaints {
		out = append(out, NewComplaintResponse(&complaints[i]))
	}
	return out
}
