package domain

import "time"

// Conventional complaint statuses. Status is free-form; any string an admin
// supplies is stored as-is.
const (
	ComplaintStatusPending    = "pending"
	ComplaintStatusInProgress = "in-progress"
	ComplaintStatusResolved   = "resolved"
	ComplaintStatusRejected   = "rejected"
)

// Contact identifies who filed a complaint. Email is the ownership key.
type Contact struct {
	Name  string
	Email string
	Phone string
}

// Complaint is a submitted grievance tracked through its status lifecycle.
type Complaint struct {
	ID          string
	Category    string
	Description string
	Urgency     string
	Contact     Contact
	Status      string
	CreatedAt   time.Time
}

// OwnedBy reports whether email owns the complaint. Match is exact.
func (c *Complaint) OwnedBy(email string) bool {
	return email != "" && c.Contact.Email == email
}
