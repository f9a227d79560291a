// Package policy decides which subject may perform which complaint,
// notification and account operation.
package policy

import (
	"github.com/spec-kit/complaint-service/internal/domain"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

// ComplaintScope describes which complaints a subject may list.
// All is set for admins; otherwise only complaints whose contact email
// equals OwnerEmail are visible.
type ComplaintScope struct {
	All        bool
	OwnerEmail string
}

// Includes reports whether c falls inside the scope.
func (s ComplaintScope) Includes(c *domain.Complaint) bool {
	return s.All || c.OwnedBy(s.OwnerEmail)
}

// ListComplaints returns the listing scope for subject.
func ListComplaints(subject domain.Subject) ComplaintScope {
	if subject.IsAdmin() {
		return ComplaintScope{All: true}
	}
	return ComplaintScope{OwnerEmail: subject.Email}
}

// ViewComplaint allows admins and the complaint's owner.
func ViewComplaint(subject domain.Subject, c *domain.Complaint) error {
	if subject.IsAdmin() || c.OwnedBy(subject.Email) {
		return nil
	}
	return apperrors.NewForbidden("you do not have permission to view this complaint")
}

// UpdateComplaintStatus allows admins only.
func UpdateComplaintStatus(subject domain.Subject) error {
	if subject.IsAdmin() {
		return nil
	}
	return apperrors.NewForbidden("only admins can update complaint statuses")
}

// DeleteComplaint allows only the submitter. Admin tokens grant no override.
func DeleteComplaint(subject domain.Subject, c *domain.Complaint) error {
	if !c.OwnedBy(subject.Email) {
		return apperrors.NewForbidden("you do not have permission to delete this complaint")
	}
	return nil
}

// ManageUsers allows admins only.
func ManageUsers(subject domain.Subject) error {
	if subject.IsAdmin() {
		return nil
	}
	return apperrors.NewForbidden("admin access required")
}

// NotificationOwner returns the only user id whose notifications subject may touch.
func NotificationOwner(subject domain.Subject) (string, error) {
	if subject.ID == "" {
		return "", apperrors.NewUnauthorized("authentication required")
	}
	return subject.ID, nil
}
