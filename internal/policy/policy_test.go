package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/complaint-service/internal/domain"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

var (
	alice = domain.Subject{Type: domain.SubjectTypeUser, ID: "u-alice", Email: "alice@example.com"}
	bob   = domain.Subject{Type: domain.SubjectTypeUser, ID: "u-bob", Email: "bob@example.com"}
	admin = domain.Subject{Type: domain.SubjectTypeAdmin, ID: "u-admin", Email: "admin@example.com"}
)

func aliceComplaint() *domain.Complaint {
	return &domain.Complaint{ID: "c-1", Contact: domain.Contact{Email: "alice@example.com"}}
}

func TestListComplaints(t *testing.T) {
	scope := ListComplaints(admin)
	assert.True(t, scope.All)
	assert.True(t, scope.Includes(&domain.Complaint{Contact: domain.Contact{Email: "x@example.com"}}))

	scope = ListComplaints(bob)
	assert.False(t, scope.All)
	assert.Equal(t, "bob@example.com", scope.OwnerEmail)
	assert.False(t, scope.Includes(aliceComplaint()))
}

func TestUpdateComplaintStatus(t *testing.T) {
	assert.NoError(t, UpdateComplaintStatus(admin))
	assert.True(t, apperrors.Is(UpdateComplaintStatus(alice), apperrors.CodeForbidden))
}

func TestDeleteComplaint(t *testing.T) {
	c := aliceComplaint()

	assert.NoError(t, DeleteComplaint(alice, c))
	assert.True(t, apperrors.Is(DeleteComplaint(bob, c), apperrors.CodeForbidden))
	assert.True(t, apperrors.Is(DeleteComplaint(admin, c), apperrors.CodeForbidden))

	own := &domain.Complaint{ID: "c-2", Contact: domain.Contact{Email: admin.Email}}
	assert.NoError(t, DeleteComplaint(admin, own))
	assert.True(t, apperrors.Is(DeleteComplaint(alice, own), apperrors.CodeForbidden))
}

func TestViewComplaint(t *testing.T) {
	c := aliceComplaint()
	assert.NoError(t, ViewComplaint(alice, c))
	assert.NoError(t, ViewComplaint(admin, c))
	assert.True(t, apperrors.Is(ViewComplaint(bob, c), apperrors.CodeForbidden))
}

func TestManageUsers(t *testing.T) {
	assert.NoError(t, ManageUsers(admin))
	assert.True(t, apperrors.Is(ManageUsers(alice), apperrors.CodeForbidden))
}

func TestNotificationOwner(t *testing.T) {
	id, err := NotificationOwner(alice)
	assert.NoError(t, err)
	assert.Equal(t, "u-alice", id)

	id, err = NotificationOwner(admin)
	assert.NoError(t, err)
	assert.Equal(t, "u-admin", id)

	_, err = NotificationOwner(domain.Subject{})
	assert.True(t, apperrors.Is(err, apperrors.CodeUnauthorized))
}
