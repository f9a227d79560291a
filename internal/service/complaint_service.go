package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/observability"
	"github.com/spec-kit/complaint-service/internal/policy"
	"github.com/spec-kit/complaint-service/internal/repository"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

// DefaultFeedback is appended to status notifications when the admin gave none.
const DefaultFeedback = "No feedback provided."

// ComplaintService drives the complaint lifecycle: submission, role-scoped
// reads, admin status changes with owner notification, and owner deletion.
type ComplaintService struct {
	complaints      repository.ComplaintRepository
	users           repository.UserRepository
	notifications   repository.NotificationRepository
	dispatcher      events.Dispatcher
	metrics         *observability.Metrics
	logger          *zap.Logger
	defaultFeedback string
	now             func() time.Time
}

// ComplaintDependencies bundles collaborators for the complaint service.
type ComplaintDependencies struct {
	ComplaintRepo    repository.ComplaintRepository
	UserRepo         repository.UserRepository
	NotificationRepo repository.NotificationRepository
	Dispatcher       events.Dispatcher
	Metrics          *observability.Metrics
	Logger           *zap.Logger
	DefaultFeedback  string
}

// ComplaintSubmitInput describes a new complaint. Status and CreatedAt are optional overrides.
type ComplaintSubmitInput struct {
	Category    string
	Description string
	Urgency     string
	Contact     domain.Contact
	Status      string
	CreatedAt   *time.Time
}

// NewComplaintService constructs the service.
func NewComplaintService(deps ComplaintDependencies) *ComplaintService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	feedback := deps.DefaultFeedback
	if feedback == "" {
		feedback = DefaultFeedback
	}
	return &ComplaintService{
		complaints:      deps.ComplaintRepo,
		users:           deps.UserRepo,
		notifications:   deps.NotificationRepo,
		dispatcher:      deps.Dispatcher,
		metrics:         deps.Metrics,
		logger:          logger,
		defaultFeedback: feedback,
		now:             time.Now,
	}
}

// StatusChangeMessage renders the notification text for a status update.
func StatusChangeMessage(status, feedback string) string {
	return fmt.Sprintf("Your complaint status has been updated to \"%s\". Feedback: %s", status, feedback)
}

// Submit stores a complaint. Submission is public, so there is no subject.
func (s *ComplaintService) Submit(ctx context.Context, input ComplaintSubmitInput) (*domain.Complaint, error) {
	complaint := &domain.Complaint{
		ID:          uuid.NewString(),
		Category:    input.Category,
		Description: input.Description,
		Urgency:     input.Urgency,
		Contact:     input.Contact,
		Status:      input.Status,
		CreatedAt:   s.now().UTC(),
	}
	if complaint.Status == "" {
		complaint.Status = domain.ComplaintStatusPending
	}
	if input.CreatedAt != nil && !input.CreatedAt.IsZero() {
		complaint.CreatedAt = input.CreatedAt.UTC()
	}

	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintSubmitted,
		ComplaintID: complaint.ID,
		Payload: events.ComplaintSubmittedPayload{
			Category:     complaint.Category,
			Urgency:      complaint.Urgency,
			ContactEmail: complaint.Contact.Email,
			Status:       complaint.Status,
		},
	})
	return complaint, nil
}

// List returns every complaint for admins and the subject's own complaints otherwise.
func (s *ComplaintService) List(ctx context.Context, subject domain.Subject) ([]domain.Complaint, error) {
	scope := policy.ListComplaints(subject)

	var (
		complaints []domain.Complaint
		err        error
	)
	switch {
	case scope.All:
		complaints, err = s.complaints.ListAll(ctx)
	case scope.OwnerEmail == "":
		return []domain.Complaint{}, nil
	default:
		complaints, err = s.complaints.ListByEmail(ctx, scope.OwnerEmail)
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return complaints, nil
}

// Get fetches one complaint visible to subject.
func (s *ComplaintService) Get(ctx context.Context, subject domain.Subject, id string) (*domain.Complaint, error) {
	complaint, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.ViewComplaint(subject, complaint); err != nil {
		return nil, err
	}
	return complaint, nil
}

// UpdateStatus replaces the complaint status and notifies the owning user.
// The status write is authoritative: failures while notifying are logged and
// never undo it.
func (s *ComplaintService) UpdateStatus(ctx context.Context, subject domain.Subject, id, status, feedback string) (*domain.Complaint, error) {
	if err := policy.UpdateComplaintStatus(subject); err != nil {
		return nil, err
	}
	if strings.TrimSpace(status) == "" {
		return nil, apperrors.NewValidationError("status required", nil)
	}
	if !validID(id) {
		return nil, apperrors.NewNotFound("complaint", map[string]any{"id": id})
	}

	complaint, err := s.complaints.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, apperrors.MapError(err, "complaint")
	}
	s.metrics.RecordStatusChange(status)

	if feedback == "" {
		feedback = s.defaultFeedback
	}
	// Detached so a client disconnect after the write cannot cancel delivery.
	notifyCtx := context.WithoutCancel(ctx)
	notified := s.notifyOwner(notifyCtx, complaint, StatusChangeMessage(status, feedback))

	s.publishEvent(notifyCtx, events.Event{
		Type:        events.EventComplaintStatusChanged,
		ComplaintID: complaint.ID,
		Actor:       subjectActor(subject),
		Payload: events.ComplaintStatusChangedPayload{
			NewStatus:    status,
			Feedback:     feedback,
			ContactEmail: complaint.Contact.Email,
			Notified:     notified,
		},
	})
	return complaint, nil
}

// Delete removes a complaint on behalf of its submitter.
func (s *ComplaintService) Delete(ctx context.Context, subject domain.Subject, id string) error {
	complaint, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.DeleteComplaint(subject, complaint); err != nil {
		return err
	}
	if err := s.complaints.Delete(ctx, complaint.ID); err != nil {
		return apperrors.MapError(err, "complaint")
	}

	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintDeleted,
		ComplaintID: complaint.ID,
		Actor:       subjectActor(subject),
		Payload:     events.ComplaintDeletedPayload{ContactEmail: complaint.Contact.Email},
	})
	return nil
}

func (s *ComplaintService) load(ctx context.Context, id string) (*domain.Complaint, error) {
	if !validID(id) {
		return nil, apperrors.NewNotFound("complaint", map[string]any{"id": id})
	}
	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err, "complaint")
	}
	return complaint, nil
}

// notifyOwner appends message to the feed of the user whose email matches the
// complaint contact. It reports whether a notification was stored.
func (s *ComplaintService) notifyOwner(ctx context.Context, complaint *domain.Complaint, message string) bool {
	log := s.logger.With(zap.String("complaint_id", complaint.ID))

	email := complaint.Contact.Email
	if email == "" {
		s.metrics.RecordNotification(observability.DeliveryDroppedNoUser)
		return false
	}

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, pgx.ErrNoRows) {
		log.Debug("no user for complaint contact; notification dropped")
		s.metrics.RecordNotification(observability.DeliveryDroppedNoUser)
		return false
	}
	if err != nil {
		log.Warn("owner lookup failed; notification skipped", zap.Error(err))
		s.metrics.RecordNotification(observability.DeliveryFailed)
		return false
	}

	notification := &domain.Notification{
		ID:      uuid.NewString(),
		UserID:  user.ID,
		Message: message,
	}
	if err := s.notifications.Append(ctx, notification); err != nil {
		log.Warn("notification append failed", zap.String("user_id", user.ID), zap.Error(err))
		s.metrics.RecordNotification(observability.DeliveryFailed)
		return false
	}
	s.metrics.RecordNotification(observability.DeliveryDelivered)
	return true
}

func (s *ComplaintService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = s.now().UTC()
	_ = s.dispatcher.Publish(ctx, event)
}

func subjectActor(subject domain.Subject) events.Actor {
	return events.Actor{Type: subject.Type, ID: subject.ID}
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
