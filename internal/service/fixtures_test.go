package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/observability"
	"github.com/spec-kit/complaint-service/internal/repository"
	"github.com/spec-kit/complaint-service/internal/repository/memory"
	"github.com/spec-kit/complaint-service/internal/service"
)

var testAuthConfig = config.AuthConfig{
	JWTSecret:             "test-secret",
	AccessTokenTTLMinutes: 60,
	BcryptCost:            4,
	DefaultUserPassword:   "defaultPassword123",
}

type harness struct {
	users         *memory.UserRepository
	complaints    *memory.ComplaintRepository
	notifications repository.NotificationRepository
	metrics       *observability.Metrics
	recorder      *eventRecorder

	complaintSvc    *service.ComplaintService
	notificationSvc *service.NotificationService
	userSvc         *service.UserService
	authSvc         *service.AuthService
}

func newHarness(t *testing.T) *harness {
	return newHarnessWithNotifications(t, memory.NewNotificationRepository())
}

func newHarnessWithNotifications(t *testing.T, notifications repository.NotificationRepository) *harness {
	t.Helper()

	h := &harness{
		users:         memory.NewUserRepository(),
		complaints:    memory.NewComplaintRepository(),
		notifications: notifications,
		metrics:       observability.NewMetrics(),
		recorder:      &eventRecorder{},
	}
	dispatcher := events.NewInMemoryDispatcher(nil)
	for _, et := range []events.EventType{
		events.EventComplaintSubmitted,
		events.EventComplaintStatusChanged,
		events.EventComplaintDeleted,
	} {
		dispatcher.Subscribe(et, h.recorder.record)
	}

	h.complaintSvc = service.NewComplaintService(service.ComplaintDependencies{
		ComplaintRepo:    h.complaints,
		UserRepo:         h.users,
		NotificationRepo: h.notifications,
		Dispatcher:       dispatcher,
		Metrics:          h.metrics,
	})
	h.notificationSvc = service.NewNotificationService(h.users, h.notifications)
	h.userSvc = service.NewUserService(testAuthConfig, service.UserDependencies{
		UserRepo:         h.users,
		NotificationRepo: h.notifications,
	})
	h.authSvc = service.NewAuthService(config.Config{Auth: testAuthConfig}, service.AuthDependencies{
		UserRepo: h.users,
	})
	return h
}

// seedUser stores an account directly and returns the subject it would log in as.
func (h *harness) seedUser(t *testing.T, name, email string) domain.Subject {
	t.Helper()
	user := &domain.User{ID: uuid.NewString(), Name: name, Email: email}
	require.NoError(t, h.users.Create(context.Background(), user))
	return domain.Subject{Type: domain.SubjectTypeUser, ID: user.ID, Email: email, Name: name}
}

func (h *harness) seedAdmin(t *testing.T) domain.Subject {
	t.Helper()
	admin := &domain.User{ID: uuid.NewString(), Name: "Admin", Email: "admin@example.com", IsAdmin: true}
	require.NoError(t, h.users.Create(context.Background(), admin))
	return domain.Subject{Type: domain.SubjectTypeAdmin, ID: admin.ID, Email: admin.Email, Name: admin.Name}
}

func (h *harness) submit(t *testing.T, email string) *domain.Complaint {
	t.Helper()
	c, err := h.complaintSvc.Submit(context.Background(), service.ComplaintSubmitInput{
		Category:    "billing",
		Description: "double charge",
		Urgency:     "high",
		Contact:     domain.Contact{Name: "Alice", Email: email, Phone: "555"},
	})
	require.NoError(t, err)
	return c
}

type eventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *eventRecorder) record(_ context.Context, event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *eventRecorder) ofType(et events.EventType) []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []events.Event
	for _, e := range r.events {
		if e.Type == et {
			out = append(out, e)
		}
	}
	return out
}

// failingAppend wraps a notification store whose Append always fails.
type failingAppend struct {
	repository.NotificationRepository
}

func (failingAppend) Append(context.Context, *domain.Notification) error {
	return errors.New("store unavailable")
}

// assertDeliveries checks that exactly one notification outcome was recorded.
func assertDeliveries(t *testing.T, m *observability.Metrics, outcome string) {
	t.Helper()
	expected := fmt.Sprintf(`# HELP complaints_notifications_total Status-change notifications by delivery outcome.
# TYPE complaints_notifications_total counter
complaints_notifications_total{outcome=%q} 1
`, outcome)
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "complaints_notifications_total"))
}
