package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/repository"
)

// NotificationRepository keeps one ordered slice per user.
type NotificationRepository struct {
	mu     sync.RWMutex
	byUser map[string][]domain.Notification
}

// NewNotificationRepository returns an empty store.
func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{byUser: make(map[string][]domain.Notification)}
}

var _ repository.NotificationRepository = (*NotificationRepository)(nil)

func (r *NotificationRepository) Append(_ context.Context, n *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n.CreatedAt = time.Now().UTC()
	r.byUser[n.UserID] = append(r.byUser[n.UserID], *n)
	return nil
}

func (r *NotificationRepository) ListByUser(_ context.Context, userID string) ([]domain.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	feed := r.byUser[userID]
	result := make([]domain.Notification, len(feed))
	copy(result, feed)
	return result, nil
}

func (r *NotificationRepository) MarkRead(_ context.Context, userID, notificationID string) (*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	feed := r.byUser[userID]
	for i := range feed {
		if feed[i].ID == notificationID {
			feed[i].Read = true
			n := feed[i]
			return &n, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *NotificationRepository) UnreadCount(_ context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, n := range r.byUser[userID] {
		if !n.Read {
			count++
		}
	}
	return count, nil
}

func (r *NotificationRepository) DeleteByUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.byUser, userID)
	return nil
}
