package service

import (
	"context"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/policy"
	"github.com/spec-kit/complaint-service/internal/repository"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

// NotificationService serves a subject's own notification feed.
type NotificationService struct {
	users         repository.UserRepository
	notifications repository.NotificationRepository
}

// NewNotificationService creates the service.
func NewNotificationService(users repository.UserRepository, notifications repository.NotificationRepository) *NotificationService {
	return &NotificationService{users: users, notifications: notifications}
}

// List returns the subject's notifications, oldest first.
func (s *NotificationService) List(ctx context.Context, subject domain.Subject) ([]domain.Notification, error) {
	userID, err := s.owner(ctx, subject)
	if err != nil {
		return nil, err
	}
	list, err := s.notifications.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return list, nil
}

// UnreadCount returns how many of the subject's notifications are unread.
func (s *NotificationService) UnreadCount(ctx context.Context, subject domain.Subject) (int, error) {
	userID, err := s.owner(ctx, subject)
	if err != nil {
		return 0, err
	}
	count, err := s.notifications.UnreadCount(ctx, userID)
	if err != nil {
		return 0, apperrors.NewInternalError(err)
	}
	return count, nil
}

// MarkRead flags one of the subject's notifications as read. Ids belonging
// to other users are reported as missing.
func (s *NotificationService) MarkRead(ctx context.Context, subject domain.Subject, notificationID string) (*domain.Notification, error) {
	userID, err := s.owner(ctx, subject)
	if err != nil {
		return nil, err
	}
	if !validID(notificationID) {
		return nil, apperrors.NewNotFound("notification", map[string]any{"id": notificationID})
	}
	n, err := s.notifications.MarkRead(ctx, userID, notificationID)
	if err != nil {
		return nil, apperrors.MapError(err, "notification")
	}
	return n, nil
}

// owner resolves the feed owner and confirms the account still exists.
func (s *NotificationService) owner(ctx context.Context, subject domain.Subject) (string, error) {
	userID, err := policy.NotificationOwner(subject)
	if err != nil {
		return "", err
	}
	if !validID(userID) {
		return "", apperrors.NewNotFound("user", nil)
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return "", apperrors.MapError(err, "user")
	}
	return userID, nil
}
