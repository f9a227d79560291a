package repository

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// CounterCache stores small integer counters by key. Every key carries a
// generation that Invalidate advances; SetCountAt only stores a value computed
// under the current generation, so a fill racing a write cannot resurrect a
// stale count.
type CounterCache interface {
	GetCount(ctx context.Context, key string) (int, bool, error)
	Generation(ctx context.Context, key string) (int64, error)
	SetCountAt(ctx context.Context, key string, generation int64, value int, ttl time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

type cachedNotificationRepository struct {
	NotificationRepository
	cache  CounterCache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedNotificationRepository serves UnreadCount through cache and drops the
// cached value on every write to the user's feed. Cache failures fall through to next.
func NewCachedNotificationRepository(next NotificationRepository, cache CounterCache, ttl time.Duration, logger *zap.Logger) NotificationRepository {
	if cache == nil {
		return next
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &cachedNotificationRepository{NotificationRepository: next, cache: cache, ttl: ttl, logger: logger}
}

// UnreadCountKey is the cache key holding a user's unread count.
func UnreadCountKey(userID string) string {
	return "complaints:notifications:unread:" + userID
}

func (r *cachedNotificationRepository) Append(ctx context.Context, n *domain.Notification) error {
	if err := r.NotificationRepository.Append(ctx, n); err != nil {
		return err
	}
	r.invalidate(ctx, n.UserID)
	return nil
}

func (r *cachedNotificationRepository) MarkRead(ctx context.Context, userID, notificationID string) (*domain.Notification, error) {
	n, err := r.NotificationRepository.MarkRead(ctx, userID, notificationID)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, userID)
	return n, nil
}

func (r *cachedNotificationRepository) DeleteByUser(ctx context.Context, userID string) error {
	if err := r.NotificationRepository.DeleteByUser(ctx, userID); err != nil {
		return err
	}
	r.invalidate(ctx, userID)
	return nil
}

func (r *cachedNotificationRepository) UnreadCount(ctx context.Context, userID string) (int, error) {
	key := UnreadCountKey(userID)
	if count, ok, err := r.cache.GetCount(ctx, key); err != nil {
		r.logger.Warn("unread cache read failed", zap.String("user_id", userID), zap.Error(err))
	} else if ok {
		return count, nil
	}

	// The generation is read before the store so a write landing in between
	// invalidates this fill.
	generation, genErr := r.cache.Generation(ctx, key)
	count, err := r.NotificationRepository.UnreadCount(ctx, userID)
	if err != nil {
		return 0, err
	}
	if genErr != nil {
		r.logger.Warn("unread cache generation read failed", zap.String("user_id", userID), zap.Error(genErr))
		return count, nil
	}
	if err := r.cache.SetCountAt(ctx, key, generation, count, r.ttl); err != nil {
		r.logger.Warn("unread cache write failed", zap.String("user_id", userID), zap.Error(err))
	}
	return count, nil
}

func (r *cachedNotificationRepository) invalidate(ctx context.Context, userID string) {
	if err := r.cache.Invalidate(ctx, UnreadCountKey(userID)); err != nil {
		r.logger.Warn("unread cache invalidation failed", zap.String("user_id", userID), zap.Error(err))
	}
}
