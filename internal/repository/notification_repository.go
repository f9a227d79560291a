package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// NotificationRepository stores each user's ordered notification feed.
// Every lookup is keyed by the owning user; a notification id belonging to
// another user resolves as pgx.ErrNoRows.
type NotificationRepository interface {
	Append(ctx context.Context, notification *domain.Notification) error
	ListByUser(ctx context.Context, userID string) ([]domain.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID string) (*domain.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	DeleteByUser(ctx context.Context, userID string) error
}

type notificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository builds repository.
func NewNotificationRepository(pool *pgxpool.Pool) NotificationRepository {
	return &notificationRepository{pool: pool}
}

const notificationColumns = `id, user_id, message, read, created_at`

func (r *notificationRepository) Append(ctx context.Context, n *domain.Notification) error {
	const query = `
        INSERT INTO notifications (id, user_id, message, read)
        VALUES ($1,$2,$3,$4)
        RETURNING created_at`
	return r.pool.QueryRow(ctx, query, n.ID, n.UserID, n.Message, n.Read).Scan(&n.CreatedAt)
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE user_id=$1 ORDER BY seq ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *n)
	}
	return result, rows.Err()
}

func (r *notificationRepository) MarkRead(ctx context.Context, userID, notificationID string) (*domain.Notification, error) {
	return scanNotification(r.pool.QueryRow(ctx,
		`UPDATE notifications SET read=TRUE WHERE id=$1 AND user_id=$2 RETURNING `+notificationColumns,
		notificationID, userID))
}

func (r *notificationRepository) UnreadCount(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id=$1 AND read=FALSE`, userID).Scan(&count)
	return count, err
}

func (r *notificationRepository) DeleteByUser(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM notifications WHERE user_id=$1`, userID)
	return err
}

func scanNotification(row pgx.Row) (*domain.Notification, error) {
	var n domain.Notification
	if err := row.Scan(&n.ID, &n.UserID, &n.Message, &n.Read, &n.CreatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}
