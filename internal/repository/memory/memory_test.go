package memory

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/repository"
)

func TestUserRepository_EmailUniqueness(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	require.NoError(t, repo.Create(ctx, &domain.User{ID: "u-1", Email: "a@example.com"}))
	err := repo.Create(ctx, &domain.User{ID: "u-2", Email: "a@example.com"})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	require.NoError(t, repo.Create(ctx, &domain.User{ID: "u-2", Email: "b@example.com"}))
	err = repo.Update(ctx, &domain.User{ID: "u-2", Email: "a@example.com"})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)

	// Re-saving a user with its own email is not a collision.
	assert.NoError(t, repo.Update(ctx, &domain.User{ID: "u-2", Email: "b@example.com", Name: "Bea"}))
}

func TestUserRepository_MissingIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	_, err := repo.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, pgx.ErrNoRows)
	_, err = repo.GetByEmail(ctx, "nope@example.com")
	assert.ErrorIs(t, err, pgx.ErrNoRows)
	assert.ErrorIs(t, repo.Update(ctx, &domain.User{ID: "nope"}), pgx.ErrNoRows)
	assert.ErrorIs(t, repo.Delete(ctx, "nope"), pgx.ErrNoRows)
}

func TestComplaintRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewComplaintRepository()

	require.NoError(t, repo.Create(ctx, &domain.Complaint{ID: "c-1", Status: "pending", Contact: domain.Contact{Email: "a@example.com"}}))
	require.NoError(t, repo.Create(ctx, &domain.Complaint{ID: "c-2", Status: "pending", Contact: domain.Contact{Email: "b@example.com"}}))
	require.NoError(t, repo.Create(ctx, &domain.Complaint{ID: "c-3", Status: "pending", Contact: domain.Contact{Email: "a@example.com"}}))

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c-1", "c-2", "c-3"}, complaintIDs(all))

	mine, err := repo.ListByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"c-1", "c-3"}, complaintIDs(mine))

	updated, err := repo.UpdateStatus(ctx, "c-2", "anything goes")
	require.NoError(t, err)
	assert.Equal(t, "anything goes", updated.Status)

	_, err = repo.UpdateStatus(ctx, "missing", "resolved")
	assert.ErrorIs(t, err, pgx.ErrNoRows)

	require.NoError(t, repo.Delete(ctx, "c-1"))
	assert.ErrorIs(t, repo.Delete(ctx, "c-1"), pgx.ErrNoRows)
	_, err = repo.GetByID(ctx, "c-1")
	assert.ErrorIs(t, err, pgx.ErrNoRows)

	all, err = repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c-2", "c-3"}, complaintIDs(all))
}

func TestNotificationRepository_PerUserIsolation(t *testing.T) {
	ctx := context.Background()
	repo := NewNotificationRepository()

	for _, n := range []domain.Notification{
		{ID: "n-1", UserID: "alice", Message: "first"},
		{ID: "n-2", UserID: "bob", Message: "bob's"},
		{ID: "n-3", UserID: "alice", Message: "second"},
	} {
		n := n
		require.NoError(t, repo.Append(ctx, &n))
	}

	feed, err := repo.ListByUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, "first", feed[0].Message)
	assert.Equal(t, "second", feed[1].Message)

	_, err = repo.MarkRead(ctx, "alice", "n-2")
	assert.ErrorIs(t, err, pgx.ErrNoRows, "another user's notification must not resolve")

	count, err := repo.UnreadCount(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	read, err := repo.MarkRead(ctx, "alice", "n-3")
	require.NoError(t, err)
	assert.True(t, read.Read)

	count, err = repo.UnreadCount(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, repo.DeleteByUser(ctx, "alice"))
	feed, err = repo.ListByUser(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, feed)
}

func complaintIDs(complaints []domain.Complaint) []string {
	ids := make([]string, 0, len(complaints))
	for _, c := range complaints {
		ids = append(ids, c.ID)
	}
	return ids
}
