//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/persistence"
	"github.com/spec-kit/complaint-service/internal/repository"
)

// Run with: go test -tags integration ./internal/repository/...
// DATABASE_URL points the suite at an existing server instead of a container.

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	os.Exit(runWithPostgres(m))
}

func runWithPostgres(m *testing.M) int {
	ctx := context.Background()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		container, err := postgres.Run(ctx, "postgres:16-alpine",
			postgres.WithDatabase("complaints_test"),
			postgres.WithUsername("complaints"),
			postgres.WithPassword("complaints_test"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second),
			),
		)
		if err != nil {
			fmt.Fprintf(os.Stderr, "start postgres container: %v\n", err)
			return 1
		}
		defer func() {
			if err := testcontainers.TerminateContainer(container); err != nil {
				fmt.Fprintf(os.Stderr, "terminate postgres container: %v\n", err)
			}
		}()

		dsn, err = container.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			fmt.Fprintf(os.Stderr, "postgres connection string: %v\n", err)
			return 1
		}
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open pool: %v\n", err)
		return 1
	}
	defer pool.Close()

	if err := persistence.RunMigrations(ctx, pool, "../../migrations", zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		return 1
	}

	testPool = pool
	return m.Run()
}

func resetTables(t *testing.T) {
	t.Helper()
	_, err := testPool.Exec(context.Background(), `TRUNCATE notifications, complaints, users`)
	require.NoError(t, err)
}

func createUser(t *testing.T, repo repository.UserRepository, email string) *domain.User {
	t.Helper()
	user := &domain.User{ID: uuid.NewString(), Name: "Test", Email: email, PasswordHash: "hash"}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestPostgresUserRepository(t *testing.T) {
	resetTables(t)
	ctx := context.Background()
	repo := repository.NewUserRepository(testPool)

	alice := createUser(t, repo, "alice@example.com")
	assert.False(t, alice.CreatedAt.IsZero())

	err := repo.Create(ctx, &domain.User{ID: uuid.NewString(), Email: "alice@example.com", PasswordHash: "hash"})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)

	bob := createUser(t, repo, "bob@example.com")
	bob.Email = "alice@example.com"
	assert.ErrorIs(t, repo.Update(ctx, bob), repository.ErrDuplicateEmail)

	role := "support"
	alice.Name = "Alice"
	alice.IsAdmin = true
	alice.AdminRole = &role
	require.NoError(t, repo.Update(ctx, alice))

	got, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	assert.True(t, got.IsAdmin)
	require.NotNil(t, got.AdminRole)
	assert.Equal(t, "support", *got.AdminRole)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	missing := &domain.User{ID: uuid.NewString(), Email: "ghost@example.com", PasswordHash: "hash"}
	assert.ErrorIs(t, repo.Update(ctx, missing), pgx.ErrNoRows)
	assert.ErrorIs(t, repo.Delete(ctx, missing.ID), pgx.ErrNoRows)

	_, err = repo.GetByID(ctx, missing.ID)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestPostgresComplaintRepository(t *testing.T) {
	resetTables(t)
	ctx := context.Background()
	repo := repository.NewComplaintRepository(testPool)

	base := time.Now().UTC().Truncate(time.Microsecond)
	first := &domain.Complaint{
		ID:          uuid.NewString(),
		Category:    "billing",
		Description: "charged twice",
		Urgency:     "high",
		Contact:     domain.Contact{Name: "Alice", Email: "alice@example.com", Phone: "555"},
		Status:      domain.ComplaintStatusPending,
		CreatedAt:   base,
	}
	second := &domain.Complaint{
		ID:        uuid.NewString(),
		Contact:   domain.Contact{Email: "bob@example.com"},
		Status:    domain.ComplaintStatusPending,
		CreatedAt: base.Add(time.Second),
	}
	third := &domain.Complaint{
		ID:        uuid.NewString(),
		Contact:   domain.Contact{Email: "alice@example.com"},
		Status:    domain.ComplaintStatusPending,
		CreatedAt: base.Add(2 * time.Second),
	}
	for _, c := range []*domain.Complaint{first, second, third} {
		require.NoError(t, repo.Create(ctx, c))
	}

	got, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Contact, got.Contact)
	assert.True(t, first.CreatedAt.Equal(got.CreatedAt))

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{first.ID, second.ID, third.ID}, []string{all[0].ID, all[1].ID, all[2].ID})

	mine, err := repo.ListByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, first.ID, mine[0].ID)
	assert.Equal(t, third.ID, mine[1].ID)

	none, err := repo.ListByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.Empty(t, none)

	updated, err := repo.UpdateStatus(ctx, first.ID, "escalated to legal")
	require.NoError(t, err)
	assert.Equal(t, "escalated to legal", updated.Status)

	_, err = repo.UpdateStatus(ctx, uuid.NewString(), domain.ComplaintStatusResolved)
	assert.ErrorIs(t, err, pgx.ErrNoRows)

	require.NoError(t, repo.Delete(ctx, first.ID))
	assert.ErrorIs(t, repo.Delete(ctx, first.ID), pgx.ErrNoRows)
	_, err = repo.GetByID(ctx, first.ID)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestPostgresNotificationRepository(t *testing.T) {
	resetTables(t)
	ctx := context.Background()
	users := repository.NewUserRepository(testPool)
	repo := repository.NewNotificationRepository(testPool)

	alice := createUser(t, users, "alice@example.com")
	bob := createUser(t, users, "bob@example.com")

	var ids []string
	for i := 0; i < 3; i++ {
		n := &domain.Notification{ID: uuid.NewString(), UserID: alice.ID, Message: fmt.Sprintf("message %d", i)}
		require.NoError(t, repo.Append(ctx, n))
		assert.False(t, n.CreatedAt.IsZero())
		ids = append(ids, n.ID)
	}
	require.NoError(t, repo.Append(ctx, &domain.Notification{ID: uuid.NewString(), UserID: bob.ID, Message: "bob"}))

	feed, err := repo.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, feed, 3)
	for i, n := range feed {
		assert.Equal(t, ids[i], n.ID)
		assert.Equal(t, fmt.Sprintf("message %d", i), n.Message)
	}

	count, err := repo.UnreadCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	_, err = repo.MarkRead(ctx, bob.ID, ids[0])
	assert.ErrorIs(t, err, pgx.ErrNoRows)

	read, err := repo.MarkRead(ctx, alice.ID, ids[0])
	require.NoError(t, err)
	assert.True(t, read.Read)

	read, err = repo.MarkRead(ctx, alice.ID, ids[0])
	require.NoError(t, err)
	assert.True(t, read.Read)

	count, err = repo.UnreadCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, repo.DeleteByUser(ctx, alice.ID))
	feed, err = repo.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, feed)

	require.NoError(t, users.Delete(ctx, bob.ID))
	count, err = repo.UnreadCount(ctx, bob.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	err = repo.Append(ctx, &domain.Notification{ID: uuid.NewString(), UserID: bob.ID, Message: "orphan"})
	assert.Error(t, err)
	assert.False(t, errors.Is(err, pgx.ErrNoRows))
}
