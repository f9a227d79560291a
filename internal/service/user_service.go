package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/policy"
	"github.com/spec-kit/complaint-service/internal/repository"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

// UserService exposes profile reads and admin account management.
type UserService struct {
	users           repository.UserRepository
	notifications   repository.NotificationRepository
	bcryptCost      int
	defaultPassword string
	logger          *zap.Logger
}

// UserDependencies bundles collaborators for the user service.
type UserDependencies struct {
	UserRepo         repository.UserRepository
	NotificationRepo repository.NotificationRepository
	Logger           *zap.Logger
}

// CreateUserInput carries admin-supplied account fields. An empty Password
// falls back to the configured default.
type CreateUserInput struct {
	Name      string
	Email     string
	Password  string
	IsAdmin   bool
	AdminRole *string
}

// UpdateUserInput is a partial update; nil fields are left unchanged.
type UpdateUserInput struct {
	Name      *string
	Email     *string
	Password  *string
	IsAdmin   *bool
	AdminRole *string
}

// NewUserService constructs the service.
func NewUserService(cfg config.AuthConfig, deps UserDependencies) *UserService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		users:           deps.UserRepo,
		notifications:   deps.NotificationRepo,
		bcryptCost:      cfg.BcryptCost,
		defaultPassword: cfg.DefaultUserPassword,
		logger:          logger,
	}
}

// Profile returns the account behind subject.
func (s *UserService) Profile(ctx context.Context, subject domain.Subject) (*domain.User, error) {
	if subject.ID == "" {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return s.get(ctx, subject.ID)
}

// List returns every account.
func (s *UserService) List(ctx context.Context, subject domain.Subject) ([]domain.User, error) {
	if err := policy.ManageUsers(subject); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return users, nil
}

// Create adds an account on behalf of an admin.
func (s *UserService) Create(ctx context.Context, subject domain.Subject, input CreateUserInput) (*domain.User, error) {
	if err := policy.ManageUsers(subject); err != nil {
		return nil, err
	}
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return nil, apperrors.NewValidationError("email required", map[string]any{"email": "required"})
	}
	password := input.Password
	if password == "" {
		password = s.defaultPassword
	}
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      input.IsAdmin,
		AdminRole:    input.AdminRole,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, translateUserWrite(err, email)
	}
	return user, nil
}

// Update applies input to the account identified by id.
func (s *UserService) Update(ctx context.Context, subject domain.Subject, id string, input UpdateUserInput) (*domain.User, error) {
	if err := policy.ManageUsers(subject); err != nil {
		return nil, err
	}
	user, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if email == "" {
			return nil, apperrors.NewValidationError("email must not be empty", map[string]any{"email": "required"})
		}
		user.Email = email
	}
	if input.Password != nil && *input.Password != "" {
		hash, err := auth.HashPassword(*input.Password, s.bcryptCost)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		user.PasswordHash = hash
	}
	if input.IsAdmin != nil {
		user.IsAdmin = *input.IsAdmin
	}
	if input.AdminRole != nil {
		role := *input.AdminRole
		if role == "" {
			user.AdminRole = nil
		} else {
			user.AdminRole = &role
		}
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, translateUserWrite(err, user.Email)
	}
	return user, nil
}

// Delete removes an account together with its notifications.
func (s *UserService) Delete(ctx context.Context, subject domain.Subject, id string) error {
	if err := policy.ManageUsers(subject); err != nil {
		return err
	}
	if !validID(id) {
		return apperrors.NewNotFound("user", map[string]any{"id": id})
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return apperrors.MapError(err, "user")
	}
	if s.notifications != nil {
		if err := s.notifications.DeleteByUser(ctx, id); err != nil {
			s.logger.Warn("notification cleanup failed", zap.String("user_id", id), zap.Error(err))
		}
	}
	return nil
}

func (s *UserService) get(ctx context.Context, id string) (*domain.User, error) {
	if !validID(id) {
		return nil, apperrors.NewNotFound("user", map[string]any{"id": id})
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err, "user")
	}
	return user, nil
}

func translateUserWrite(err error, email string) error {
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return apperrors.NewDuplicateEmail(email)
	}
	return apperrors.MapError(err, "user")
}
