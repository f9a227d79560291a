package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/repository"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	logger     *zap.Logger
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo repository.UserRepository
	Logger   *zap.Logger
}

// AuthResult is returned by successful registration and login.
type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      deps.UserRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
		logger:     logger,
	}
}

// RegisterUser creates a new end-user account and signs it in.
func (s *AuthService) RegisterUser(ctx context.Context, name, email, password string) (*AuthResult, error) {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	details := map[string]any{}
	if name == "" {
		details["name"] = "required"
	}
	if email == "" {
		details["email"] = "required"
	}
	if password == "" {
		details["password"] = "required"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("name, email and password are required", details)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.NewDuplicateEmail(email)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return s.issue(user, domain.SubjectTypeUser)
}

// LoginUser authenticates an account through the end-user login. The token
// never carries admin rights, even for admin accounts.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.authenticate(ctx, email, password, false)
	if err != nil {
		return nil, err
	}
	return s.issue(user, domain.SubjectTypeUser)
}

// LoginAdmin authenticates an admin account and returns an admin token.
func (s *AuthService) LoginAdmin(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.authenticate(ctx, email, password, true)
	if err != nil {
		return nil, err
	}
	return s.issue(user, domain.SubjectTypeAdmin)
}

// EnsureAdmin creates an admin account for email unless one already exists.
// Existing non-admin accounts are left untouched.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	existing, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		if !existing.IsAdmin {
			s.logger.Warn("bootstrap admin email belongs to a regular user", zap.String("user_id", existing.ID))
		}
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return err
	}
	admin := &domain.User{
		ID:           uuid.NewString(),
		Name:         "Administrator",
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      true,
	}
	if err := s.users.Create(ctx, admin); err != nil && !errors.Is(err, repository.ErrDuplicateEmail) {
		return err
	}
	s.logger.Info("bootstrap admin created", zap.String("user_id", admin.ID))
	return nil
}

func (s *AuthService) authenticate(ctx context.Context, email, password string, admin bool) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFound("account", nil)
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if admin && !user.IsAdmin {
		return nil, apperrors.NewNotFound("account", nil)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("incorrect password")
	}
	return user, nil
}

func (s *AuthService) issue(user *domain.User, subjectType domain.SubjectType) (*AuthResult, error) {
	token, exp, err := s.tokenMgr.GenerateToken(domain.Subject{
		Type:  subjectType,
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
	})
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: exp}, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
