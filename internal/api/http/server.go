package http

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/api/http/handlers"
	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/observability"
	"github.com/spec-kit/complaint-service/internal/repository"
	"github.com/spec-kit/complaint-service/internal/service"
)

// ServerDependencies are the injected store handles and ambient collaborators.
type ServerDependencies struct {
	Config           config.Config
	Logger           *zap.Logger
	Metrics          *observability.Metrics
	Dispatcher       events.Dispatcher
	UserRepo         repository.UserRepository
	ComplaintRepo    repository.ComplaintRepository
	NotificationRepo repository.NotificationRepository
	Readiness        []handlers.Dependency
}

// Server is the assembled fiber application and the services behind it.
type Server struct {
	App           *fiber.App
	Auth          *service.AuthService
	Users         *service.UserService
	Complaints    *service.ComplaintService
	Notifications *service.NotificationService
}

// NewServer builds services, handlers, middlewares and routes.
func NewServer(deps ServerDependencies) *Server {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	authService := service.NewAuthService(cfg, service.AuthDependencies{
		UserRepo: deps.UserRepo,
		Logger:   logger,
	})
	userService := service.NewUserService(cfg.Auth, service.UserDependencies{
		UserRepo:         deps.UserRepo,
		NotificationRepo: deps.NotificationRepo,
		Logger:           logger,
	})
	complaintService := service.NewComplaintService(service.ComplaintDependencies{
		ComplaintRepo:    deps.ComplaintRepo,
		UserRepo:         deps.UserRepo,
		NotificationRepo: deps.NotificationRepo,
		Dispatcher:       deps.Dispatcher,
		Metrics:          deps.Metrics,
		Logger:           logger,
		DefaultFeedback:  cfg.Notification.DefaultFeedback,
	})
	notificationService := service.NewNotificationService(deps.UserRepo, deps.NotificationRepo)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	RegisterMiddlewares(app, MiddlewareConfig{
		Logger:         logger,
		Metrics:        deps.Metrics,
		RequestTimeout: cfg.App.RequestTimeout(),
		AllowedOrigins: cfg.App.AllowedOrigins(),
	})
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, deps.Readiness...),
		Auth:           handlers.NewAuthHandler(authService, userService),
		Complaints:     handlers.NewComplaintsHandler(complaintService),
		Notifications:  handlers.NewNotificationsHandler(notificationService),
		AdminUsers:     handlers.NewAdminUsersHandler(userService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager()),
		Metrics:        deps.Metrics,
	})

	return &Server{
		App:           app,
		Auth:          authService,
		Users:         userService,
		Complaints:    complaintService,
		Notifications: notificationService,
	}
}
