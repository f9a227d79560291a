package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/complaint-service/internal/api/http/handlers"
	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Complaints     *handlers.ComplaintsHandler
	Notifications  *handlers.NotificationsHandler
	AdminUsers     *handlers.AdminUsersHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if registry := cfg.Metrics.Registry(); registry != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	// Submission is public, so authentication is attached per route.
	authenticated := func(h fiber.Handler) []fiber.Handler {
		return []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireAnyRole(), h}
	}

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/admin/login", cfg.Auth.AdminLogin)
	authGroup.Get("/me", authenticated(cfg.Auth.Me)...)

	complaints := app.Group("/complaints")
	complaints.Post("/", cfg.Complaints.Submit)
	complaints.Get("/", authenticated(cfg.Complaints.List)...)
	complaints.Get("/:id", authenticated(cfg.Complaints.Get)...)
	complaints.Put("/:id", authenticated(cfg.Complaints.UpdateStatus)...)
	complaints.Delete("/:id", authenticated(cfg.Complaints.Delete)...)

	notifications := app.Group("/notifications", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	notifications.Get("/", cfg.Notifications.List)
	notifications.Get("/unread-count", cfg.Notifications.UnreadCount)
	notifications.Put("/:id/read", cfg.Notifications.MarkRead)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	admin.Get("/users", cfg.AdminUsers.List)
	admin.Post("/users", cfg.AdminUsers.Create)
	admin.Put("/users/:id", cfg.AdminUsers.Update)
	admin.Delete("/users/:id", cfg.AdminUsers.Delete)
}
