package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

// RequireAdmin ensures the caller presented an admin token.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		subject, ok := SubjectFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !subject.IsAdmin() {
			return apperrors.NewForbidden("admin access required")
		}
		return c.Next()
	}
}

// RequireAnyRole ensures caller is authenticated (user or admin).
func RequireAnyRole() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := SubjectFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}
