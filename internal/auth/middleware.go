package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/domain"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

const subjectKey = "auth_subject"

// Verifier resolves bearer tokens into subjects.
type Verifier interface {
	Verify(token string) (domain.Subject, error)
}

// AuthMiddleware validates bearer tokens and stores the subject on the request.
type AuthMiddleware struct {
	verifier Verifier
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(verifier Verifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	subject, err := m.verifier.Verify(strings.TrimSpace(parts[1]))
	if err != nil {
		return apperrors.NewUnauthorized("invalid or expired token")
	}

	c.Locals(subjectKey, subject)
	return c.Next()
}

// SubjectFromContext retrieves the authenticated subject.
func SubjectFromContext(c *fiber.Ctx) (domain.Subject, bool) {
	subject, ok := c.Locals(subjectKey).(domain.Subject)
	return subject, ok
}
