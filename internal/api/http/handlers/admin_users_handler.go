package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/dto"
	"github.com/spec-kit/complaint-service/internal/service"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

// AdminUsersHandler exposes account management for admins.
type AdminUsersHandler struct {
	users *service.UserService
}

// NewAdminUsersHandler constructs handler.
func NewAdminUsersHandler(users *service.UserService) *AdminUsersHandler {
	return &AdminUsersHandler{users: users}
}

// List handles GET /admin/users.
func (h *AdminUsersHandler) List(c *fiber.Ctx) error {
	subject, err := currentSubject(c)
	if err != nil {
		return err
	}
	users, err := h.users.List(c.UserContext(), subject)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponses(users)})
}

// Create handles POST /admin/users.
func (h *AdminUsersHandler) Create(c *fiber.Ctx) error {
	subject, err := currentSubject(c)
	if err != nil {
		return err
	}
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.users.Create(c.UserContext(), subject, service.CreateUserInput{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		IsAdmin:   req.IsAdmin,
		AdminRole: req.AdminRole,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Update handles PUT /admin/users/:id.
func (h *AdminUsersHandler) Update(c *fiber.Ctx) error {
	subject, err := currentSubject(c)
	if err != nil {
		return err
	}
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.users.Update(c.UserContext(), subject, c.Params("id"), service.UpdateUserInput{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		IsAdmin:   req.IsAdmin,
		AdminRole: req.AdminRole,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Delete handles DELETE /admin/users/:id.
func (h *AdminUsersHandler) Delete(c *fiber.Ctx) error {
	subject, err := currentSubject(c)
	if err != nil {
		return err
	}
	if err := h.users.Delete(c.UserContext(), subject, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "User deleted successfully"}})
}
