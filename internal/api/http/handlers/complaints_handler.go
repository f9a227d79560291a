package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/dto"
	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/service"
	apperrors "github.com/spec-kit/complaint-service/pkg/util/errorutil"
)

// ComplaintsHandler exposes complaint submission and lifecycle endpoints.
type ComplaintsHandler struct {
	complaints *service.ComplaintService
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(complaints *service.ComplaintService) *ComplaintsHandler {
	return &ComplaintsHandler{complaints: complaints}
}

// Submit handles POST /complaints. The endpoint is public.
func (h *ComplaintsHandler) Submit(c *fiber.Ctx) error {
	var req dto.SubmitComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	complaint, err := h.complaints.Submit(c.UserContext(), service.ComplaintSubmitInput{
		Category:    req.Category,
		Description: req.Description,
		Urgency:     req.Urgency,
		Contact: domain.Contact{
			Name:  req.Contact.Name,
			Email: req.Contact.Email,
			Phone: req.Contact.Phone,
		},
		Status:    req.Status,
		CreatedAt: req.CreatedAt,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewComplaintResponse(complaint)})
}

// List handles GET /complaints.
func (h *ComplaintsHandler) List(c *fiber.Ctx) error {
	subject, err := currentSubject(c)
	if err != nil {
		return err
	}
	complaints, err := h.complaints.List(c.UserContext(), subject)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewComplaintResponses(complaints)})
}

// Get handles GET /complaints/:id.
func (h *ComplaintsHandler) Get(c *fiber.Ctx) error {
	subject, err := currentSubject(c)
	if err != nil {
		return err
	}
	complaint, err := h.complaints.Get(c.UserContext(), subject, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewComplaintResponse(complaint)})
}

// UpdateStatus handles PUT /complaints/:id.
func (h *ComplaintsHandler) UpdateStatus(c *fiber.Ctx) error {
	subject, err := currentSubject(c)
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	complaint, err := h.complaints.UpdateStatus(c.UserContext(), subject, c.Params("id"), req.Status, req.FeedbackText())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"message":   "Status updated successfully",
		"complaint": dto.NewComplaintResponse(complaint),
	}})
}

// Delete handles DELETE /complaints/:id.
func (h *ComplaintsHandler) Delete(c *fiber.Ctx) error {
	subject, err := currentSubject(c)
	if err != nil {
		return err
	}
	if err := h.complaints.Delete(c.UserContext(), subject, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "Complaint deleted successfully"}})
}

func currentSubject(c *fiber.Ctx) (domain.Subject, error) {
	subject, ok := auth.SubjectFromContext(c)
	if !ok {
		return domain.Subject{}, apperrors.NewUnauthorized("authentication required")
	}
	return subject, nil
}
