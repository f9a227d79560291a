package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-service/internal/api/dto"
	"github.com/spec-kit/complaint-service/internal/service"
)

// NotificationsHandler exposes the caller's notification feed.
type NotificationsHandler struct {
	notifications *service.NotificationService
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(notifications *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{notifications: notifications}
}

// List handles GET /notifications.
func (h *NotificationsHandler) List(c *fiber.Ctx) error {
	subject, err := currentSubject(c)
	if err != nil {
		return err
	}
	feed, err := h.notifications.List(c.UserContext(), subject)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewNotificationResponses(feed)})
}

// UnreadCount handles GET /notifications/unread-count.
func (h *NotificationsHandler) UnreadCount(c *fiber.Ctx) error {
	subject, err := currentSubject(c)
	if err != nil {
		return err
	}
	count, err := h.notifications.UnreadCount(c.UserContext(), subject)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.UnreadCountResponse{UnreadCount: count}})
}

// MarkRead handles PUT /notifications/:id/read.
func (h *NotificationsHandler) MarkRead(c *fiber.Ctx) error {
	subject, err := currentSubject(c)
	if err != nil {
		return err
	}
	n, err := h.notifications.MarkRead(c.UserContext(), subject, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"message":      "Notification marked as read",
		"notification": dto.NewNotificationResponse(n),
	}})
}
