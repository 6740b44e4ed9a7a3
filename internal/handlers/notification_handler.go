package handlers

import (
	"log"
	"strings"

	"bookbridge/internal/services"

	"github.com/gofiber/fiber/v2"
)

// NotificationHandler handles HTTP requests for user notifications.
type NotificationHandler struct {
	service *services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(service *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		service: service,
	}
}

// RegisterRoutes registers the notification routes with the Fiber app.
func (h *NotificationHandler) RegisterRoutes(router fiber.Router) {
	notificationRoutes := router.Group("/notifications")
	notificationRoutes.Get("/", h.HandleGetNotifications)
	notificationRoutes.Get("/unread-count", h.HandleGetUnreadCount)
	notificationRoutes.Put("/read-all", h.HandleMarkAllAsRead)
	notificationRoutes.Put("/:id/read", h.HandleMarkAsRead)
}

// HandleGetNotifications retrieves the authenticated user's notifications.
func (h *NotificationHandler) HandleGetNotifications(c *fiber.Ctx) error {
	userID, ok := principalID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Authentication required"})
	}
	notifications, err := h.service.GetUserNotifications(userID)
	if err != nil {
		log.Printf("Error getting notifications for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve notifications",
			"error":   err.Error(),
		})
	}
	return c.JSON(notifications)
}

// HandleGetUnreadCount returns the number of unread notifications.
func (h *NotificationHandler) HandleGetUnreadCount(c *fiber.Ctx) error {
	userID, ok := principalID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Authentication required"})
	}
	count, err := h.service.GetUnreadCount(userID)
	if err != nil {
		log.Printf("Error counting unread notifications for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not count notifications",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"unread": count})
}

// HandleMarkAsRead marks a single notification as read.
func (h *NotificationHandler) HandleMarkAsRead(c *fiber.Ctx) error {
	userID, ok := principalID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Authentication required"})
	}
	notificationID := c.Params("id")

	notification, err := h.service.MarkAsRead(notificationID, userID)
	if err != nil {
		log.Printf("Error marking notification %s as read: %v", notificationID, err)
		status := statusForError(err)
		if strings.Contains(err.Error(), "not found") {
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(fiber.Map{
			"message": "Could not mark notification as read",
			"error":   err.Error(),
		})
	}
	return c.JSON(notification)
}

// HandleMarkAllAsRead marks every unread notification as read.
func (h *NotificationHandler) HandleMarkAllAsRead(c *fiber.Ctx) error {
	userID, ok := principalID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Authentication required"})
	}
	if err := h.service.MarkAllAsRead(userID); err != nil {
		log.Printf("Error marking all notifications as read for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not mark notifications as read",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "All notifications marked as read"})
}
