package repositories

import (
	"bookbridge/internal/models"
)

// NotificationRepository defines the interface for notification data access.
type NotificationRepository interface {
	GetByID(id string) (*models.Notification, error)
	FindByUser(userID string) ([]models.Notification, error)
	FindUnreadByUser(userID string) ([]models.Notification, error)
	CountUnreadByUser(userID string) (int64, error)
	Create(notification *models.Notification) error
	Update(notification *models.Notification) error
}
