package repositories

import (
	"fmt"

	"bookbridge/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMNotificationRepository is a GORM implementation of NotificationRepository.
type GORMNotificationRepository struct {
	db *gorm.DB
}

// NewGORMNotificationRepository creates a new instance of GORMNotificationRepository.
func NewGORMNotificationRepository(db *gorm.DB) *GORMNotificationRepository {
	return &GORMNotificationRepository{
		db: db,
	}
}

// GetByID retrieves a single notification by its ID.
func (r *GORMNotificationRepository) GetByID(id string) (*models.Notification, error) {
	var notification models.Notification
	if err := r.db.First(&notification, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("notification with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get notification by ID %s: %w", id, err)
	}
	return &notification, nil
}

// FindByUser retrieves all notifications for a user, newest first.
func (r *GORMNotificationRepository) FindByUser(userID string) ([]models.Notification, error) {
	var notifications []models.Notification
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("failed to get notifications for user %s: %w", userID, err)
	}
	return notifications, nil
}

// FindUnreadByUser retrieves the unread notifications for a user.
func (r *GORMNotificationRepository) FindUnreadByUser(userID string) ([]models.Notification, error) {
	var notifications []models.Notification
	if err := r.db.Where("user_id = ? AND is_read = ?", userID, false).Order("created_at DESC").Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("failed to get unread notifications for user %s: %w", userID, err)
	}
	return notifications, nil
}

// CountUnreadByUser counts the unread notifications for a user.
func (r *GORMNotificationRepository) CountUnreadByUser(userID string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Notification{}).Where("user_id = ? AND is_read = ?", userID, false).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count unread notifications for user %s: %w", userID, err)
	}
	return count, nil
}

// Create creates a new notification.
func (r *GORMNotificationRepository) Create(notification *models.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}
	if err := r.db.Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// Update updates an existing notification.
func (r *GORMNotificationRepository) Update(notification *models.Notification) error {
	res := r.db.Save(notification)
	if res.Error != nil {
		return fmt.Errorf("failed to update notification: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("notification with ID %s not found for update", notification.ID)
	}
	return nil
}
