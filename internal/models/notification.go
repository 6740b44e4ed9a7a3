package models

import "time"

// NotificationType categorizes a notification for display purposes.
type NotificationType string

const (
	NotificationOrder    NotificationType = "ORDER"
	NotificationPayment  NotificationType = "PAYMENT"
	NotificationDelivery NotificationType = "DELIVERY"
	NotificationGeneral  NotificationType = "GENERAL"
)

// Notification is a message delivered to a user about order, payment or
// delivery activity. Dispatch is fire-and-forget: the order and payment
// flows never fail because a notification could not be created.
type Notification struct {
	ID        string           `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string           `json:"user_id" gorm:"index;type:varchar(36)"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type" gorm:"type:varchar(20)"`
	IsRead    bool             `json:"is_read" gorm:"default:false"`
	BookID    string           `json:"book_id,omitempty" gorm:"type:varchar(36)"`
	OrderID   string           `json:"order_id,omitempty" gorm:"type:varchar(36)"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}
