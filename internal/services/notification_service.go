package services

import (
	"fmt"
	"log"

	"bookbridge/internal/models"
	"bookbridge/internal/repositories"
)

// EventPublisher publishes notification events to the message broker.
// Implemented by pkg/rabbitmq.Client.
type EventPublisher interface {
	PublishNotificationEvent(event map[string]interface{}) error
}

// NotificationService persists notifications and mirrors them onto the
// message broker. Both sides are best-effort from the caller's point of
// view: order and payment flows never fail because a notification did not
// go out.
type NotificationService struct {
	repo      repositories.NotificationRepository
	publisher EventPublisher
}

// NewNotificationService creates a new NotificationService. The publisher
// may be nil, in which case events are only persisted.
func NewNotificationService(repo repositories.NotificationRepository, publisher EventPublisher) *NotificationService {
	return &NotificationService{
		repo:      repo,
		publisher: publisher,
	}
}

// Notify creates a notification for a user and publishes the matching
// event. Errors are returned for observability but callers on the order
// and payment paths log them instead of propagating.
func (s *NotificationService) Notify(userID, title, message string, kind models.NotificationType, bookID, orderID string) error {
	notification := &models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    kind,
		BookID:  bookID,
		OrderID: orderID,
	}
	if err := s.repo.Create(notification); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	if s.publisher != nil {
		event := map[string]interface{}{
			"notificationID": notification.ID,
			"userID":         userID,
			"type":           string(kind),
			"title":          title,
			"orderID":        orderID,
		}
		if err := s.publisher.PublishNotificationEvent(event); err != nil {
			// The row is already persisted; delivery can be retried
			// out-of-band by the consumer side.
			log.Printf("Warning: failed to publish notification event for user %s: %v", userID, err)
		}
	}

	return nil
}

// NotifySellerBookOrdered tells a seller that one of their books is part
// of a newly placed order.
func (s *NotificationService) NotifySellerBookOrdered(sellerID string, book *models.Book, order *models.Order) error {
	title := "Your Book Has Been Ordered!"
	message := fmt.Sprintf(
		"Great news! Your book '%s' has been ordered. Order #%s. "+
			"Please submit your book to the nearest pickup point within 48 hours.",
		book.Title, order.OrderNumber)
	return s.Notify(sellerID, title, message, models.NotificationOrder, book.ID, order.ID)
}

// NotifyBuyerPaymentCompleted tells a buyer their payment went through.
func (s *NotificationService) NotifyBuyerPaymentCompleted(buyerID string, order *models.Order) error {
	title := "Payment Received!"
	message := fmt.Sprintf(
		"Your payment of Rs. %.2f for order #%s has been confirmed.",
		order.TotalAmount, order.OrderNumber)
	return s.Notify(buyerID, title, message, models.NotificationPayment, "", order.ID)
}

// NotifyBuyerOrderDelivered tells a buyer their order arrived.
func (s *NotificationService) NotifyBuyerOrderDelivered(buyerID string, order *models.Order) error {
	title := "Your Order Has Been Delivered!"
	message := fmt.Sprintf(
		"Your order #%s has been delivered successfully. Enjoy your books!",
		order.OrderNumber)
	return s.Notify(buyerID, title, message, models.NotificationDelivery, "", order.ID)
}

// GetUserNotifications retrieves all notifications for a user.
func (s *NotificationService) GetUserNotifications(userID string) ([]models.Notification, error) {
	return s.repo.FindByUser(userID)
}

// GetUnreadCount counts the unread notifications for a user.
func (s *NotificationService) GetUnreadCount(userID string) (int64, error) {
	return s.repo.CountUnreadByUser(userID)
}

// MarkAsRead marks a single notification as read. The notification must
// belong to the requesting user.
func (s *NotificationService) MarkAsRead(notificationID, userID string) (*models.Notification, error) {
	notification, err := s.repo.GetByID(notificationID)
	if err != nil {
		return nil, err
	}
	if notification.UserID != userID {
		return nil, ErrNotOwner
	}
	if notification.IsRead {
		return notification, nil
	}
	notification.IsRead = true
	if err := s.repo.Update(notification); err != nil {
		return nil, fmt.Errorf("failed to mark notification %s as read: %w", notificationID, err)
	}
	return notification, nil
}

// MarkAllAsRead marks every unread notification of a user as read.
func (s *NotificationService) MarkAllAsRead(userID string) error {
	unread, err := s.repo.FindUnreadByUser(userID)
	if err != nil {
		return err
	}
	for i := range unread {
		unread[i].IsRead = true
		if err := s.repo.Update(&unread[i]); err != nil {
			return fmt.Errorf("failed to mark notification %s as read: %w", unread[i].ID, err)
		}
	}
	return nil
}
