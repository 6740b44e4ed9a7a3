package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"bookbridge/internal/models"
	"bookbridge/internal/repositories"

	"github.com/google/uuid"
)

// DeliveryInfo carries the delivery details supplied at checkout.
type DeliveryInfo struct {
	Address string
	Phone   string
	Notes   string
}

// OrderService converts carts into orders and drives the order lifecycle.
// Checkout is all-or-nothing with respect to inventory: either every line
// is reserved and the order is persisted, or nothing is.
type OrderService struct {
	orderRepo     repositories.OrderRepository
	cartRepo      repositories.CartRepository
	bookService   *BookService
	notifications *NotificationService
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, cartRepo repositories.CartRepository,
	bookService *BookService, notifications *NotificationService) *OrderService {
	return &OrderService{
		orderRepo:     orderRepo,
		cartRepo:      cartRepo,
		bookService:   bookService,
		notifications: notifications,
	}
}

// GetAllOrders retrieves all orders.
func (s *OrderService) GetAllOrders() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// GetOrderByOrderNumber retrieves a single order by its number.
func (s *OrderService) GetOrderByOrderNumber(orderNumber string) (*models.Order, error) {
	return s.orderRepo.GetByOrderNumber(orderNumber)
}

// GetOrdersByUser retrieves all orders placed by a user.
func (s *OrderService) GetOrdersByUser(userID string) ([]models.Order, error) {
	return s.orderRepo.GetByUser(userID)
}

// GetOrdersByStatus retrieves all orders in the given status.
func (s *OrderService) GetOrdersByStatus(status models.OrderStatus) ([]models.Order, error) {
	return s.orderRepo.GetByStatus(status)
}

// Checkout converts the user's cart into a PENDING order.
//
// Reservations are acquired sequentially with compensating releases: if
// any line cannot be reserved, or the order cannot be persisted, every
// reservation acquired during this attempt is released before returning.
// No partial order is ever created and no book is left reserved by a
// failed checkout.
func (s *OrderService) Checkout(userID string, delivery DeliveryInfo) (*models.Order, error) {
	cartItems, err := s.cartRepo.FindByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to read cart for user %s: %w", userID, err)
	}
	if len(cartItems) == 0 {
		return nil, ErrEmptyCart
	}

	var reserved []string
	releaseAll := func() {
		for _, bookID := range reserved {
			if relErr := s.bookService.Release(bookID); relErr != nil {
				// The book stays reserved until an operator or expiry
				// sweep releases it. Loud log, nothing else we can do here.
				log.Printf("ALERT: failed to release reservation on book %s during checkout rollback: %v", bookID, relErr)
			}
		}
	}

	var totalAmount float64
	orderItems := make([]models.OrderItem, 0, len(cartItems))
	sellersByBook := make(map[string]string)
	for _, item := range cartItems {
		book, err := s.bookService.GetBookByID(item.BookID)
		if err != nil {
			releaseAll()
			return nil, fmt.Errorf("failed to load book %s during checkout: %w", item.BookID, err)
		}

		if err := s.bookService.Reserve(book.ID); err != nil {
			releaseAll()
			if err == ErrBookNotAvailable {
				return nil, fmt.Errorf("%w: '%s' is no longer available", ErrInventoryConflict, book.Title)
			}
			return nil, err
		}
		reserved = append(reserved, book.ID)
		sellersByBook[book.ID] = book.UserID

		unitPrice := book.EffectivePrice() // Snapshot: later price edits never touch this order
		orderItems = append(orderItems, models.OrderItem{
			BookID:    book.ID,
			Quantity:  item.Quantity,
			UnitPrice: unitPrice,
			LineTotal: unitPrice * float64(item.Quantity),
		})
		totalAmount += unitPrice * float64(item.Quantity)
	}

	order := &models.Order{
		ID:                uuid.New().String(),
		UserID:            userID,
		OrderNumber:       generateOrderNumber(),
		Items:             orderItems,
		TotalAmount:       totalAmount,
		Status:            models.OrderPending,
		DeliveryAddress:   delivery.Address,
		DeliveryPhone:     delivery.Phone,
		DeliveryNotes:     delivery.Notes,
		EstimatedDelivery: time.Now().AddDate(0, 0, 7), // Default 7 day delivery estimate
	}

	if err := s.orderRepo.Create(order); err != nil {
		releaseAll()
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	if err := s.cartRepo.DeleteByUser(userID); err != nil {
		// The order is committed and the books are reserved; leftover cart
		// lines cannot be checked out again (reservation would fail), so
		// this is logged rather than rolled back.
		log.Printf("Warning: failed to clear cart for user %s after checkout: %v", userID, err)
	}

	// One notification per distinct seller, after the order is committed.
	// Dispatch failures never roll back the order.
	notified := make(map[string]bool)
	for _, item := range order.Items {
		sellerID := sellersByBook[item.BookID]
		if notified[sellerID] {
			continue
		}
		notified[sellerID] = true
		book, err := s.bookService.GetBookByID(item.BookID)
		if err != nil {
			log.Printf("Warning: failed to load book %s for order notification: %v", item.BookID, err)
			continue
		}
		if err := s.notifications.NotifySellerBookOrdered(sellerID, book, order); err != nil {
			log.Printf("Warning: failed to notify seller %s for order %s: %v", sellerID, order.ID, err)
		}
	}

	return order, nil
}

// UpdateStatus moves an order along its lifecycle. Transitioning to
// CANCELLED releases every line's book back to AVAILABLE; transitioning to
// DELIVERED finalizes every line's book to SOLD. Invalid transitions fail
// without mutating anything.
func (s *OrderService) UpdateStatus(orderID string, newStatus models.OrderStatus) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(newStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, newStatus)
	}

	switch newStatus {
	case models.OrderCancelled:
		for _, item := range order.Items {
			if err := s.bookService.Release(item.BookID); err != nil {
				return nil, fmt.Errorf("failed to release book %s while cancelling order %s: %w", item.BookID, orderID, err)
			}
		}
	case models.OrderDelivered:
		for _, item := range order.Items {
			if err := s.bookService.FinalizeSale(item.BookID); err != nil {
				return nil, fmt.Errorf("failed to finalize book %s while delivering order %s: %w", item.BookID, orderID, err)
			}
		}
		now := time.Now()
		order.CompletedAt = &now
	}

	order.Status = newStatus
	if err := s.orderRepo.Update(order); err != nil {
		return nil, fmt.Errorf("failed to update order %s status: %w", orderID, err)
	}

	if newStatus == models.OrderDelivered {
		if err := s.notifications.NotifyBuyerOrderDelivered(order.UserID, order); err != nil {
			log.Printf("Warning: failed to notify buyer %s about delivery of order %s: %v", order.UserID, orderID, err)
		}
	}

	return order, nil
}

// Cancel cancels an order on behalf of its buyer. Only the order's owner
// may cancel through this path; admins use UpdateStatus directly.
func (s *OrderService) Cancel(orderID, userID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrNotOwner
	}
	return s.UpdateStatus(orderID, models.OrderCancelled)
}

// generateOrderNumber produces a human-readable unique order number.
func generateOrderNumber() string {
	fragment := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("BB-%d-%s", time.Now().UnixMilli(), fragment)
}
