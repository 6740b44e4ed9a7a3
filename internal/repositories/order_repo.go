package repositories

import (
	"bookbridge/internal/models"
)

// OrderRepository defines the interface for order data access. Create
// persists the order together with its items as one unit; items are owned
// by the order and never written separately.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	GetByOrderNumber(orderNumber string) (*models.Order, error)
	GetByUser(userID string) ([]models.Order, error)
	GetByStatus(status models.OrderStatus) ([]models.Order, error)
	Create(order *models.Order) error
	Update(order *models.Order) error
}
