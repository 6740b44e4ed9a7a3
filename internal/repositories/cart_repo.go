package repositories

import (
	"bookbridge/internal/models"
)

// CartRepository defines the interface for cart line data access.
type CartRepository interface {
	GetByID(id string) (*models.CartItem, error)
	FindByUser(userID string) ([]models.CartItem, error)
	FindByUserAndBook(userID, bookID string) (*models.CartItem, error)
	Create(item *models.CartItem) error
	Update(item *models.CartItem) error
	Delete(id string) error
	DeleteByUser(userID string) error
}
