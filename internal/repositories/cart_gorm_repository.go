package repositories

import (
	"fmt"

	"bookbridge/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// GetByID retrieves a single cart item by its ID.
func (r *GORMCartRepository) GetByID(id string) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.First(&item, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("cart item with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get cart item by ID %s: %w", id, err)
	}
	return &item, nil
}

// FindByUser retrieves all cart items belonging to a user.
func (r *GORMCartRepository) FindByUser(userID string) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.db.Where("user_id = ?", userID).Order("created_at").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to get cart items for user %s: %w", userID, err)
	}
	return items, nil
}

// FindByUserAndBook retrieves the cart line for a (user, book) pair.
// Returns (nil, nil) when no line exists; re-adds merge into it when it does.
func (r *GORMCartRepository) FindByUserAndBook(userID, bookID string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.Where("user_id = ? AND book_id = ?", userID, bookID).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cart item for user %s and book %s: %w", userID, bookID, err)
	}
	return &item, nil
}

// Create creates a new cart item.
func (r *GORMCartRepository) Create(item *models.CartItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if err := r.db.Create(item).Error; err != nil {
		return fmt.Errorf("failed to create cart item: %w", err)
	}
	return nil
}

// Update updates an existing cart item.
func (r *GORMCartRepository) Update(item *models.CartItem) error {
	res := r.db.Save(item)
	if res.Error != nil {
		return fmt.Errorf("failed to update cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item with ID %s not found for update", item.ID)
	}
	return nil
}

// Delete removes a cart item by its ID.
func (r *GORMCartRepository) Delete(id string) error {
	res := r.db.Delete(&models.CartItem{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item with ID %s not found for deletion", id)
	}
	return nil
}

// DeleteByUser removes every cart item belonging to a user.
func (r *GORMCartRepository) DeleteByUser(userID string) error {
	if err := r.db.Delete(&models.CartItem{}, "user_id = ?", userID).Error; err != nil {
		return fmt.Errorf("failed to clear cart for user %s: %w", userID, err)
	}
	return nil
}
