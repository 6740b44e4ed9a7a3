package services

import (
	"fmt"

	"bookbridge/internal/models"
	"bookbridge/internal/repositories"
)

// CartService handles the buyer's working set of candidate purchases.
type CartService struct {
	cartRepo repositories.CartRepository
	bookRepo repositories.BookRepository
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository, bookRepo repositories.BookRepository) *CartService {
	return &CartService{
		cartRepo: cartRepo,
		bookRepo: bookRepo,
	}
}

// GetCartItems retrieves the cart lines for a user.
func (s *CartService) GetCartItems(userID string) ([]models.CartItem, error) {
	return s.cartRepo.FindByUser(userID)
}

// AddToCart adds a book to the user's cart. Adding a book already in the
// cart merges quantities instead of creating a second line. The
// availability check here is a courtesy; the authoritative check is the
// reservation at checkout.
func (s *CartService) AddToCart(userID, bookID string, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1")
	}

	book, err := s.bookRepo.GetByID(bookID)
	if err != nil {
		return nil, err
	}
	if book.Status != models.BookAvailable {
		return nil, fmt.Errorf("%w: book %s is %s", ErrBookNotAvailable, bookID, book.Status)
	}

	existing, err := s.cartRepo.FindByUserAndBook(userID, bookID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		existing.Quantity += quantity
		if err := s.cartRepo.Update(existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	item := &models.CartItem{
		UserID:   userID,
		BookID:   bookID,
		Quantity: quantity,
	}
	if err := s.cartRepo.Create(item); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateQuantity sets the quantity of a cart line owned by the user.
func (s *CartService) UpdateQuantity(userID, cartItemID string, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1")
	}
	item, err := s.cartRepo.GetByID(cartItemID)
	if err != nil {
		return nil, err
	}
	if item.UserID != userID {
		return nil, ErrNotOwner
	}
	item.Quantity = quantity
	if err := s.cartRepo.Update(item); err != nil {
		return nil, err
	}
	return item, nil
}

// RemoveFromCart removes a cart line owned by the user.
func (s *CartService) RemoveFromCart(userID, cartItemID string) error {
	item, err := s.cartRepo.GetByID(cartItemID)
	if err != nil {
		return err
	}
	if item.UserID != userID {
		return ErrNotOwner
	}
	return s.cartRepo.Delete(cartItemID)
}

// ClearCart removes every line in the user's cart.
func (s *CartService) ClearCart(userID string) error {
	return s.cartRepo.DeleteByUser(userID)
}

// CartTotal recomputes the live total of the user's cart from current
// listing prices. Nothing is persisted; order totals are snapshotted
// separately at checkout.
func (s *CartService) CartTotal(userID string) (float64, error) {
	items, err := s.cartRepo.FindByUser(userID)
	if err != nil {
		return 0, err
	}

	var total float64
	for _, item := range items {
		book, err := s.bookRepo.GetByID(item.BookID)
		if err != nil {
			return 0, fmt.Errorf("failed to price cart line %s: %w", item.ID, err)
		}
		total += book.EffectivePrice() * float64(item.Quantity)
	}
	return total, nil
}

// CountCartItems counts the lines in the user's cart.
func (s *CartService) CountCartItems(userID string) (int, error) {
	items, err := s.cartRepo.FindByUser(userID)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}
