package repositories

import (
	"bookbridge/internal/models"
)

// BookRepository defines the interface for book listing data access.
// UpdateStatusWhere is the compare-and-set primitive the order flow relies
// on: it only applies the transition if the row is still in the expected
// state, and reports whether it did.
type BookRepository interface {
	GetAll() ([]models.Book, error)
	GetByID(id string) (*models.Book, error)
	GetByUser(userID string) ([]models.Book, error)
	GetByStatus(status models.BookStatus) ([]models.Book, error)
	GetByListingType(listingType models.ListingType) ([]models.Book, error)
	Create(book *models.Book) error
	Update(book *models.Book) error
	UpdateStatusWhere(id string, from, to models.BookStatus) (bool, error)
}
