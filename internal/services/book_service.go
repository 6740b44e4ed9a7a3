package services

import (
	"fmt"

	"bookbridge/internal/models"
	"bookbridge/internal/repositories"
)

// BookService handles business logic related to book listings, including
// the availability state machine the order flow depends on.
type BookService struct {
	repo repositories.BookRepository
}

// NewBookService creates a new BookService.
func NewBookService(repo repositories.BookRepository) *BookService {
	return &BookService{
		repo: repo,
	}
}

// GetAllBooks retrieves all non-deleted book listings.
func (s *BookService) GetAllBooks() ([]models.Book, error) {
	return s.repo.GetAll()
}

// GetBookByID retrieves a single book by its ID.
func (s *BookService) GetBookByID(id string) (*models.Book, error) {
	return s.repo.GetByID(id)
}

// GetBooksByUser retrieves all listings owned by a user.
func (s *BookService) GetBooksByUser(userID string) ([]models.Book, error) {
	return s.repo.GetByUser(userID)
}

// GetBooksByStatus retrieves all books in the given status.
func (s *BookService) GetBooksByStatus(status models.BookStatus) ([]models.Book, error) {
	return s.repo.GetByStatus(status)
}

// GetBooksByListingType retrieves all listings of the given type.
func (s *BookService) GetBooksByListingType(listingType models.ListingType) ([]models.Book, error) {
	return s.repo.GetByListingType(listingType)
}

// CreateBook creates a new listing owned by the given user. Price-bearing
// listing types (SELL, RENT) must carry a non-negative price.
func (s *BookService) CreateBook(ownerID string, book *models.Book) error {
	book.UserID = ownerID
	book.Status = models.BookAvailable
	if err := validatePrice(book); err != nil {
		return err
	}
	return s.repo.Create(book)
}

// UpdateBook updates listing details. Only the owner may update, and the
// availability status is never changed through this path; it moves only
// via Reserve/Release/FinalizeSale and DeleteBook.
func (s *BookService) UpdateBook(userID string, book *models.Book) error {
	existing, err := s.repo.GetByID(book.ID)
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		return ErrNotOwner
	}
	book.UserID = existing.UserID
	book.Status = existing.Status
	if err := validatePrice(book); err != nil {
		return err
	}
	return s.repo.Update(book)
}

// DeleteBook soft-deletes a listing by moving it to DELETED. The row is
// retained because order lines may still reference it. Only the owner may
// delete.
func (s *BookService) DeleteBook(userID, bookID string) error {
	book, err := s.repo.GetByID(bookID)
	if err != nil {
		return err
	}
	if book.UserID != userID {
		return ErrNotOwner
	}
	book.Status = models.BookDeleted
	return s.repo.Update(book)
}

// Reserve places a hold on a book for an in-flight order. It succeeds only
// if the book is currently AVAILABLE; of two racing reservations exactly
// one wins and the other gets ErrBookNotAvailable.
func (s *BookService) Reserve(bookID string) error {
	ok, err := s.repo.UpdateStatusWhere(bookID, models.BookAvailable, models.BookReserved)
	if err != nil {
		return err
	}
	if !ok {
		return ErrBookNotAvailable
	}
	return nil
}

// Release returns a reserved book to AVAILABLE. It is an idempotent no-op
// when the book is already AVAILABLE, so compensation paths can call it
// without tracking exactly which reservations went through.
func (s *BookService) Release(bookID string) error {
	_, err := s.repo.UpdateStatusWhere(bookID, models.BookReserved, models.BookAvailable)
	return err
}

// FinalizeSale moves a reserved book to SOLD. Finding the book in any
// other state means the orchestration lost track of a reservation, which
// is an invariant breach, not a user error.
func (s *BookService) FinalizeSale(bookID string) error {
	ok, err := s.repo.UpdateStatusWhere(bookID, models.BookReserved, models.BookSold)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: book %s is not RESERVED, cannot finalize sale", ErrInventoryInconsistent, bookID)
	}
	return nil
}

func validatePrice(book *models.Book) error {
	if book.ListingType.RequiresPrice() {
		if book.Price == nil || *book.Price < 0 {
			return fmt.Errorf("%s listings require a non-negative price", book.ListingType)
		}
	}
	return nil
}
