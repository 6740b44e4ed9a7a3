package repositories

import (
	"fmt"
	"sync"

	"bookbridge/internal/models"

	"github.com/google/uuid"
)

// MockBookRepository is an in-memory implementation of BookRepository.
// The mutex gives UpdateStatusWhere the same one-winner semantics as the
// SQL compare-and-set, so reservation races can be tested without a DB.
type MockBookRepository struct {
	books map[string]models.Book
	mu    sync.RWMutex
}

// NewMockBookRepository creates a new instance of MockBookRepository.
func NewMockBookRepository() *MockBookRepository {
	return &MockBookRepository{
		books: make(map[string]models.Book),
	}
}

// GetAll returns all non-deleted books.
func (r *MockBookRepository) GetAll() ([]models.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bookList := make([]models.Book, 0, len(r.books))
	for _, book := range r.books {
		if book.Status != models.BookDeleted {
			bookList = append(bookList, book)
		}
	}
	return bookList, nil
}

// GetByID returns a book by its ID.
func (r *MockBookRepository) GetByID(id string) (*models.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	book, ok := r.books[id]
	if !ok {
		return nil, fmt.Errorf("book with ID %s not found", id)
	}
	return &book, nil
}

// GetByUser returns all books owned by a user.
func (r *MockBookRepository) GetByUser(userID string) ([]models.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var bookList []models.Book
	for _, book := range r.books {
		if book.UserID == userID {
			bookList = append(bookList, book)
		}
	}
	return bookList, nil
}

// GetByStatus returns all books in the given status.
func (r *MockBookRepository) GetByStatus(status models.BookStatus) ([]models.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var bookList []models.Book
	for _, book := range r.books {
		if book.Status == status {
			bookList = append(bookList, book)
		}
	}
	return bookList, nil
}

// GetByListingType returns all non-deleted books of the given listing type.
func (r *MockBookRepository) GetByListingType(listingType models.ListingType) ([]models.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var bookList []models.Book
	for _, book := range r.books {
		if book.ListingType == listingType && book.Status != models.BookDeleted {
			bookList = append(bookList, book)
		}
	}
	return bookList, nil
}

// Create adds a new book.
func (r *MockBookRepository) Create(book *models.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if book.ID == "" {
		book.ID = uuid.New().String()
	}
	if book.Status == "" {
		book.Status = models.BookAvailable
	}
	r.books[book.ID] = *book
	return nil
}

// Update replaces an existing book.
func (r *MockBookRepository) Update(book *models.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.books[book.ID]; !ok {
		return fmt.Errorf("book with ID %s not found for update", book.ID)
	}
	r.books[book.ID] = *book
	return nil
}

// UpdateStatusWhere applies the transition only if the book is still in
// the expected state, under the repository lock.
func (r *MockBookRepository) UpdateStatusWhere(id string, from, to models.BookStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	book, ok := r.books[id]
	if !ok || book.Status != from {
		return false, nil
	}
	book.Status = to
	r.books[id] = book
	return true, nil
}
