package repositories

import (
	"fmt"

	"bookbridge/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMBookRepository is a GORM implementation of BookRepository.
type GORMBookRepository struct {
	db *gorm.DB
}

// NewGORMBookRepository creates a new instance of GORMBookRepository.
func NewGORMBookRepository(db *gorm.DB) *GORMBookRepository {
	return &GORMBookRepository{
		db: db,
	}
}

// GetAll retrieves all non-deleted book listings from the database.
func (r *GORMBookRepository) GetAll() ([]models.Book, error) {
	var books []models.Book
	if err := r.db.Where("status <> ?", models.BookDeleted).Find(&books).Error; err != nil {
		return nil, fmt.Errorf("failed to get all books: %w", err)
	}
	return books, nil
}

// GetByID retrieves a single book by its ID from the database.
func (r *GORMBookRepository) GetByID(id string) (*models.Book, error) {
	var book models.Book
	if err := r.db.First(&book, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("book with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get book by ID %s: %w", id, err)
	}
	return &book, nil
}

// GetByUser retrieves all listings owned by a user, including sold and
// deleted ones so sellers can see their full history.
func (r *GORMBookRepository) GetByUser(userID string) ([]models.Book, error) {
	var books []models.Book
	if err := r.db.Where("user_id = ?", userID).Find(&books).Error; err != nil {
		return nil, fmt.Errorf("failed to get books for user %s: %w", userID, err)
	}
	return books, nil
}

// GetByStatus retrieves all books in the given status.
func (r *GORMBookRepository) GetByStatus(status models.BookStatus) ([]models.Book, error) {
	var books []models.Book
	if err := r.db.Where("status = ?", status).Find(&books).Error; err != nil {
		return nil, fmt.Errorf("failed to get books by status %s: %w", status, err)
	}
	return books, nil
}

// GetByListingType retrieves all non-deleted books of the given listing type.
func (r *GORMBookRepository) GetByListingType(listingType models.ListingType) ([]models.Book, error) {
	var books []models.Book
	if err := r.db.Where("listing_type = ? AND status <> ?", listingType, models.BookDeleted).Find(&books).Error; err != nil {
		return nil, fmt.Errorf("failed to get books by listing type %s: %w", listingType, err)
	}
	return books, nil
}

// Create creates a new book listing in the database.
func (r *GORMBookRepository) Create(book *models.Book) error {
	if book.ID == "" {
		book.ID = uuid.New().String()
	}
	if book.Status == "" {
		book.Status = models.BookAvailable
	}
	if err := r.db.Create(book).Error; err != nil {
		return fmt.Errorf("failed to create book: %w", err)
	}
	return nil
}

// Update updates an existing book in the database.
func (r *GORMBookRepository) Update(book *models.Book) error {
	res := r.db.Save(book) // Save will update all fields, including zero values
	if res.Error != nil {
		return fmt.Errorf("failed to update book: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("book with ID %s not found for update", book.ID)
	}
	return nil
}

// UpdateStatusWhere atomically moves a book from one status to another.
// The WHERE clause on the current status makes this a compare-and-set: of
// two racing callers, at most one sees a row affected.
func (r *GORMBookRepository) UpdateStatusWhere(id string, from, to models.BookStatus) (bool, error) {
	res := r.db.Model(&models.Book{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, fmt.Errorf("failed to transition book %s from %s to %s: %w", id, from, to, res.Error)
	}
	return res.RowsAffected > 0, nil
}
