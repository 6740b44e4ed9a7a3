package services_test

import (
	"errors"
	"sync"
	"testing"

	"bookbridge/internal/models"
	"bookbridge/internal/repositories"
	"bookbridge/internal/services"

	"github.com/stretchr/testify/assert"
)

func floatPtr(v float64) *float64 {
	return &v
}

func seedBook(t *testing.T, repo *repositories.MockBookRepository, ownerID string, price *float64, listingType models.ListingType, status models.BookStatus) *models.Book {
	t.Helper()
	book := &models.Book{
		Title:       "The Go Programming Language",
		Author:      "Donovan & Kernighan",
		Condition:   models.ConditionGood,
		ListingType: listingType,
		Price:       price,
		UserID:      ownerID,
		Status:      status,
	}
	err := repo.Create(book)
	assert.NoError(t, err)
	return book
}

func TestCreateBook_SellListingRequiresPrice(t *testing.T) {
	repo := repositories.NewMockBookRepository()
	service := services.NewBookService(repo)

	book := &models.Book{
		Title:       "Clean Code",
		ListingType: models.ListingSell,
	}
	err := service.CreateBook("seller-1", book)
	assert.Error(t, err)

	book.Price = floatPtr(450.00)
	err = service.CreateBook("seller-1", book)
	assert.NoError(t, err)
	assert.Equal(t, "seller-1", book.UserID)
	assert.Equal(t, models.BookAvailable, book.Status)
}

func TestCreateBook_DonateListingNeedsNoPrice(t *testing.T) {
	repo := repositories.NewMockBookRepository()
	service := services.NewBookService(repo)

	book := &models.Book{
		Title:       "Old Textbook",
		ListingType: models.ListingDonate,
	}
	err := service.CreateBook("seller-1", book)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, book.EffectivePrice())
}

func TestUpdateBook_OnlyOwnerMayUpdate(t *testing.T) {
	repo := repositories.NewMockBookRepository()
	service := services.NewBookService(repo)
	book := seedBook(t, repo, "seller-1", floatPtr(450.00), models.ListingSell, models.BookAvailable)

	book.Title = "Renamed"
	err := service.UpdateBook("someone-else", book)
	assert.ErrorIs(t, err, services.ErrNotOwner)

	err = service.UpdateBook("seller-1", book)
	assert.NoError(t, err)
}

func TestUpdateBook_NeverChangesAvailability(t *testing.T) {
	repo := repositories.NewMockBookRepository()
	service := services.NewBookService(repo)
	book := seedBook(t, repo, "seller-1", floatPtr(450.00), models.ListingSell, models.BookReserved)

	update := *book
	update.Status = models.BookAvailable
	err := service.UpdateBook("seller-1", &update)
	assert.NoError(t, err)

	stored, err := repo.GetByID(book.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.BookReserved, stored.Status)
}

func TestDeleteBook_SoftDeletes(t *testing.T) {
	repo := repositories.NewMockBookRepository()
	service := services.NewBookService(repo)
	book := seedBook(t, repo, "seller-1", floatPtr(450.00), models.ListingSell, models.BookAvailable)

	err := service.DeleteBook("someone-else", book.ID)
	assert.ErrorIs(t, err, services.ErrNotOwner)

	err = service.DeleteBook("seller-1", book.ID)
	assert.NoError(t, err)

	stored, err := repo.GetByID(book.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.BookDeleted, stored.Status)

	all, err := service.GetAllBooks()
	assert.NoError(t, err)
	assert.Empty(t, all)
}

func TestGetBooksByListingType(t *testing.T) {
	repo := repositories.NewMockBookRepository()
	service := services.NewBookService(repo)
	seedBook(t, repo, "seller-1", floatPtr(450.00), models.ListingSell, models.BookAvailable)
	seedBook(t, repo, "seller-1", nil, models.ListingDonate, models.BookAvailable)
	seedBook(t, repo, "seller-2", nil, models.ListingDonate, models.BookDeleted)

	donations, err := service.GetBooksByListingType(models.ListingDonate)
	assert.NoError(t, err)
	assert.Len(t, donations, 1)
	assert.Equal(t, models.ListingDonate, donations[0].ListingType)
}

func TestReserve_OnlyFromAvailable(t *testing.T) {
	repo := repositories.NewMockBookRepository()
	service := services.NewBookService(repo)
	book := seedBook(t, repo, "seller-1", floatPtr(450.00), models.ListingSell, models.BookAvailable)

	err := service.Reserve(book.ID)
	assert.NoError(t, err)

	err = service.Reserve(book.ID)
	assert.ErrorIs(t, err, services.ErrBookNotAvailable)

	sold := seedBook(t, repo, "seller-1", floatPtr(100.00), models.ListingSell, models.BookSold)
	err = service.Reserve(sold.ID)
	assert.ErrorIs(t, err, services.ErrBookNotAvailable)
}

func TestRelease_IsIdempotent(t *testing.T) {
	repo := repositories.NewMockBookRepository()
	service := services.NewBookService(repo)
	book := seedBook(t, repo, "seller-1", floatPtr(450.00), models.ListingSell, models.BookReserved)

	err := service.Release(book.ID)
	assert.NoError(t, err)

	// Already AVAILABLE: releasing again must not fail or change anything.
	err = service.Release(book.ID)
	assert.NoError(t, err)

	stored, err := repo.GetByID(book.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.BookAvailable, stored.Status)
}

func TestFinalizeSale_RequiresReservation(t *testing.T) {
	repo := repositories.NewMockBookRepository()
	service := services.NewBookService(repo)
	book := seedBook(t, repo, "seller-1", floatPtr(450.00), models.ListingSell, models.BookAvailable)

	err := service.FinalizeSale(book.ID)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrInventoryInconsistent))
	assert.True(t, services.IsFatal(err))

	err = service.Reserve(book.ID)
	assert.NoError(t, err)
	err = service.FinalizeSale(book.ID)
	assert.NoError(t, err)

	stored, err := repo.GetByID(book.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.BookSold, stored.Status)
}

func TestReserve_ConcurrentCallersOneWinner(t *testing.T) {
	repo := repositories.NewMockBookRepository()
	service := services.NewBookService(repo)
	book := seedBook(t, repo, "seller-1", floatPtr(450.00), models.ListingSell, models.BookAvailable)

	const callers = 8
	var wg sync.WaitGroup
	results := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- service.Reserve(book.ID)
		}()
	}
	wg.Wait()
	close(results)

	wins := 0
	for err := range results {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, services.ErrBookNotAvailable)
		}
	}
	assert.Equal(t, 1, wins)
}
