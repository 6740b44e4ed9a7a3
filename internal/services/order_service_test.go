package services_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"bookbridge/internal/models"
	"bookbridge/internal/repositories"
	"bookbridge/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type orderFixture struct {
	bookRepo  *repositories.MockBookRepository
	orderRepo *repositories.MockOrderRepository
	cartRepo  *MockCartRepository
	notifRepo *MockNotificationRepository
	books     *services.BookService
	orders    *services.OrderService
}

func newOrderFixture() *orderFixture {
	bookRepo := repositories.NewMockBookRepository()
	orderRepo := repositories.NewMockOrderRepository()
	cartRepo := new(MockCartRepository)
	notifRepo := new(MockNotificationRepository)

	books := services.NewBookService(bookRepo)
	notifications := services.NewNotificationService(notifRepo, nil)
	orders := services.NewOrderService(orderRepo, cartRepo, books, notifications)

	return &orderFixture{
		bookRepo:  bookRepo,
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		notifRepo: notifRepo,
		books:     books,
		orders:    orders,
	}
}

func (f *orderFixture) seedOrder(t *testing.T, userID string, status models.OrderStatus, bookIDs ...string) *models.Order {
	t.Helper()
	items := make([]models.OrderItem, 0, len(bookIDs))
	for _, bookID := range bookIDs {
		items = append(items, models.OrderItem{BookID: bookID, Quantity: 1, UnitPrice: 450.00, LineTotal: 450.00})
	}
	order := &models.Order{
		UserID:      userID,
		OrderNumber: "BB-TEST-" + userID,
		Items:       items,
		TotalAmount: 450.00 * float64(len(items)),
		Status:      status,
	}
	assert.NoError(t, f.orderRepo.Create(order))
	return order
}

func TestCheckout_EmptyCart(t *testing.T) {
	f := newOrderFixture()
	f.cartRepo.On("FindByUser", "buyer-1").Return([]models.CartItem{}, nil)

	_, err := f.orders.Checkout("buyer-1", services.DeliveryInfo{Address: "Kathmandu"})
	assert.ErrorIs(t, err, services.ErrEmptyCart)

	all, _ := f.orderRepo.GetAll()
	assert.Empty(t, all)
}

func TestCheckout_SnapshotsPriceAndReservesBooks(t *testing.T) {
	f := newOrderFixture()
	book := seedBook(t, f.bookRepo, "seller-1", floatPtr(450.00), models.ListingSell, models.BookAvailable)

	f.cartRepo.On("FindByUser", "buyer-1").Return([]models.CartItem{
		{ID: "line-1", UserID: "buyer-1", BookID: book.ID, Quantity: 1},
	}, nil)
	f.cartRepo.On("DeleteByUser", "buyer-1").Return(nil)
	f.notifRepo.On("Create", mock.AnythingOfType("*models.Notification")).Return(nil)

	order, err := f.orders.Checkout("buyer-1", services.DeliveryInfo{Address: "Kathmandu", Phone: "9800000000"})
	assert.NoError(t, err)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, 450.00, order.TotalAmount)
	assert.Len(t, order.Items, 1)
	assert.Equal(t, 450.00, order.Items[0].UnitPrice)
	assert.Contains(t, order.OrderNumber, "BB-")
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 7), order.EstimatedDelivery, time.Minute)

	reserved, err := f.bookRepo.GetByID(book.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.BookReserved, reserved.Status)

	// The seller repricing the listing must not touch the placed order.
	reserved.Price = floatPtr(999.00)
	assert.NoError(t, f.bookRepo.Update(reserved))
	stored, err := f.orderRepo.GetByID(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, 450.00, stored.Items[0].UnitPrice)
	assert.Equal(t, 450.00, stored.TotalAmount)

	f.cartRepo.AssertCalled(t, "DeleteByUser", "buyer-1")
	f.notifRepo.AssertCalled(t, "Create", mock.AnythingOfType("*models.Notification"))
}

func TestCheckout_ConflictReleasesEarlierReservations(t *testing.T) {
	f := newOrderFixture()
	first := seedBook(t, f.bookRepo, "seller-1", floatPtr(450.00), models.ListingSell, models.BookAvailable)
	second := seedBook(t, f.bookRepo, "seller-2", floatPtr(200.00), models.ListingSell, models.BookReserved)

	f.cartRepo.On("FindByUser", "buyer-1").Return([]models.CartItem{
		{ID: "line-1", UserID: "buyer-1", BookID: first.ID, Quantity: 1},
		{ID: "line-2", UserID: "buyer-1", BookID: second.ID, Quantity: 1},
	}, nil)

	_, err := f.orders.Checkout("buyer-1", services.DeliveryInfo{Address: "Kathmandu"})
	assert.ErrorIs(t, err, services.ErrInventoryConflict)

	// The first book's reservation was compensated, nothing was persisted.
	released, _ := f.bookRepo.GetByID(first.ID)
	assert.Equal(t, models.BookAvailable, released.Status)
	all, _ := f.orderRepo.GetAll()
	assert.Empty(t, all)
	f.cartRepo.AssertNotCalled(t, "DeleteByUser", mock.Anything)
}

type failingOrderRepo struct {
	repositories.OrderRepository
}

func (f *failingOrderRepo) Create(order *models.Order) error {
	return errors.New("database is down")
}

func TestCheckout_PersistFailureReleasesReservations(t *testing.T) {
	f := newOrderFixture()
	book := seedBook(t, f.bookRepo, "seller-1", floatPtr(450.00), models.ListingSell, models.BookAvailable)

	notifications := services.NewNotificationService(f.notifRepo, nil)
	orders := services.NewOrderService(&failingOrderRepo{f.orderRepo}, f.cartRepo, f.books, notifications)

	f.cartRepo.On("FindByUser", "buyer-1").Return([]models.CartItem{
		{ID: "line-1", UserID: "buyer-1", BookID: book.ID, Quantity: 1},
	}, nil)

	_, err := orders.Checkout("buyer-1", services.DeliveryInfo{Address: "Kathmandu"})
	assert.Error(t, err)

	released, _ := f.bookRepo.GetByID(book.ID)
	assert.Equal(t, models.BookAvailable, released.Status)
}

func TestCheckout_ConcurrentBuyersOneWinner(t *testing.T) {
	f := newOrderFixture()
	book := seedBook(t, f.bookRepo, "seller-1", floatPtr(450.00), models.ListingSell, models.BookAvailable)

	for _, buyer := range []string{"buyer-1", "buyer-2"} {
		f.cartRepo.On("FindByUser", buyer).Return([]models.CartItem{
			{ID: "line-" + buyer, UserID: buyer, BookID: book.ID, Quantity: 1},
		}, nil)
		f.cartRepo.On("DeleteByUser", buyer).Return(nil)
	}
	f.notifRepo.On("Create", mock.AnythingOfType("*models.Notification")).Return(nil)

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for _, buyer := range []string{"buyer-1", "buyer-2"} {
		wg.Add(1)
		go func(userID string) {
			defer wg.Done()
			_, err := f.orders.Checkout(userID, services.DeliveryInfo{Address: "Kathmandu"})
			results <- err
		}(buyer)
	}
	wg.Wait()
	close(results)

	wins := 0
	for err := range results {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, services.ErrInventoryConflict)
		}
	}
	assert.Equal(t, 1, wins)

	all, _ := f.orderRepo.GetAll()
	assert.Len(t, all, 1)
}

func TestUpdateStatus_RejectsInvalidTransition(t *testing.T) {
	f := newOrderFixture()
	book := seedBook(t, f.bookRepo, "seller-1", floatPtr(450.00), models.ListingSell, models.BookReserved)
	order := f.seedOrder(t, "buyer-1", models.OrderPending, book.ID)

	_, err := f.orders.UpdateStatus(order.ID, models.OrderShipped)
	assert.ErrorIs(t, err, services.ErrInvalidTransition)

	stored, _ := f.orderRepo.GetByID(order.ID)
	assert.Equal(t, models.OrderPending, stored.Status)
	untouched, _ := f.bookRepo.GetByID(book.ID)
	assert.Equal(t, models.BookReserved, untouched.Status)
}

func TestUpdateStatus_TerminalOrdersAreFrozen(t *testing.T) {
	f := newOrderFixture()
	order := f.seedOrder(t, "buyer-1", models.OrderCancelled)

	_, err := f.orders.UpdateStatus(order.ID, models.OrderConfirmed)
	assert.ErrorIs(t, err, services.ErrInvalidTransition)

	_, err = f.orders.UpdateStatus(order.ID, models.OrderCancelled)
	assert.ErrorIs(t, err, services.ErrInvalidTransition)
}

func TestUpdateStatus_CancelReleasesBooks(t *testing.T) {
	f := newOrderFixture()
	book := seedBook(t, f.bookRepo, "seller-1", floatPtr(450.00), models.ListingSell, models.BookReserved)
	order := f.seedOrder(t, "buyer-1", models.OrderPending, book.ID)

	updated, err := f.orders.UpdateStatus(order.ID, models.OrderCancelled)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, updated.Status)

	released, _ := f.bookRepo.GetByID(book.ID)
	assert.Equal(t, models.BookAvailable, released.Status)
}

func TestUpdateStatus_DeliveredFinalizesBooks(t *testing.T) {
	f := newOrderFixture()
	book := seedBook(t, f.bookRepo, "seller-1", floatPtr(450.00), models.ListingSell, models.BookReserved)
	order := f.seedOrder(t, "buyer-1", models.OrderShipped, book.ID)

	f.notifRepo.On("Create", mock.AnythingOfType("*models.Notification")).Return(nil)

	updated, err := f.orders.UpdateStatus(order.ID, models.OrderDelivered)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderDelivered, updated.Status)
	assert.NotNil(t, updated.CompletedAt)

	sold, _ := f.bookRepo.GetByID(book.ID)
	assert.Equal(t, models.BookSold, sold.Status)
	f.notifRepo.AssertCalled(t, "Create", mock.AnythingOfType("*models.Notification"))
}

func TestUpdateStatus_DeliverWithLostReservationIsFatal(t *testing.T) {
	f := newOrderFixture()
	book := seedBook(t, f.bookRepo, "seller-1", floatPtr(450.00), models.ListingSell, models.BookAvailable)
	order := f.seedOrder(t, "buyer-1", models.OrderShipped, book.ID)

	_, err := f.orders.UpdateStatus(order.ID, models.OrderDelivered)
	assert.Error(t, err)
	assert.True(t, services.IsFatal(err))

	stored, _ := f.orderRepo.GetByID(order.ID)
	assert.Equal(t, models.OrderShipped, stored.Status)
}

func TestCancel_OnlyOwnerMayCancel(t *testing.T) {
	f := newOrderFixture()
	book := seedBook(t, f.bookRepo, "seller-1", floatPtr(450.00), models.ListingSell, models.BookReserved)
	order := f.seedOrder(t, "buyer-1", models.OrderPending, book.ID)

	_, err := f.orders.Cancel(order.ID, "someone-else")
	assert.ErrorIs(t, err, services.ErrNotOwner)

	cancelled, err := f.orders.Cancel(order.ID, "buyer-1")
	assert.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, cancelled.Status)
}
