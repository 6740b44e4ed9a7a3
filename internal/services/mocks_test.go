package services_test

import (
	"context"

	"bookbridge/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockCartRepository is a mock implementation of repositories.CartRepository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) GetByID(id string) (*models.CartItem, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CartItem), args.Error(1)
}

func (m *MockCartRepository) FindByUser(userID string) ([]models.CartItem, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CartItem), args.Error(1)
}

func (m *MockCartRepository) FindByUserAndBook(userID, bookID string) (*models.CartItem, error) {
	args := m.Called(userID, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CartItem), args.Error(1)
}

func (m *MockCartRepository) Create(item *models.CartItem) error {
	args := m.Called(item)
	return args.Error(0)
}

func (m *MockCartRepository) Update(item *models.CartItem) error {
	args := m.Called(item)
	return args.Error(0)
}

func (m *MockCartRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockCartRepository) DeleteByUser(userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

// MockPaymentRepository is a mock implementation of repositories.PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) GetByID(id string) (*models.Payment, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) GetByPaymentID(paymentID string) (*models.Payment, error) {
	args := m.Called(paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) GetByOrder(orderID string) ([]models.Payment, error) {
	args := m.Called(orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) GetByStatus(status models.PaymentStatus) ([]models.Payment, error) {
	args := m.Called(status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Create(payment *models.Payment) error {
	args := m.Called(payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) Update(payment *models.Payment) error {
	args := m.Called(payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) CompleteWithOrder(payment *models.Payment, order *models.Order) error {
	args := m.Called(payment, order)
	return args.Error(0)
}

// MockNotificationRepository is a mock implementation of repositories.NotificationRepository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) GetByID(id string) (*models.Notification, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) FindByUser(userID string) ([]models.Notification, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) FindUnreadByUser(userID string) ([]models.Notification, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) CountUnreadByUser(userID string) (int64, error) {
	args := m.Called(userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) Create(notification *models.Notification) error {
	args := m.Called(notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) Update(notification *models.Notification) error {
	args := m.Called(notification)
	return args.Error(0)
}

// MockGatewayVerifier is a mock implementation of services.GatewayVerifier
type MockGatewayVerifier struct {
	mock.Mock
}

func (m *MockGatewayVerifier) Verify(ctx context.Context, merchantCode, refID string, amount float64, paymentID string) (bool, error) {
	args := m.Called(ctx, merchantCode, refID, amount, paymentID)
	return args.Bool(0), args.Error(1)
}
