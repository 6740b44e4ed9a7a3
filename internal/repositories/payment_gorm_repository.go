package repositories

import (
	"fmt"

	"bookbridge/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMPaymentRepository is a GORM implementation of PaymentRepository.
type GORMPaymentRepository struct {
	db *gorm.DB
}

// NewGORMPaymentRepository creates a new instance of GORMPaymentRepository.
func NewGORMPaymentRepository(db *gorm.DB) *GORMPaymentRepository {
	return &GORMPaymentRepository{
		db: db,
	}
}

// GetByID retrieves a single payment by its internal ID.
func (r *GORMPaymentRepository) GetByID(id string) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.First(&payment, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("payment with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get payment by ID %s: %w", id, err)
	}
	return &payment, nil
}

// GetByPaymentID retrieves a payment by its external-facing payment ID.
func (r *GORMPaymentRepository) GetByPaymentID(paymentID string) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.First(&payment, "payment_id = ?", paymentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("payment with payment ID %s not found", paymentID)
		}
		return nil, fmt.Errorf("failed to get payment by payment ID %s: %w", paymentID, err)
	}
	return &payment, nil
}

// GetByOrder retrieves all payments bound to an order, newest first.
func (r *GORMPaymentRepository) GetByOrder(orderID string) ([]models.Payment, error) {
	var payments []models.Payment
	if err := r.db.Where("order_id = ?", orderID).Order("created_at DESC").Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("failed to get payments for order %s: %w", orderID, err)
	}
	return payments, nil
}

// GetByStatus retrieves all payments in the given status.
func (r *GORMPaymentRepository) GetByStatus(status models.PaymentStatus) ([]models.Payment, error) {
	var payments []models.Payment
	if err := r.db.Where("status = ?", status).Order("created_at DESC").Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("failed to get payments by status %s: %w", status, err)
	}
	return payments, nil
}

// Create creates a new payment record.
func (r *GORMPaymentRepository) Create(payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if err := r.db.Create(payment).Error; err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// Update updates an existing payment.
func (r *GORMPaymentRepository) Update(payment *models.Payment) error {
	res := r.db.Save(payment)
	if res.Error != nil {
		return fmt.Errorf("failed to update payment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("payment with ID %s not found for update", payment.ID)
	}
	return nil
}

// CompleteWithOrder writes the completed payment and the confirmed order in
// a single transaction so that neither can be recorded without the other.
func (r *GORMPaymentRepository) CompleteWithOrder(payment *models.Payment, order *models.Order) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(payment).Error; err != nil {
			return fmt.Errorf("failed to save completed payment %s: %w", payment.ID, err)
		}
		if err := tx.Omit("Items").Save(order).Error; err != nil {
			return fmt.Errorf("failed to save confirmed order %s: %w", order.ID, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to persist payment completion: %w", err)
	}
	return nil
}
