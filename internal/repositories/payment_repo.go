package repositories

import (
	"bookbridge/internal/models"
)

// PaymentRepository defines the interface for payment data access.
// CompleteWithOrder persists the completed payment and the confirmed order
// as one transaction; a torn write here would leave a gateway-verified
// payment unrecorded.
type PaymentRepository interface {
	GetByID(id string) (*models.Payment, error)
	GetByPaymentID(paymentID string) (*models.Payment, error)
	GetByOrder(orderID string) ([]models.Payment, error)
	GetByStatus(status models.PaymentStatus) ([]models.Payment, error)
	Create(payment *models.Payment) error
	Update(payment *models.Payment) error
	CompleteWithOrder(payment *models.Payment, order *models.Order) error
}
