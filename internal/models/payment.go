package models

import "time"

// PaymentStatus is the reconciliation state of a payment.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
)

// ParsePaymentStatus validates a raw status string at the API boundary.
func ParsePaymentStatus(raw string) (PaymentStatus, bool) {
	switch PaymentStatus(raw) {
	case PaymentPending, PaymentCompleted, PaymentFailed:
		return PaymentStatus(raw), true
	}
	return "", false
}

// PaymentMethod is how the buyer pays.
type PaymentMethod string

const (
	PaymentGateway PaymentMethod = "GATEWAY" // External gateway (eSewa)
	PaymentCash    PaymentMethod = "CASH"
)

// Payment binds an order to a gateway transaction. At most one payment per
// order may ever be COMPLETED, and a COMPLETED payment is immutable.
type Payment struct {
	ID            string        `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID       string        `json:"order_id" gorm:"index;type:varchar(36)"`
	PaymentID     string        `json:"payment_id" gorm:"uniqueIndex;type:varchar(64)"` // External-facing correlation ID
	Amount        float64       `json:"amount"`
	Method        PaymentMethod `json:"method" gorm:"type:varchar(20)"`
	Status        PaymentStatus `json:"status" gorm:"type:varchar(20);index"`
	MerchantCode  string        `json:"merchant_code" gorm:"type:varchar(64)"`
	GatewayRefID  string        `json:"gateway_ref_id" gorm:"type:varchar(128)"` // Reference issued by the gateway on success
	FailureReason string        `json:"failure_reason"`
	CompletedAt   *time.Time    `json:"completed_at"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}
