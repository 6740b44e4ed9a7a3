package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"bookbridge/internal/models"
	"bookbridge/internal/repositories"

	"github.com/google/uuid"
)

// GatewayVerifier is the payment gateway's verification operation.
// Implemented by pkg/esewa.Client.
type GatewayVerifier interface {
	Verify(ctx context.Context, merchantCode, refID string, amount float64, paymentID string) (bool, error)
}

// PaymentConfig holds the gateway parameters the service needs.
type PaymentConfig struct {
	MerchantCode  string
	SuccessURL    string
	FailureURL    string
	VerifyTimeout time.Duration // Bound on a single verification call; zero means 10s
}

// PaymentService reconciles external gateway confirmations against locally
// pending payments, applying each confirmation exactly once.
type PaymentService struct {
	paymentRepo   repositories.PaymentRepository
	orderRepo     repositories.OrderRepository
	notifications *NotificationService
	gateway       GatewayVerifier
	config        PaymentConfig
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(paymentRepo repositories.PaymentRepository, orderRepo repositories.OrderRepository,
	notifications *NotificationService, gateway GatewayVerifier, config PaymentConfig) *PaymentService {
	if config.VerifyTimeout <= 0 {
		config.VerifyTimeout = 10 * time.Second
	}
	return &PaymentService{
		paymentRepo:   paymentRepo,
		orderRepo:     orderRepo,
		notifications: notifications,
		gateway:       gateway,
		config:        config,
	}
}

// InitiatePayment creates a PENDING payment for an order, or returns the
// existing PENDING one: an order has at most one active payment. Orders
// that already have a COMPLETED payment cannot be paid again.
func (s *PaymentService) InitiatePayment(orderID, userID string) (*models.Payment, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrNotOwner
	}

	existing, err := s.paymentRepo.GetByOrder(orderID)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		switch existing[i].Status {
		case models.PaymentCompleted:
			return nil, ErrOrderAlreadyPaid
		case models.PaymentPending:
			return &existing[i], nil
		}
	}

	payment := &models.Payment{
		OrderID:      order.ID,
		PaymentID:    generatePaymentID(),
		Amount:       order.TotalAmount,
		Method:       models.PaymentGateway,
		Status:       models.PaymentPending,
		MerchantCode: s.config.MerchantCode,
	}
	if err := s.paymentRepo.Create(payment); err != nil {
		return nil, fmt.Errorf("failed to create payment for order %s: %w", orderID, err)
	}
	return payment, nil
}

// GatewayParams builds the opaque parameter set the buyer's client submits
// to the gateway to complete payment out-of-band.
func (s *PaymentService) GatewayParams(payment *models.Payment) map[string]string {
	amount := fmt.Sprintf("%.2f", payment.Amount)
	return map[string]string{
		"amt":   amount,
		"pdc":   "0",
		"psc":   "0",
		"txAmt": "0",
		"tAmt":  amount,
		"pid":   payment.PaymentID,
		"scd":   s.config.MerchantCode,
		"su":    s.config.SuccessURL + "?pid=" + payment.PaymentID,
		"fu":    s.config.FailureURL + "?pid=" + payment.PaymentID,
	}
}

// ConfirmPayment reconciles a gateway confirmation for the payment with
// the given external-facing payment ID.
//
// The call is idempotent: once a payment is COMPLETED, repeat calls return
// it unchanged and apply no further effects. Verification failure, gateway
// errors and timeouts all mark the payment FAILED with a reason; the bound
// order stays PENDING so a human or expiry sweep can decide its fate.
func (s *PaymentService) ConfirmPayment(ctx context.Context, paymentID, refID string) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByPaymentID(paymentID)
	if err != nil {
		return nil, err
	}

	// Duplicate or late callbacks must not double-apply effects.
	if payment.Status == models.PaymentCompleted {
		return payment, nil
	}

	verifyCtx, cancel := context.WithTimeout(ctx, s.config.VerifyTimeout)
	defer cancel()
	verified, verifyErr := s.gateway.Verify(verifyCtx, payment.MerchantCode, refID, payment.Amount, payment.PaymentID)

	if verifyErr != nil || !verified {
		reason := "payment verification failed"
		if verifyErr != nil {
			reason = fmt.Sprintf("error during verification: %v", verifyErr)
		}
		payment.Status = models.PaymentFailed
		payment.FailureReason = reason
		if err := s.paymentRepo.Update(payment); err != nil {
			return nil, fmt.Errorf("failed to record payment failure for %s: %w", paymentID, err)
		}
		return payment, nil
	}

	now := time.Now()
	payment.Status = models.PaymentCompleted
	payment.GatewayRefID = refID
	payment.FailureReason = ""
	payment.CompletedAt = &now

	order, err := s.orderRepo.GetByID(payment.OrderID)
	if err != nil {
		log.Printf("ALERT: payment %s verified by gateway but order %s could not be loaded: %v", paymentID, payment.OrderID, err)
		return nil, fmt.Errorf("%w: payment %s: %v", ErrPaymentReconcile, paymentID, err)
	}
	if order.Status == models.OrderPending {
		order.Status = models.OrderConfirmed
	}

	// The gateway believes this payment succeeded; losing the write would
	// be the worst failure in this subsystem. Both rows go in one
	// transaction and a failure is surfaced as fatal, not swallowed.
	if err := s.paymentRepo.CompleteWithOrder(payment, order); err != nil {
		log.Printf("ALERT: payment %s verified by gateway but completion could not be persisted: %v", paymentID, err)
		return nil, fmt.Errorf("%w: payment %s: %v", ErrPaymentReconcile, paymentID, err)
	}

	if err := s.notifications.NotifyBuyerPaymentCompleted(order.UserID, order); err != nil {
		log.Printf("Warning: failed to notify buyer %s about payment %s: %v", order.UserID, paymentID, err)
	}

	return payment, nil
}

// GetPaymentByPaymentID retrieves a payment by its external-facing ID.
func (s *PaymentService) GetPaymentByPaymentID(paymentID string) (*models.Payment, error) {
	return s.paymentRepo.GetByPaymentID(paymentID)
}

// GetPaymentsByOrder retrieves all payments bound to an order.
func (s *PaymentService) GetPaymentsByOrder(orderID string) ([]models.Payment, error) {
	return s.paymentRepo.GetByOrder(orderID)
}

// GetPaymentsByStatus retrieves all payments in the given status.
func (s *PaymentService) GetPaymentsByStatus(status models.PaymentStatus) ([]models.Payment, error) {
	return s.paymentRepo.GetByStatus(status)
}

// generatePaymentID produces the external-facing payment correlation ID.
func generatePaymentID() string {
	return "PMT-" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:12])
}
