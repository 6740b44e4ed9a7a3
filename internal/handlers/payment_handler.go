package handlers

import (
	"fmt"
	"log"
	"strings"

	"bookbridge/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// PaymentHandler handles HTTP requests for payment initiation and
// gateway confirmation callbacks.
type PaymentHandler struct {
	service  *services.PaymentService
	validate *validator.Validate
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(service *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the payment routes with the Fiber app.
func (h *PaymentHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/orders/:id/payment", h.HandleInitiatePayment)

	paymentRoutes := router.Group("/payments")
	paymentRoutes.Get("/:id", h.HandleGetPayment)
	paymentRoutes.Post("/:id/confirm", h.HandleConfirmPayment)
}

// HandleInitiatePayment creates (or returns) the pending payment for an
// order and hands back the gateway parameters the buyer needs.
func (h *PaymentHandler) HandleInitiatePayment(c *fiber.Ctx) error {
	userID, ok := principalID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Authentication required"})
	}
	orderID := c.Params("id")

	payment, err := h.service.InitiatePayment(orderID, userID)
	if err != nil {
		log.Printf("Error initiating payment for order %s: %v", orderID, err)
		status := statusForError(err)
		if strings.Contains(err.Error(), "not found") {
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(fiber.Map{
			"message": "Could not initiate payment",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"payment":        payment,
		"gateway_params": h.service.GatewayParams(payment),
	})
}

// HandleGetPayment retrieves a payment by its external-facing payment ID.
func (h *PaymentHandler) HandleGetPayment(c *fiber.Ctx) error {
	paymentID := c.Params("id")
	payment, err := h.service.GetPaymentByPaymentID(paymentID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Payment %s not found", paymentID),
			})
		}
		log.Printf("Error getting payment %s: %v", paymentID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve payment",
			"error":   err.Error(),
		})
	}
	return c.JSON(payment)
}

// ConfirmPaymentRequest represents the gateway confirmation callback body.
type ConfirmPaymentRequest struct {
	RefID string `json:"ref_id" validate:"required"`
}

// HandleConfirmPayment reconciles a gateway confirmation. Safe to call
// repeatedly with the same arguments: a COMPLETED payment is returned
// unchanged.
func (h *PaymentHandler) HandleConfirmPayment(c *fiber.Ctx) error {
	paymentID := c.Params("id")

	var req ConfirmPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing payment confirmation body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "ref_id is required for payment confirmation.",
		})
	}

	payment, err := h.service.ConfirmPayment(c.UserContext(), paymentID, req.RefID)
	if err != nil {
		log.Printf("Error confirming payment %s: %v", paymentID, err)
		if services.IsFatal(err) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Payment was verified but could not be recorded; operator attention required",
				"error":   err.Error(),
			})
		}
		status := statusForError(err)
		if strings.Contains(err.Error(), "not found") {
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(fiber.Map{
			"message": "Could not confirm payment",
			"error":   err.Error(),
		})
	}
	return c.JSON(payment)
}
