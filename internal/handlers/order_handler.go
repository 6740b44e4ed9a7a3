package handlers

import (
	"fmt"
	"log"
	"strings"

	"bookbridge/internal/models"
	"bookbridge/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for checkout and orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the checkout and order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/checkout", h.HandleCheckout)

	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetMyOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Put("/:id/cancel", h.HandleCancelOrder)
}

// RegisterAdminRoutes registers the admin-only order routes.
func (h *OrderHandler) RegisterAdminRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetAllOrders)
	orderRoutes.Put("/:id/status", h.HandleUpdateOrderStatus)
}

// CheckoutRequest represents the request body for checkout.
type CheckoutRequest struct {
	DeliveryAddress string `json:"delivery_address" validate:"required,min=5,max=500"`
	DeliveryPhone   string `json:"delivery_phone" validate:"omitempty,max=32"`
	DeliveryNotes   string `json:"delivery_notes" validate:"omitempty,max=1000"`
}

// HandleCheckout converts the authenticated user's cart into an order.
func (h *OrderHandler) HandleCheckout(c *fiber.Ctx) error {
	userID, ok := principalID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Authentication required"})
	}

	var req CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing checkout request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}

	order, err := h.service.Checkout(userID, services.DeliveryInfo{
		Address: req.DeliveryAddress,
		Phone:   req.DeliveryPhone,
		Notes:   req.DeliveryNotes,
	})
	if err != nil {
		log.Printf("Error during checkout for user %s: %v", userID, err)
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"message": "Checkout failed",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"status":       order.Status,
		"total_amount": order.TotalAmount,
	})
}

// HandleGetMyOrders retrieves the authenticated user's orders.
func (h *OrderHandler) HandleGetMyOrders(c *fiber.Ctx) error {
	userID, ok := principalID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Authentication required"})
	}
	orders, err := h.service.GetOrdersByUser(userID)
	if err != nil {
		log.Printf("Error getting orders for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve orders",
			"error":   err.Error(),
		})
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order. Buyers may only see their
// own orders.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	userID, ok := principalID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Authentication required"})
	}
	orderID := c.Params("id")
	order, err := h.service.GetOrderByID(orderID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Order with ID %s not found", orderID),
			})
		}
		log.Printf("Error getting order by ID %s: %v", orderID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve order",
			"error":   err.Error(),
		})
	}
	if order.UserID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Order does not belong to the requesting user",
		})
	}
	return c.JSON(order)
}

// HandleCancelOrder cancels an order on behalf of its buyer.
func (h *OrderHandler) HandleCancelOrder(c *fiber.Ctx) error {
	userID, ok := principalID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Authentication required"})
	}
	orderID := c.Params("id")

	order, err := h.service.Cancel(orderID, userID)
	if err != nil {
		log.Printf("Error cancelling order %s: %v", orderID, err)
		status := statusForError(err)
		if strings.Contains(err.Error(), "not found") {
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(fiber.Map{
			"message": "Could not cancel order",
			"error":   err.Error(),
		})
	}
	return c.JSON(order)
}

// HandleGetAllOrders retrieves all orders, optionally filtered by status.
// Admin only.
func (h *OrderHandler) HandleGetAllOrders(c *fiber.Ctx) error {
	if raw := c.Query("status"); raw != "" {
		status, ok := models.ParseOrderStatus(strings.ToUpper(raw))
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": fmt.Sprintf("Invalid order status: %s", raw),
			})
		}
		orders, err := h.service.GetOrdersByStatus(status)
		if err != nil {
			log.Printf("Error getting orders by status: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not retrieve orders",
				"error":   err.Error(),
			})
		}
		return c.JSON(orders)
	}

	orders, err := h.service.GetAllOrders()
	if err != nil {
		log.Printf("Error getting all orders: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve orders",
			"error":   err.Error(),
		})
	}
	return c.JSON(orders)
}

// UpdateOrderStatusRequest represents the request body for a status update.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// HandleUpdateOrderStatus moves an order along its lifecycle. Admin only.
// Illegal status values are rejected here, before reaching the service.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")

	var req UpdateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing request body for status update: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body for status update",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Status is required for order status update.",
		})
	}

	status, ok := models.ParseOrderStatus(strings.ToUpper(req.Status))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": fmt.Sprintf("Invalid order status: %s", req.Status),
		})
	}

	order, err := h.service.UpdateStatus(orderID, status)
	if err != nil {
		log.Printf("Error updating order status for order %s: %v", orderID, err)
		if services.IsFatal(err) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Order update hit an inventory inconsistency; operator attention required",
				"error":   err.Error(),
			})
		}
		httpStatus := statusForError(err)
		if strings.Contains(err.Error(), "not found") {
			httpStatus = fiber.StatusNotFound
		}
		return c.Status(httpStatus).JSON(fiber.Map{
			"message": "Could not update order status",
			"error":   err.Error(),
		})
	}
	return c.JSON(order)
}
