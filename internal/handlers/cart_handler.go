package handlers

import (
	"fmt"
	"log"
	"strings"

	"bookbridge/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the shopping cart.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Get("/total", h.HandleGetCartTotal)
	cartRoutes.Post("/items", h.HandleAddToCart)
	cartRoutes.Put("/items/:id", h.HandleUpdateQuantity)
	cartRoutes.Delete("/items/:id", h.HandleRemoveFromCart)
	cartRoutes.Delete("/", h.HandleClearCart)
}

// HandleGetCart retrieves the authenticated user's cart lines.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	userID, ok := principalID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Authentication required"})
	}
	items, err := h.service.GetCartItems(userID)
	if err != nil {
		log.Printf("Error getting cart for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve cart",
			"error":   err.Error(),
		})
	}
	return c.JSON(items)
}

// HandleGetCartTotal returns the live recomputed cart total.
func (h *CartHandler) HandleGetCartTotal(c *fiber.Ctx) error {
	userID, ok := principalID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Authentication required"})
	}
	total, err := h.service.CartTotal(userID)
	if err != nil {
		log.Printf("Error computing cart total for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not compute cart total",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"total": total})
}

// AddToCartRequest represents the request body for adding a book to the cart.
type AddToCartRequest struct {
	BookID   string `json:"book_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gte=1"`
}

// HandleAddToCart adds a book to the authenticated user's cart.
func (h *CartHandler) HandleAddToCart(c *fiber.Ctx) error {
	userID, ok := principalID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Authentication required"})
	}

	var req AddToCartRequest
	if err := c.BodyParser(&req); err != nil {
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

	item, err := h.service.AddToCart(userID, req.BookID, req.Quantity)
	if err != nil {
		log.Printf("Error adding book %s to cart for user %s: %v", req.BookID, userID, err)
		status := statusForError(err)
		if strings.Contains(err.Error(), "not found") {
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(fiber.Map{
			"message": "Could not add book to cart",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// UpdateQuantityRequest represents the request body for changing a line quantity.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

// HandleUpdateQuantity sets the quantity of a cart line.
func (h *CartHandler) HandleUpdateQuantity(c *fiber.Ctx) error {
	userID, ok := principalID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Authentication required"})
	}
	cartItemID := c.Params("id")

	var req UpdateQuantityRequest
	if err := c.BodyParser(&req); err != nil {
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

	item, err := h.service.UpdateQuantity(userID, cartItemID, req.Quantity)
	if err != nil {
		log.Printf("Error updating cart item %s: %v", cartItemID, err)
		status := statusForError(err)
		if strings.Contains(err.Error(), "not found") {
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(fiber.Map{
			"message": "Could not update cart item",
			"error":   err.Error(),
		})
	}
	return c.JSON(item)
}

// HandleRemoveFromCart removes a cart line.
func (h *CartHandler) HandleRemoveFromCart(c *fiber.Ctx) error {
	userID, ok := principalID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Authentication required"})
	}
	cartItemID := c.Params("id")

	if err := h.service.RemoveFromCart(userID, cartItemID); err != nil {
		log.Printf("Error removing cart item %s: %v", cartItemID, err)
		status := statusForError(err)
		if strings.Contains(err.Error(), "not found") {
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(fiber.Map{
			"message": "Could not remove cart item",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Cart item %s removed successfully", cartItemID),
	})
}

// HandleClearCart removes every line in the authenticated user's cart.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	userID, ok := principalID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Authentication required"})
	}
	if err := h.service.ClearCart(userID); err != nil {
		log.Printf("Error clearing cart for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not clear cart",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{"message": "Cart cleared successfully"})
}
