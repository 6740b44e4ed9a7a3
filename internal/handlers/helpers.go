package handlers

import (
	"errors"

	"bookbridge/internal/services"

	"github.com/gofiber/fiber/v2"
)

// principalID extracts the authenticated user's ID placed in the request
// context by the auth middleware.
func principalID(c *fiber.Ctx) (string, bool) {
	userID, ok := c.Locals("user_id").(string)
	return userID, ok && userID != ""
}

// statusForError maps service errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrOrderAlreadyPaid):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrNotOwner):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrInventoryConflict),
		errors.Is(err, services.ErrBookNotAvailable):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
