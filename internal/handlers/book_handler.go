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

// BookHandler handles HTTP requests for book listings.
type BookHandler struct {
	service  *services.BookService
	validate *validator.Validate
}

// NewBookHandler creates a new BookHandler.
func NewBookHandler(service *services.BookService) *BookHandler {
	return &BookHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the book routes with the Fiber app.
func (h *BookHandler) RegisterRoutes(router fiber.Router) {
	bookRoutes := router.Group("/books")
	bookRoutes.Get("/", h.HandleGetBooks)
	bookRoutes.Get("/my", h.HandleGetMyBooks)
	bookRoutes.Get("/:id", h.HandleGetBookByID)
	bookRoutes.Post("/", h.HandleCreateBook)
	bookRoutes.Put("/:id", h.HandleUpdateBook)
	bookRoutes.Delete("/:id", h.HandleDeleteBook)
}

// BookRequest represents the request body for creating or updating a listing.
type BookRequest struct {
	Title       string   `json:"title" validate:"required,min=1,max=255"`
	Author      string   `json:"author" validate:"omitempty,max=255"`
	Description string   `json:"description" validate:"omitempty,max=2000"`
	Condition   string   `json:"condition"`
	ListingType string   `json:"listing_type" validate:"required"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
}

// HandleGetBooks retrieves all listings, optionally filtered by status or
// listing type.
func (h *BookHandler) HandleGetBooks(c *fiber.Ctx) error {
	if raw := c.Query("listing_type"); raw != "" {
		listingType, ok := models.ParseListingType(strings.ToUpper(raw))
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": fmt.Sprintf("Invalid listing type: %s", raw),
			})
		}
		books, err := h.service.GetBooksByListingType(listingType)
		if err != nil {
			log.Printf("Error getting books by listing type: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not retrieve books",
				"error":   err.Error(),
			})
		}
		return c.JSON(books)
	}

	if raw := c.Query("status"); raw != "" {
		status, ok := models.ParseBookStatus(strings.ToUpper(raw))
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": fmt.Sprintf("Invalid book status: %s", raw),
			})
		}
		books, err := h.service.GetBooksByStatus(status)
		if err != nil {
			log.Printf("Error getting books by status: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not retrieve books",
				"error":   err.Error(),
			})
		}
		return c.JSON(books)
	}

	books, err := h.service.GetAllBooks()
	if err != nil {
		log.Printf("Error getting all books: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve books",
			"error":   err.Error(),
		})
	}
	return c.JSON(books)
}

// HandleGetMyBooks retrieves the authenticated user's own listings.
func (h *BookHandler) HandleGetMyBooks(c *fiber.Ctx) error {
	userID, ok := principalID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Authentication required"})
	}
	books, err := h.service.GetBooksByUser(userID)
	if err != nil {
		log.Printf("Error getting books for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve books",
			"error":   err.Error(),
		})
	}
	return c.JSON(books)
}

// HandleGetBookByID retrieves a single listing by its ID.
func (h *BookHandler) HandleGetBookByID(c *fiber.Ctx) error {
	bookID := c.Params("id")
	book, err := h.service.GetBookByID(bookID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Book with ID %s not found", bookID),
			})
		}
		log.Printf("Error getting book by ID %s: %v", bookID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve book",
			"error":   err.Error(),
		})
	}
	return c.JSON(book)
}

// HandleCreateBook creates a new listing owned by the authenticated user.
func (h *BookHandler) HandleCreateBook(c *fiber.Ctx) error {
	userID, ok := principalID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Authentication required"})
	}

	var req BookRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing book request body: %v", err)
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

	listingType, ok := models.ParseListingType(strings.ToUpper(req.ListingType))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": fmt.Sprintf("Invalid listing type: %s", req.ListingType),
		})
	}

	book := &models.Book{
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		Condition:   models.BookCondition(strings.ToUpper(req.Condition)),
		ListingType: listingType,
		Price:       req.Price,
	}
	if err := h.service.CreateBook(userID, book); err != nil {
		log.Printf("Error creating book: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not create book",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(book)
}

// HandleUpdateBook updates a listing owned by the authenticated user.
func (h *BookHandler) HandleUpdateBook(c *fiber.Ctx) error {
	userID, ok := principalID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Authentication required"})
	}
	bookID := c.Params("id")

	var req BookRequest
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

	listingType, ok := models.ParseListingType(strings.ToUpper(req.ListingType))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": fmt.Sprintf("Invalid listing type: %s", req.ListingType),
		})
	}

	book := &models.Book{
		ID:          bookID,
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		Condition:   models.BookCondition(strings.ToUpper(req.Condition)),
		ListingType: listingType,
		Price:       req.Price,
	}
	if err := h.service.UpdateBook(userID, book); err != nil {
		log.Printf("Error updating book %s: %v", bookID, err)
		status := statusForError(err)
		if strings.Contains(err.Error(), "not found") {
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(fiber.Map{
			"message": "Could not update book",
			"error":   err.Error(),
		})
	}
	return c.JSON(book)
}

// HandleDeleteBook soft-deletes a listing owned by the authenticated user.
func (h *BookHandler) HandleDeleteBook(c *fiber.Ctx) error {
	userID, ok := principalID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Authentication required"})
	}
	bookID := c.Params("id")

	if err := h.service.DeleteBook(userID, bookID); err != nil {
		log.Printf("Error deleting book %s: %v", bookID, err)
		status := statusForError(err)
		if strings.Contains(err.Error(), "not found") {
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(fiber.Map{
			"message": "Could not delete book",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Book %s deleted successfully", bookID),
	})
}
