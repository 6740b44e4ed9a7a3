package models

import "time"

// CartItem is one line of a buyer's cart. A user has at most one line per
// book; adding the same book again merges into the existing quantity.
type CartItem struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"uniqueIndex:idx_cart_user_book;type:varchar(36)"`
	BookID    string    `json:"book_id" gorm:"uniqueIndex:idx_cart_user_book;type:varchar(36)"`
	Quantity  int       `json:"quantity" validate:"required,gte=1"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
