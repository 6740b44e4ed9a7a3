package models

import "gorm.io/gorm"

// BookStatus is the availability state of a listing. Transitions are
// restricted: AVAILABLE->RESERVED, RESERVED->AVAILABLE, RESERVED->SOLD,
// and any state may move to DELETED (soft delete).
type BookStatus string

const (
	BookAvailable BookStatus = "AVAILABLE"
	BookReserved  BookStatus = "RESERVED"
	BookSold      BookStatus = "SOLD"
	BookDeleted   BookStatus = "DELETED"
)

// CanTransitionTo reports whether moving from s to target is a legal edge.
func (s BookStatus) CanTransitionTo(target BookStatus) bool {
	if target == BookDeleted {
		return true
	}
	switch s {
	case BookAvailable:
		return target == BookReserved
	case BookReserved:
		return target == BookAvailable || target == BookSold
	}
	return false
}

// ParseBookStatus validates a raw status string at the API boundary.
func ParseBookStatus(raw string) (BookStatus, bool) {
	switch BookStatus(raw) {
	case BookAvailable, BookReserved, BookSold, BookDeleted:
		return BookStatus(raw), true
	}
	return "", false
}

// ListingType is what kind of transaction the seller is offering.
type ListingType string

const (
	ListingSell     ListingType = "SELL"
	ListingRent     ListingType = "RENT"
	ListingExchange ListingType = "EXCHANGE"
	ListingDonate   ListingType = "DONATE"
)

// RequiresPrice reports whether listings of this type must carry a price.
// SELL and RENT are price-bearing; EXCHANGE and DONATE contribute zero
// to any order total.
func (t ListingType) RequiresPrice() bool {
	return t == ListingSell || t == ListingRent
}

// ParseListingType validates a raw listing type string.
func ParseListingType(raw string) (ListingType, bool) {
	switch ListingType(raw) {
	case ListingSell, ListingRent, ListingExchange, ListingDonate:
		return ListingType(raw), true
	}
	return "", false
}

// BookCondition describes the physical condition of a secondhand book.
type BookCondition string

const (
	ConditionNew     BookCondition = "NEW"
	ConditionLikeNew BookCondition = "LIKE_NEW"
	ConditionGood    BookCondition = "GOOD"
	ConditionFair    BookCondition = "FAIR"
	ConditionPoor    BookCondition = "POOR"
)

// Book represents a secondhand book listing.
type Book struct {
	ID          string        `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	UserID      string        `json:"user_id" gorm:"index;type:varchar(36)"` // Owner (seller)
	Title       string        `json:"title" validate:"required,min=1,max=255"`
	Author      string        `json:"author" validate:"omitempty,max=255"`
	Description string        `json:"description" validate:"omitempty,max=2000"`
	Condition   BookCondition `json:"condition" gorm:"type:varchar(20)"`
	ListingType ListingType   `json:"listing_type" gorm:"type:varchar(20)"`
	Price       *float64      `json:"price" validate:"omitempty,gte=0"` // Required for SELL/RENT listings
	Status      BookStatus    `json:"status" gorm:"type:varchar(20);index;default:AVAILABLE"`
	gorm.Model                // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// EffectivePrice is the amount a buyer pays for one copy. Non-priced
// listing types always cost zero regardless of any stored price.
func (b *Book) EffectivePrice() float64 {
	if b.ListingType.RequiresPrice() && b.Price != nil {
		return *b.Price
	}
	return 0
}
