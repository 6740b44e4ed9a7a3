package models

import "time"

// OrderStatus is the order lifecycle state. The happy path is
// PENDING -> CONFIRMED -> PROCESSING -> SHIPPED -> DELIVERED; CANCELLED is
// reachable from any non-terminal state. DELIVERED and CANCELLED are
// terminal.
type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderConfirmed  OrderStatus = "CONFIRMED"
	OrderProcessing OrderStatus = "PROCESSING"
	OrderShipped    OrderStatus = "SHIPPED"
	OrderDelivered  OrderStatus = "DELIVERED"
	OrderCancelled  OrderStatus = "CANCELLED"
)

// IsTerminal reports whether no further transition is permitted.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// CanTransitionTo reports whether moving from s to target is a legal edge.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if target == OrderCancelled {
		return true
	}
	switch s {
	case OrderPending:
		return target == OrderConfirmed
	case OrderConfirmed:
		return target == OrderProcessing
	case OrderProcessing:
		return target == OrderShipped
	case OrderShipped:
		return target == OrderDelivered
	}
	return false
}

// ParseOrderStatus validates a raw status string at the API boundary.
func ParseOrderStatus(raw string) (OrderStatus, bool) {
	switch OrderStatus(raw) {
	case OrderPending, OrderConfirmed, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return OrderStatus(raw), true
	}
	return "", false
}

// OrderItem is a single line within an order. UnitPrice is copied from the
// book at order-creation time; later price edits never touch it.
type OrderItem struct {
	ID        string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID   string  `json:"order_id" gorm:"index;type:varchar(36)"`
	BookID    string  `json:"book_id" gorm:"index;type:varchar(36)"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"` // Price snapshot at time of order
	LineTotal float64 `json:"line_total"`
}

// Order represents a buyer's order. TotalAmount is immutable once the
// order items are attached.
type Order struct {
	ID                string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID            string      `json:"user_id" gorm:"index;type:varchar(36)"`
	OrderNumber       string      `json:"order_number" gorm:"uniqueIndex;type:varchar(64)"`
	Items             []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
	TotalAmount       float64     `json:"total_amount"`
	Status            OrderStatus `json:"status" gorm:"type:varchar(20);index"`
	DeliveryAddress   string      `json:"delivery_address"`
	DeliveryPhone     string      `json:"delivery_phone"`
	DeliveryNotes     string      `json:"delivery_notes"`
	EstimatedDelivery time.Time   `json:"estimated_delivery"`
	CompletedAt       *time.Time  `json:"completed_at"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}
