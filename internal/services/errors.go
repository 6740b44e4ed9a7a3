package services

import "errors"

// User errors: reported to the caller with enough detail to retry or
// correct, never retried automatically.
var (
	ErrEmptyCart         = errors.New("cart is empty, nothing to checkout")
	ErrBookNotAvailable  = errors.New("book is not available")
	ErrInventoryConflict = errors.New("a book in the cart was taken by another buyer")
	ErrInvalidTransition = errors.New("illegal order status transition")
	ErrNotOwner          = errors.New("resource does not belong to the requesting user")
	ErrOrderAlreadyPaid  = errors.New("order already has a completed payment")
)

// Fatal errors: a broken invariant that must halt the operation and be
// surfaced loudly, never silently swallowed.
var (
	// ErrInventoryInconsistent means a sale was finalized on a book that
	// was not reserved. Only an orchestration bug can produce this.
	ErrInventoryInconsistent = errors.New("inventory state inconsistent")

	// ErrPaymentReconcile means the gateway verified a payment but the
	// completion could not be persisted. The payment must be reconciled
	// by an operator.
	ErrPaymentReconcile = errors.New("verified payment could not be recorded")
)

// IsFatal reports whether err indicates a broken invariant rather than a
// user or transient failure.
func IsFatal(err error) bool {
	return errors.Is(err, ErrInventoryInconsistent) || errors.Is(err, ErrPaymentReconcile)
}
