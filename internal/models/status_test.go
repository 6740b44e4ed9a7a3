package models_test

import (
	"testing"

	"bookbridge/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestBookStatusTransitions(t *testing.T) {
	cases := []struct {
		from    models.BookStatus
		to      models.BookStatus
		allowed bool
	}{
		{models.BookAvailable, models.BookReserved, true},
		{models.BookAvailable, models.BookSold, false},
		{models.BookReserved, models.BookAvailable, true},
		{models.BookReserved, models.BookSold, true},
		{models.BookSold, models.BookAvailable, false},
		{models.BookSold, models.BookReserved, false},
		{models.BookAvailable, models.BookDeleted, true},
		{models.BookReserved, models.BookDeleted, true},
		{models.BookSold, models.BookDeleted, true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from    models.OrderStatus
		to      models.OrderStatus
		allowed bool
	}{
		{models.OrderPending, models.OrderConfirmed, true},
		{models.OrderPending, models.OrderShipped, false},
		{models.OrderConfirmed, models.OrderProcessing, true},
		{models.OrderProcessing, models.OrderShipped, true},
		{models.OrderShipped, models.OrderDelivered, true},
		{models.OrderConfirmed, models.OrderDelivered, false},
		{models.OrderPending, models.OrderCancelled, true},
		{models.OrderShipped, models.OrderCancelled, true},
		{models.OrderDelivered, models.OrderCancelled, false},
		{models.OrderCancelled, models.OrderPending, false},
		{models.OrderCancelled, models.OrderCancelled, false},
		{models.OrderDelivered, models.OrderDelivered, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	assert.True(t, models.OrderDelivered.IsTerminal())
	assert.True(t, models.OrderCancelled.IsTerminal())
	assert.False(t, models.OrderPending.IsTerminal())
	assert.False(t, models.OrderShipped.IsTerminal())
}

func TestParseOrderStatus(t *testing.T) {
	status, ok := models.ParseOrderStatus("SHIPPED")
	assert.True(t, ok)
	assert.Equal(t, models.OrderShipped, status)

	_, ok = models.ParseOrderStatus("shipped")
	assert.False(t, ok)
	_, ok = models.ParseOrderStatus("UNKNOWN")
	assert.False(t, ok)
}

func TestListingTypePricing(t *testing.T) {
	assert.True(t, models.ListingSell.RequiresPrice())
	assert.True(t, models.ListingRent.RequiresPrice())
	assert.False(t, models.ListingExchange.RequiresPrice())
	assert.False(t, models.ListingDonate.RequiresPrice())
}

func TestEffectivePrice(t *testing.T) {
	price := 450.00
	sell := models.Book{ListingType: models.ListingSell, Price: &price}
	assert.Equal(t, 450.00, sell.EffectivePrice())

	// A stored price on a non-priced listing kind never charges the buyer.
	donate := models.Book{ListingType: models.ListingDonate, Price: &price}
	assert.Equal(t, 0.0, donate.EffectivePrice())

	unpriced := models.Book{ListingType: models.ListingSell}
	assert.Equal(t, 0.0, unpriced.EffectivePrice())
}
