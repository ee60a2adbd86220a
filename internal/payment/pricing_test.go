package payment

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"tixmojo-server/internal/models"
)

func cart(prices ...float64) []models.CartItem {
	items := make([]models.CartItem, 0, len(prices))
	for _, p := range prices {
		items = append(items, models.CartItem{
			Ticket:   models.TicketInfo{Price: decimal.NewFromFloat(p)},
			Quantity: 1,
		})
	}
	return items
}

func TestComputeSubtotal(t *testing.T) {
	items := []models.CartItem{
		{Ticket: models.TicketInfo{Price: decimal.NewFromInt(50)}, Quantity: 2},
		{Ticket: models.TicketInfo{Price: decimal.NewFromFloat(19.99)}, Quantity: 3},
	}
	assert.Equal(t, "159.97", computeSubtotal(items).StringFixed(2))

	assert.True(t, computeSubtotal(nil).IsZero())
}

func TestComputeTotalsNoDiscount(t *testing.T) {
	totals := computeTotals(decimal.NewFromInt(50), decimal.NewFromInt(10), decimal.Zero)

	assert.Equal(t, "50.00", display(totals.Subtotal))
	assert.Equal(t, "10.00", display(totals.ServiceFee))
	assert.Equal(t, "0.00", display(totals.DiscountAmount))
	assert.Equal(t, "60.00", display(totals.Total))
}

func TestComputeTotalsWithDiscount(t *testing.T) {
	// total = subtotal + fee - subtotal*discount; the fee is never discounted.
	totals := computeTotals(decimal.NewFromInt(100), decimal.NewFromInt(10), decimal.NewFromFloat(0.25))

	assert.Equal(t, "25.00", display(totals.DiscountAmount))
	assert.Equal(t, "85.00", display(totals.Total))
}

func TestAmountInCentsRounding(t *testing.T) {
	// 19.99 * 3 + 10 - 0 = 69.97
	totals := computeTotals(decimal.NewFromFloat(59.97), decimal.NewFromInt(10), decimal.Zero)
	assert.Equal(t, int64(6997), amountInCents(totals.Total))

	// 33.335 rounds half away from zero to 3334 cents.
	assert.Equal(t, int64(3334), amountInCents(decimal.NewFromFloat(33.335)))
}

func TestDecimalAvoidsFloatDrift(t *testing.T) {
	// 0.1 + 0.2 style drift must not reach the cents conversion.
	subtotal := computeSubtotal(cart(0.1, 0.2))
	totals := computeTotals(subtotal, decimal.Zero, decimal.Zero)
	assert.Equal(t, int64(30), amountInCents(totals.Total))
}
