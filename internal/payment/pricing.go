package payment

import (
	"github.com/shopspring/decimal"

	"tixmojo-server/internal/models"
)

var centsPerUnit = decimal.NewFromInt(100)

// Totals is the price breakdown for a session at its current discount.
type Totals struct {
	Subtotal       decimal.Decimal
	ServiceFee     decimal.Decimal
	DiscountAmount decimal.Decimal
	Total          decimal.Decimal
}

// computeSubtotal sums price times quantity across the cart.
func computeSubtotal(items []models.CartItem) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Ticket.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return subtotal
}

// computeTotals applies total = subtotal + serviceFee - subtotal*discount.
// No intermediate rounding; cents and display values round at the edges.
func computeTotals(subtotal, serviceFee, discount decimal.Decimal) Totals {
	discountAmount := subtotal.Mul(discount)
	return Totals{
		Subtotal:       subtotal,
		ServiceFee:     serviceFee,
		DiscountAmount: discountAmount,
		Total:          subtotal.Add(serviceFee).Sub(discountAmount),
	}
}

func sessionTotals(s *models.PaymentSession) Totals {
	return computeTotals(s.Subtotal, s.ServiceFee, s.Discount)
}

// amountInCents converts a total to the currency's smallest unit,
// rounding half away from zero.
func amountInCents(total decimal.Decimal) int64 {
	return total.Mul(centsPerUnit).Round(0).IntPart()
}

// display renders a monetary value with two decimal places.
func display(v decimal.Decimal) string {
	return v.StringFixed(2)
}

func (t Totals) response() map[string]interface{} {
	return map[string]interface{}{
		"subtotal":   display(t.Subtotal),
		"serviceFee": display(t.ServiceFee),
		"discount":   display(t.DiscountAmount),
		"total":      display(t.Total),
	}
}
