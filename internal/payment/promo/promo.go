// Package promo resolves promotional codes to discount fractions.
package promo

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Discount struct {
	Code string
	// Fraction of the subtotal taken off, e.g. 0.10 for 10%.
	Fraction decimal.Decimal
	Message  string
}

// Resolver maps a promo code to its discount. Implementations return
// (nil, false) for unknown codes.
type Resolver interface {
	Resolve(code string) (*Discount, bool)
}

// StaticResolver holds a fixed code table. Codes match case-insensitively.
type StaticResolver struct {
	discounts map[string]Discount
}

// NewStaticResolver returns the built-in code table.
func NewStaticResolver() *StaticResolver {
	return &StaticResolver{
		discounts: map[string]Discount{
			"TIXMOJO10": {
				Code:     "TIXMOJO10",
				Fraction: decimal.NewFromFloat(0.10),
				Message:  "10% discount applied",
			},
			"EVENT25": {
				Code:     "EVENT25",
				Fraction: decimal.NewFromFloat(0.25),
				Message:  "25% discount applied",
			},
		},
	}
}

func (r *StaticResolver) Resolve(code string) (*Discount, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	d, ok := r.discounts[normalized]
	if !ok {
		return nil, false
	}
	return &d, true
}
