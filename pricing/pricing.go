// Package pricing computes order totals in integer minor currency units.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/it21816772/neon---pos/common"
)

// taxRate is the sales tax applied to the order subtotal (7.5%).
var taxRate = decimal.New(75, -3)

// Line is one product/quantity pair with its snapshot unit price.
type Line struct {
	UnitPriceCents int64
	Quantity       int64
}

// Totals is the result of pricing one cart. Total = Subtotal + Tax - Discount.
type Totals struct {
	SubtotalCents int64
	TaxCents      int64
	DiscountCents int64
	TotalCents    int64
}

// Calculate prices the given lines: subtotal is exact integer arithmetic and
// tax is the half-up rounding of subtotal times the tax rate, computed once on the
// subtotal rather than per line. Discounts are reserved and always zero.
func Calculate(lines []Line) (Totals, error) {
	var subtotal int64
	for i, l := range lines {
		if l.Quantity < 1 {
			return Totals{}, &common.InvalidInputError{
				Reason: fmt.Sprintf("line %d: quantity must be at least 1", i),
			}
		}
		if l.UnitPriceCents <= 0 {
			return Totals{}, &common.InvalidInputError{
				Reason: fmt.Sprintf("line %d: unit price must be positive", i),
			}
		}
		subtotal += l.UnitPriceCents * l.Quantity
	}

	// decimal.Round rounds half away from zero, which is half-up for the
	// non-negative subtotals we can reach here.
	tax := decimal.NewFromInt(subtotal).Mul(taxRate).Round(0).IntPart()

	return Totals{
		SubtotalCents: subtotal,
		TaxCents:      tax,
		DiscountCents: 0,
		TotalCents:    subtotal + tax,
	}, nil
}
