// Package pricing holds the discount and VAT policies applied to a sale subtotal.
package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// DiscountPolicy computes the discount value for a subtotal.
type DiscountPolicy interface {
	ApplyDiscount(subtotal, flatAmount, percent decimal.Decimal) decimal.Decimal
}

// VATPolicy computes the VAT owed on an amount that already had its discount applied.
type VATPolicy interface {
	CalculateVAT(amountAfterDiscount, percent decimal.Decimal) decimal.Decimal
}

// PercentageDiscount takes percent of the subtotal.
type PercentageDiscount struct{}

func (PercentageDiscount) ApplyDiscount(subtotal, _, percent decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(percent).Div(hundred)
}

// FlatDiscount returns the flat amount verbatim.
type FlatDiscount struct{}

func (FlatDiscount) ApplyDiscount(_, flatAmount, _ decimal.Decimal) decimal.Decimal {
	return flatAmount
}

// NoDiscount never discounts.
type NoDiscount struct{}

func (NoDiscount) ApplyDiscount(_, _, _ decimal.Decimal) decimal.Decimal {
	return decimal.Zero
}

// StandardVAT charges percent of the discounted amount.
type StandardVAT struct{}

func (StandardVAT) CalculateVAT(amountAfterDiscount, percent decimal.Decimal) decimal.Decimal {
	return amountAfterDiscount.Mul(percent).Div(hundred)
}

// NoVAT is used for VAT-exempt deployments.
type NoVAT struct{}

func (NoVAT) CalculateVAT(_, _ decimal.Decimal) decimal.Decimal {
	return decimal.Zero
}

// DiscountPolicyByName resolves the configured discount policy: percentage, flat or none.
func DiscountPolicyByName(name string) (DiscountPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "percentage", "percent":
		return PercentageDiscount{}, nil
	case "flat":
		return FlatDiscount{}, nil
	case "none":
		return NoDiscount{}, nil
	default:
		return nil, fmt.Errorf("unknown discount policy %q", name)
	}
}

// VATPolicyByName resolves the configured VAT policy: standard or none.
func VATPolicyByName(name string) (VATPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "standard":
		return StandardVAT{}, nil
	case "none":
		return NoVAT{}, nil
	default:
		return nil, fmt.Errorf("unknown VAT policy %q", name)
	}
}
