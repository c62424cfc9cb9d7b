package pricing

import "github.com/shopspring/decimal"

// Settings are the configured pricing parameters.
type Settings struct {
	DiscountPercent decimal.Decimal
	DiscountFlat    decimal.Decimal
	VATPercent      decimal.Decimal
}

// Breakdown is the result of pricing one subtotal.
type Breakdown struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	AfterDiscount decimal.Decimal `json:"after_discount"`
	VAT           decimal.Decimal `json:"vat"`
	Total         decimal.Decimal `json:"total"`
}

// Calculator composes a discount policy and a VAT policy.
type Calculator struct {
	discount DiscountPolicy
	vat      VATPolicy
	settings Settings
}

// NewCalculator creates a Calculator.
func NewCalculator(discount DiscountPolicy, vat VATPolicy, settings Settings) *Calculator {
	return &Calculator{
		discount: discount,
		vat:      vat,
		settings: settings,
	}
}

// Calculate prices a subtotal. The discount never exceeds the subtotal nor goes below zero.
func (c *Calculator) Calculate(subtotal decimal.Decimal) Breakdown {
	discount := c.discount.ApplyDiscount(subtotal, c.settings.DiscountFlat, c.settings.DiscountPercent).Round(2)
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	afterDiscount := subtotal.Sub(discount)
	vat := c.vat.CalculateVAT(afterDiscount, c.settings.VATPercent).Round(2)

	return Breakdown{
		Subtotal:      subtotal,
		Discount:      discount,
		AfterDiscount: afterDiscount,
		VAT:           vat,
		Total:         afterDiscount.Add(vat),
	}
}
