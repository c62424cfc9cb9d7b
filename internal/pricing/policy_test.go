package pricing_test

import (
	"testing"

	"tokopos/internal/pricing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestDiscountPolicies(t *testing.T) {
	tests := []struct {
		name     string
		policy   pricing.DiscountPolicy
		subtotal string
		flat     string
		percent  string
		want     string
	}{
		{"percentage", pricing.PercentageDiscount{}, "1000", "0", "10", "100"},
		{"percentage ignores flat", pricing.PercentageDiscount{}, "250", "40", "20", "50"},
		{"flat", pricing.FlatDiscount{}, "1000", "75.50", "10", "75.50"},
		{"none", pricing.NoDiscount{}, "1000", "75", "10", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.policy.ApplyDiscount(d(tt.subtotal), d(tt.flat), d(tt.percent))
			assert.True(t, d(tt.want).Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestVATPolicies(t *testing.T) {
	assert.True(t, d("135").Equal(pricing.StandardVAT{}.CalculateVAT(d("900"), d("15"))))
	assert.True(t, decimal.Zero.Equal(pricing.NoVAT{}.CalculateVAT(d("900"), d("15"))))
}

func TestPolicyByName(t *testing.T) {
	p, err := pricing.DiscountPolicyByName("Flat")
	require.NoError(t, err)
	assert.IsType(t, pricing.FlatDiscount{}, p)

	p, err = pricing.DiscountPolicyByName("")
	require.NoError(t, err)
	assert.IsType(t, pricing.PercentageDiscount{}, p)

	_, err = pricing.DiscountPolicyByName("bogus")
	assert.Error(t, err)

	v, err := pricing.VATPolicyByName("none")
	require.NoError(t, err)
	assert.IsType(t, pricing.NoVAT{}, v)

	_, err = pricing.VATPolicyByName("reduced")
	assert.Error(t, err)
}

func TestCalculator(t *testing.T) {
	calc := pricing.NewCalculator(pricing.PercentageDiscount{}, pricing.StandardVAT{}, pricing.Settings{
		DiscountPercent: d("10"),
		VATPercent:      d("15"),
	})

	b := calc.Calculate(d("1000"))
	assert.True(t, d("100").Equal(b.Discount))
	assert.True(t, d("900").Equal(b.AfterDiscount))
	assert.True(t, d("135").Equal(b.VAT))
	assert.True(t, d("1035").Equal(b.Total))
}

func TestCalculatorClampsFlatDiscount(t *testing.T) {
	calc := pricing.NewCalculator(pricing.FlatDiscount{}, pricing.StandardVAT{}, pricing.Settings{
		DiscountFlat: d("50"),
		VATPercent:   d("15"),
	})

	b := calc.Calculate(d("20"))
	assert.True(t, d("20").Equal(b.Discount))
	assert.True(t, decimal.Zero.Equal(b.Total))
}
