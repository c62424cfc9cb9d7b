package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := FromViper(New())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 3, cfg.SalesMaxConcurrent)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, 10*time.Second, cfg.SaleTxTimeout)
	assert.True(t, decimal.NewFromInt(10).Equal(cfg.DiscountPercent))
	assert.True(t, decimal.NewFromInt(15).Equal(cfg.VATPercent))
	assert.True(t, cfg.DiscountFlat.IsZero())
	assert.Empty(t, cfg.RabbitMQURL)
	assert.False(t, cfg.IsProduction())
}

func TestFromViper_Overrides(t *testing.T) {
	v := New()
	v.Set("DISCOUNT_POLICY", "flat")
	v.Set("DISCOUNT_FLAT", "25.50")
	v.Set("VAT_PERCENT", "11")
	v.Set("SALES_MAX_CONCURRENT", 5)
	v.Set("APP_ENV", "production")

	cfg, err := FromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "flat", cfg.DiscountPolicy)
	assert.True(t, decimal.RequireFromString("25.50").Equal(cfg.DiscountFlat))
	assert.True(t, decimal.NewFromInt(11).Equal(cfg.VATPercent))
	assert.Equal(t, 5, cfg.SalesMaxConcurrent)
	assert.True(t, cfg.IsProduction())
}

func TestFromViper_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value interface{}
	}{
		{"percent not a number", "DISCOUNT_PERCENT", "ten"},
		{"percent above 100", "VAT_PERCENT", "150"},
		{"negative flat discount", "DISCOUNT_FLAT", "-1"},
		{"negative retries", "SALE_TX_RETRIES", -1},
		{"zero timeout", "SALE_TX_TIMEOUT", "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.Set(tt.key, tt.value)
			_, err := FromViper(v)
			assert.Error(t, err)
		})
	}
}
