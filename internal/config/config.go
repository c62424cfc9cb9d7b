package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds every runtime setting of the service.
type Config struct {
	AppPort string
	AppEnv  string

	DBDriver    string
	DatabaseDSN string

	JWTSecret string
	TokenTTL  time.Duration

	RabbitMQURL string

	SalesMaxConcurrent int
	SaleTxTimeout      time.Duration
	SaleTxRetries      int

	DiscountPolicy  string
	DiscountPercent decimal.Decimal
	DiscountFlat    decimal.Decimal
	VATPolicy       string
	VATPercent      decimal.Decimal

	AdminUsername string
	AdminPassword string
	AdminEmail    string
}

// New returns a viper instance with every key defaulted and bound to the environment.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "file:tokopos.db?cache=shared&_busy_timeout=5000")
	v.SetDefault("JWT_SECRET", "change-me")
	v.SetDefault("TOKEN_TTL", "1h")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("SALES_MAX_CONCURRENT", 3)
	v.SetDefault("SALE_TX_TIMEOUT", "10s")
	v.SetDefault("SALE_TX_RETRIES", 3)
	v.SetDefault("DISCOUNT_POLICY", "percentage")
	v.SetDefault("DISCOUNT_PERCENT", "10")
	v.SetDefault("DISCOUNT_FLAT", "0")
	v.SetDefault("VAT_POLICY", "standard")
	v.SetDefault("VAT_PERCENT", "15")
	v.SetDefault("ADMIN_USERNAME", "")
	v.SetDefault("ADMIN_PASSWORD", "")
	v.SetDefault("ADMIN_EMAIL", "")
	v.AutomaticEnv()
	return v
}

// Load reads an optional .env file, then the environment.
func Load() (*Config, error) {
	// A missing .env is fine; the environment alone is a complete configuration.
	_ = godotenv.Load()
	return FromViper(New())
}

// FromViper converts the raw settings held by v into a Config.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppPort:            v.GetString("APP_PORT"),
		AppEnv:             v.GetString("APP_ENV"),
		DBDriver:           v.GetString("DB_DRIVER"),
		DatabaseDSN:        v.GetString("DATABASE_DSN"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		TokenTTL:           v.GetDuration("TOKEN_TTL"),
		RabbitMQURL:        v.GetString("RABBITMQ_URL"),
		SalesMaxConcurrent: v.GetInt("SALES_MAX_CONCURRENT"),
		SaleTxTimeout:      v.GetDuration("SALE_TX_TIMEOUT"),
		SaleTxRetries:      v.GetInt("SALE_TX_RETRIES"),
		DiscountPolicy:     v.GetString("DISCOUNT_POLICY"),
		VATPolicy:          v.GetString("VAT_POLICY"),
		AdminUsername:      v.GetString("ADMIN_USERNAME"),
		AdminPassword:      v.GetString("ADMIN_PASSWORD"),
		AdminEmail:         v.GetString("ADMIN_EMAIL"),
	}

	var err error
	if cfg.DiscountPercent, err = percent(v, "DISCOUNT_PERCENT"); err != nil {
		return nil, err
	}
	if cfg.VATPercent, err = percent(v, "VAT_PERCENT"); err != nil {
		return nil, err
	}
	if cfg.DiscountFlat, err = decimal.NewFromString(v.GetString("DISCOUNT_FLAT")); err != nil {
		return nil, fmt.Errorf("invalid DISCOUNT_FLAT: %w", err)
	}
	if cfg.DiscountFlat.IsNegative() {
		return nil, fmt.Errorf("invalid DISCOUNT_FLAT: must not be negative")
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("invalid TOKEN_TTL: must be positive")
	}
	if cfg.SaleTxTimeout <= 0 {
		return nil, fmt.Errorf("invalid SALE_TX_TIMEOUT: must be positive")
	}
	if cfg.SaleTxRetries < 0 {
		return nil, fmt.Errorf("invalid SALE_TX_RETRIES: must not be negative")
	}
	return cfg, nil
}

func percent(v *viper.Viper, key string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v.GetString(key))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d.IsNegative() || d.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.Zero, fmt.Errorf("invalid %s: must be between 0 and 100", key)
	}
	return d, nil
}

// IsProduction reports whether the service runs with production defaults.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
