package models

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrValidation        = errors.New("validation failed")
	ErrUnauthorized      = errors.New("invalid credentials")
	ErrTooManyRequests   = errors.New("too many concurrent sale requests")
	ErrConflict          = errors.New("concurrent update conflict")
	ErrAlreadyExists     = errors.New("already exists")
)

// InsufficientStockError names the product that could not cover a sale line.
type InsufficientStockError struct {
	ProductID   uint
	ProductName string
	Available   decimal.Decimal
	Requested   decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: available %s, requested %s",
		e.ProductName, e.Available.String(), e.Requested.String())
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
