package services

import (
	"context"
	"fmt"

	"tokopos/internal/models"
	"tokopos/internal/repositories"

	"github.com/shopspring/decimal"
)

// StockLedger checks and deducts product stock. It must be built on the
// product repository of an open transaction so the locking read and the
// deduction commit or roll back together.
type StockLedger struct {
	products repositories.ProductRepository
}

// NewStockLedger creates a StockLedger over products.
func NewStockLedger(products repositories.ProductRepository) *StockLedger {
	return &StockLedger{products: products}
}

// TryDeduct removes quantity from the stock of an active product and returns
// the product with its new stock level.
func (l *StockLedger) TryDeduct(ctx context.Context, productID uint, quantity decimal.Decimal) (*models.Product, error) {
	if !quantity.IsPositive() {
		return nil, fmt.Errorf("%w: quantity must be positive", models.ErrValidation)
	}

	product, err := l.products.GetForUpdate(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, fmt.Errorf("product with ID %d is inactive: %w", productID, models.ErrNotFound)
	}
	if product.StockQty.LessThan(quantity) {
		return nil, &models.InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Available:   product.StockQty,
			Requested:   quantity,
		}
	}

	remaining := product.StockQty.Sub(quantity)
	if err := l.products.UpdateStock(ctx, product.ID, remaining); err != nil {
		return nil, err
	}
	product.StockQty = remaining
	return product, nil
}
