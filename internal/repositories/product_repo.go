package repositories

import (
	"context"

	"tokopos/internal/models"

	"github.com/shopspring/decimal"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	// GetForUpdate reads a product and holds it against concurrent writers
	// until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id uint) (*models.Product, error)
	List(ctx context.Context, opts ListOptions) ([]models.Product, int64, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, id uint, upd models.ProductUpdate) (*models.Product, error)
	UpdateStock(ctx context.Context, id uint, stockQty decimal.Decimal) error
	Delete(ctx context.Context, id uint) error
}
