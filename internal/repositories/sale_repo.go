package repositories

import (
	"context"
	"time"

	"tokopos/internal/models"
)

// SaleRepository defines the interface for sale and sale detail data access.
type SaleRepository interface {
	// Create inserts the sale row only; details are added with AddDetail.
	Create(ctx context.Context, sale *models.Sale) error
	AddDetail(ctx context.Context, detail *models.SaleDetail) error
	UpdateTotals(ctx context.Context, id uint, totals models.SaleTotals) error
	GetByID(ctx context.Context, id uint) (*models.Sale, error)
	List(ctx context.Context, q SaleQuery) ([]models.Sale, int64, error)
	Summarize(ctx context.Context, start, end time.Time) (models.SalesSummary, error)
}
