package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tokopos/internal/models"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const summarizeSalesQuery = `
SELECT COALESCE(SUM(total_amount), 0) AS total_sales,
       COALESCE(SUM(paid_amount), 0)  AS total_revenue,
       COUNT(*)                       AS transaction_count
FROM sales
WHERE sale_date BETWEEN ? AND ?`

// GORMSaleRepository is a GORM implementation of SaleRepository. Aggregates
// bypass the ORM and run through sqlx on the same connection pool.
type GORMSaleRepository struct {
	db  *gorm.DB
	sql *sqlx.DB
}

// NewGORMSaleRepository creates a new instance of GORMSaleRepository.
func NewGORMSaleRepository(db *gorm.DB, sqlDB *sqlx.DB) *GORMSaleRepository {
	return &GORMSaleRepository{
		db:  db,
		sql: sqlDB,
	}
}

// Create inserts the sale header without touching its details.
func (r *GORMSaleRepository) Create(ctx context.Context, sale *models.Sale) error {
	sale.SaleDate = sale.SaleDate.UTC()
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(sale).Error; err != nil {
		return fmt.Errorf("failed to create sale: %w", err)
	}
	return nil
}

// AddDetail inserts one sale line.
func (r *GORMSaleRepository) AddDetail(ctx context.Context, detail *models.SaleDetail) error {
	if err := r.db.WithContext(ctx).Create(detail).Error; err != nil {
		return fmt.Errorf("failed to add detail to sale %d: %w", detail.SaleID, err)
	}
	return nil
}

// UpdateTotals rewrites the priced fields of a sale.
func (r *GORMSaleRepository) UpdateTotals(ctx context.Context, id uint, totals models.SaleTotals) error {
	res := r.db.WithContext(ctx).Model(&models.Sale{}).Where("id = ?", id).Updates(map[string]interface{}{
		"discount_amount": totals.DiscountAmount,
		"vat_amount":      totals.VATAmount,
		"total_amount":    totals.TotalAmount,
		"due_amount":      totals.DueAmount,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update totals of sale %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("sale with ID %d: %w", id, models.ErrNotFound)
	}
	return nil
}

// GetByID retrieves a sale together with its details.
func (r *GORMSaleRepository) GetByID(ctx context.Context, id uint) (*models.Sale, error) {
	var sale models.Sale
	err := r.db.WithContext(ctx).
		Preload("Details", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&sale, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("sale with ID %d: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get sale by ID %d: %w", id, err)
	}
	return &sale, nil
}

// List retrieves sales ordered by sale date.
func (r *GORMSaleRepository) List(ctx context.Context, q SaleQuery) ([]models.Sale, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Sale{})
	if !q.From.IsZero() {
		query = query.Where("sale_date >= ?", q.From.UTC())
	}
	if !q.To.IsZero() {
		query = query.Where("sale_date <= ?", q.To.UTC())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count sales: %w", err)
	}

	sales := []models.Sale{}
	err := paginate(query, q.Offset, q.Limit).
		Preload("Details", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Order("sale_date, id").
		Find(&sales).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list sales: %w", err)
	}
	return sales, total, nil
}

// Summarize totals the sales whose sale date falls in [start, end].
func (r *GORMSaleRepository) Summarize(ctx context.Context, start, end time.Time) (models.SalesSummary, error) {
	var summary models.SalesSummary
	err := r.sql.GetContext(ctx, &summary, r.sql.Rebind(summarizeSalesQuery), start.UTC(), end.UTC())
	if err != nil {
		return models.SalesSummary{}, fmt.Errorf("failed to summarize sales: %w", err)
	}
	// sqlite stores decimal columns as REAL, so SUM comes back as a float.
	summary.TotalSales = summary.TotalSales.Round(2)
	summary.TotalRevenue = summary.TotalRevenue.Round(2)
	return summary, nil
}
