package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tokopos/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetByID retrieves a single non-deleted product by its ID.
func (r *GORMProductRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	return r.first(r.db.WithContext(ctx), id)
}

// GetForUpdate retrieves a product with a row lock. SQLite has no row locks;
// there the sqlite dialect drops the clause and the single shared connection
// serializes transactions instead.
func (r *GORMProductRepository) GetForUpdate(ctx context.Context, id uint) (*models.Product, error) {
	return r.first(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GORMProductRepository) first(db *gorm.DB, id uint) (*models.Product, error) {
	var product models.Product
	if err := db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with ID %d: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	return &product, nil
}

// List retrieves a page of products matching the search term on name, barcode or category.
func (r *GORMProductRepository) List(ctx context.Context, opts ListOptions) ([]models.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})
	if term := strings.ToLower(strings.TrimSpace(opts.Search)); term != "" {
		like := "%" + term + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(barcode) LIKE ? OR LOWER(category) LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	products := []models.Product{}
	if err := paginate(query, opts.Offset, opts.Limit).Order("id").Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return products, total, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("product with barcode %s: %w", product.Barcode, models.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update writes only the fields set in upd and returns the stored product.
func (r *GORMProductRepository) Update(ctx context.Context, id uint, upd models.ProductUpdate) (*models.Product, error) {
	db := r.db.WithContext(ctx)
	if upd.Empty() {
		return r.first(db, id)
	}

	res := db.Model(&models.Product{}).Where("id = ?", id).Updates(upd.Columns())
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("product with barcode %s: %w", *upd.Barcode, models.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("product with ID %d: %w", id, models.ErrNotFound)
	}
	return r.first(db, id)
}

// UpdateStock overwrites the stock quantity of a product.
func (r *GORMProductRepository) UpdateStock(ctx context.Context, id uint, stockQty decimal.Decimal) error {
	res := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Update("stock_qty", stockQty)
	if res.Error != nil {
		return fmt.Errorf("failed to update stock of product %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %d: %w", id, models.ErrNotFound)
	}
	return nil
}

// Delete soft-deletes a product by its ID.
func (r *GORMProductRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %d: %w", id, models.ErrNotFound)
	}
	return nil
}

func paginate(db *gorm.DB, offset, limit int) *gorm.DB {
	if offset > 0 {
		db = db.Offset(offset)
	}
	if limit > 0 {
		db = db.Limit(limit)
	}
	return db
}
