package services

import (
	"context"
	"fmt"

	"tokopos/internal/models"
	"tokopos/internal/repositories"
	"tokopos/internal/validation"

	"go.uber.org/zap"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	// MaxPage keeps (page-1)*pageSize well inside an int32 offset.
	MaxPage = 1_000_000
)

// ClampPage brings a requested 1-based page number and page size into range.
func ClampPage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// PageOptions turns a 1-based page number and page size into list options.
func PageOptions(search string, page, pageSize int) repositories.ListOptions {
	page, pageSize = ClampPage(page, pageSize)
	return repositories.ListOptions{
		Search: search,
		Offset: (page - 1) * pageSize,
		Limit:  pageSize,
	}
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo   repositories.ProductRepository
	logger *zap.Logger
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, logger *zap.Logger) *ProductService {
	return &ProductService{
		repo:   repo,
		logger: logger,
	}
}

// ListProducts retrieves a page of products and the total number of matches.
func (s *ProductService) ListProducts(ctx context.Context, opts repositories.ListOptions) ([]models.Product, int64, error) {
	return s.repo.List(ctx, opts)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id uint) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateProduct validates and stores a new, active product.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := validation.Struct(product); err != nil {
		return err
	}
	product.ID = 0
	product.IsActive = true
	if err := s.repo.Create(ctx, product); err != nil {
		return err
	}
	s.logger.Info("product created", zap.Uint("product_id", product.ID), zap.String("barcode", product.Barcode))
	return nil
}

// UpdateProduct applies the fields set in upd to an existing product.
func (s *ProductService) UpdateProduct(ctx context.Context, id uint, upd models.ProductUpdate) (*models.Product, error) {
	if upd.Empty() {
		return nil, fmt.Errorf("%w: no fields to update", models.ErrValidation)
	}
	if err := validation.Struct(upd); err != nil {
		return nil, err
	}
	product, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	s.logger.Info("product updated", zap.Uint("product_id", id))
	return product, nil
}

// DeleteProduct soft-deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("product deleted", zap.Uint("product_id", id))
	return nil
}
