package services

import (
	"context"
	"fmt"

	"tokopos/internal/models"
	"tokopos/internal/repositories"
	"tokopos/internal/validation"

	"go.uber.org/zap"
)

// CustomerService handles business logic related to customers.
type CustomerService struct {
	repo   repositories.CustomerRepository
	logger *zap.Logger
}

// NewCustomerService creates a new CustomerService.
func NewCustomerService(repo repositories.CustomerRepository, logger *zap.Logger) *CustomerService {
	return &CustomerService{
		repo:   repo,
		logger: logger,
	}
}

func (s *CustomerService) ListCustomers(ctx context.Context, opts repositories.ListOptions) ([]models.Customer, int64, error) {
	return s.repo.List(ctx, opts)
}

func (s *CustomerService) GetCustomerByID(ctx context.Context, id uint) (*models.Customer, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateCustomer stores a new customer. Loyalty points start at the given balance.
func (s *CustomerService) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	if err := validation.Struct(customer); err != nil {
		return err
	}
	customer.ID = 0
	if err := s.repo.Create(ctx, customer); err != nil {
		return err
	}
	s.logger.Info("customer created", zap.Uint("customer_id", customer.ID))
	return nil
}

func (s *CustomerService) UpdateCustomer(ctx context.Context, id uint, upd models.CustomerUpdate) (*models.Customer, error) {
	if upd.Empty() {
		return nil, fmt.Errorf("%w: no fields to update", models.ErrValidation)
	}
	if err := validation.Struct(upd); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, upd)
}

func (s *CustomerService) DeleteCustomer(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("customer deleted", zap.Uint("customer_id", id))
	return nil
}
