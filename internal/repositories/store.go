package repositories

import (
	"context"
	"time"
)

// Store groups the per-entity repositories that share one persistence backend.
type Store interface {
	Products() ProductRepository
	Customers() CustomerRepository
	Sales() SaleRepository
	Users() UserRepository

	// WithinTransaction runs fn against a Store bound to a single transaction.
	// All writes made through tx commit together when fn returns nil and are
	// discarded otherwise, including when ctx is cancelled before commit.
	WithinTransaction(ctx context.Context, fn func(tx Store) error) error
}

// ListOptions filters and pages list queries.
type ListOptions struct {
	Search string
	Offset int
	Limit  int
}

// SaleQuery filters sales by sale date. Zero times leave that bound open.
type SaleQuery struct {
	From   time.Time
	To     time.Time
	Offset int
	Limit  int
}
