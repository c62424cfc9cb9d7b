package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tokopos/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// DefaultTxRetries is used when NewGORMStore is given a negative retry count.
const DefaultTxRetries = 3

// GORMStore is the relational Store. Repositories obtained from a store
// returned by WithinTransaction share that transaction.
type GORMStore struct {
	db      *gorm.DB
	sql     *sqlx.DB
	retries int
	inTx    bool

	products  *GORMProductRepository
	customers *GORMCustomerRepository
	sales     *GORMSaleRepository
	users     *GORMUserRepository
}

// NewGORMStore wraps db. retries bounds how many times a transaction that
// failed on a lock or serialization conflict is re-run.
func NewGORMStore(db *gorm.DB, retries int) (*GORMStore, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB from gorm: %w", err)
	}
	if retries < 0 {
		retries = DefaultTxRetries
	}
	return newGORMStore(db, sqlx.NewDb(sqlDB, sqlxDriverName(db)), retries, false), nil
}

func newGORMStore(db *gorm.DB, sqlDB *sqlx.DB, retries int, inTx bool) *GORMStore {
	return &GORMStore{
		db:        db,
		sql:       sqlDB,
		retries:   retries,
		inTx:      inTx,
		products:  NewGORMProductRepository(db),
		customers: NewGORMCustomerRepository(db),
		sales:     NewGORMSaleRepository(db, sqlDB),
		users:     NewGORMUserRepository(db),
	}
}

func sqlxDriverName(db *gorm.DB) string {
	if db.Dialector.Name() == "postgres" {
		return "pgx"
	}
	return "sqlite3"
}

func (s *GORMStore) Products() ProductRepository   { return s.products }
func (s *GORMStore) Customers() CustomerRepository { return s.customers }
func (s *GORMStore) Sales() SaleRepository         { return s.sales }
func (s *GORMStore) Users() UserRepository         { return s.users }

// WithinTransaction runs fn in a database transaction, re-running it when the
// database reports a transient lock conflict. A store that is already bound
// to a transaction runs fn inline.
func (s *GORMStore) WithinTransaction(ctx context.Context, fn func(tx Store) error) error {
	if s.inTx {
		return fn(s)
	}

	var err error
	for attempt := 0; attempt <= s.retries; attempt++ {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(newGORMStore(tx, s.sql, s.retries, true))
		})
		if err == nil {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return transactionContextError(ctxErr)
		}
		if !isRetryable(err) {
			return err
		}
		if waitErr := backoff(ctx, attempt); waitErr != nil {
			return transactionContextError(waitErr)
		}
	}
	return fmt.Errorf("%w: %v", models.ErrConflict, err)
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "55P03":
			return true
		}
		return false
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code == sqlite3.ErrBusy || liteErr.Code == sqlite3.ErrLocked
	}
	return false
}

func backoff(ctx context.Context, attempt int) error {
	timer := time.NewTimer(time.Duration(attempt+1) * 20 * time.Millisecond)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// transactionContextError reports a transaction deadline as a conflict so the
// caller may retry; cancellation is passed through.
func transactionContextError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: transaction timed out: %v", models.ErrConflict, err)
	}
	return fmt.Errorf("transaction aborted: %w", err)
}
