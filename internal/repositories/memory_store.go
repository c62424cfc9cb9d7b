package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"tokopos/internal/models"

	"golang.org/x/sync/semaphore"
)

// memoryTables is one snapshot of every entity table, keyed by id.
type memoryTables struct {
	products  map[uint]models.Product
	customers map[uint]models.Customer
	sales     map[uint]models.Sale
	details   map[uint]models.SaleDetail
	users     map[uint]models.User

	nextProduct  uint
	nextCustomer uint
	nextSale     uint
	nextDetail   uint
	nextUser     uint
}

func newMemoryTables() *memoryTables {
	return &memoryTables{
		products:  make(map[uint]models.Product),
		customers: make(map[uint]models.Customer),
		sales:     make(map[uint]models.Sale),
		details:   make(map[uint]models.SaleDetail),
		users:     make(map[uint]models.User),
	}
}

func (t *memoryTables) clone() *memoryTables {
	c := *t
	c.products = cloneMap(t.products)
	c.customers = cloneMap(t.customers)
	c.sales = cloneMap(t.sales)
	c.details = cloneMap(t.details)
	c.users = cloneMap(t.users)
	return &c
}

func cloneMap[V any](m map[uint]V) map[uint]V {
	c := make(map[uint]V, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

func sortedIDs[V any](m map[uint]V) []uint {
	ids := make([]uint, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	if offset > 0 {
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// memoryState is shared by a MemoryStore and every transaction it opens.
type memoryState struct {
	// writer admits one transaction or standalone write at a time.
	writer *semaphore.Weighted
	mu     sync.RWMutex
	tables *memoryTables
}

// MemoryStore keeps every entity in process memory. A transaction works on a
// private copy of the tables that replaces the shared copy on commit, so a
// failed or cancelled transaction leaves nothing behind.
type MemoryStore struct {
	state *memoryState
	tx    *memoryTables
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		state: &memoryState{
			writer: semaphore.NewWeighted(1),
			tables: newMemoryTables(),
		},
	}
}

func (s *MemoryStore) Products() ProductRepository   { return &MemoryProductRepository{store: s} }
func (s *MemoryStore) Customers() CustomerRepository { return &MemoryCustomerRepository{store: s} }
func (s *MemoryStore) Sales() SaleRepository         { return &MemorySaleRepository{store: s} }
func (s *MemoryStore) Users() UserRepository         { return &MemoryUserRepository{store: s} }

// WithinTransaction runs fn against a private copy of the tables and
// publishes the copy only if fn succeeds and ctx is still live.
func (s *MemoryStore) WithinTransaction(ctx context.Context, fn func(tx Store) error) error {
	if s.tx != nil {
		return fn(s)
	}
	if err := s.state.writer.Acquire(ctx, 1); err != nil {
		return transactionContextError(err)
	}
	defer s.state.writer.Release(1)

	s.state.mu.RLock()
	working := s.state.tables.clone()
	s.state.mu.RUnlock()

	if err := fn(&MemoryStore{state: s.state, tx: working}); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return transactionContextError(ctxErr)
		}
		return err
	}
	if err := ctx.Err(); err != nil {
		return transactionContextError(err)
	}

	s.state.mu.Lock()
	s.state.tables = working
	s.state.mu.Unlock()
	return nil
}

func (s *MemoryStore) read(fn func(t *memoryTables) error) error {
	if s.tx != nil {
		return fn(s.tx)
	}
	s.state.mu.RLock()
	defer s.state.mu.RUnlock()
	return fn(s.state.tables)
}

// write mutates the transaction copy, or the shared tables in place when no
// transaction is open. fn must validate before it mutates.
func (s *MemoryStore) write(ctx context.Context, fn func(t *memoryTables) error) error {
	if s.tx != nil {
		return fn(s.tx)
	}
	if err := s.state.writer.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("write aborted: %w", err)
	}
	defer s.state.writer.Release(1)

	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	return fn(s.state.tables)
}
