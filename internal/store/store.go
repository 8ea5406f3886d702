// Package store is the record store for products, sales and expenses: durable
// collections behind a Backend plus a whole-collection read cache that every
// mutation invalidates.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/diewo77/go-revenue/internal/models"
	"github.com/diewo77/go-revenue/validation"
)

// Recorder receives store telemetry. See internal/metrics for the Prometheus one.
type Recorder interface {
	StoreOperation(op string, err error)
	CacheLookup(read string, hit bool)
}

type nopRecorder struct{}

func (nopRecorder) StoreOperation(string, error) {}
func (nopRecorder) CacheLookup(string, bool)    {}

type Option func(*Store)

func WithLogger(l *zap.Logger) Option { return func(s *Store) { s.log = l } }

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

func WithRecorder(r Recorder) Option { return func(s *Store) { s.rec = r } }

// Store serialises every operation with a single mutex; each one is a complete
// read-modify-write of one collection (two for the sales join).
type Store struct {
	mu      sync.Mutex
	backend Backend
	cache   cache
	log     *zap.Logger
	now     func() time.Time
	rec     Recorder
}

func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		log:     zap.NewNop(),
		now:     time.Now,
		rec:     nopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bootstrap creates any missing collection with no rows.
func (s *Store) Bootstrap(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.backend.Bootstrap(ctx); err != nil {
		return s.fail("bootstrap", "all", err)
	}
	s.cache.invalidate(ScopeAll)
	return nil
}

func (s *Store) Close() error { return s.backend.Close() }

// Invalidate drops the cached reads selected by scope.
func (s *Store) Invalidate(scope Scope) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.invalidate(scope)
}

// Cached reports which reads currently hold a snapshot.
func (s *Store) Cached() Scope {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.valid()
}

// AddProduct appends a product with the next id and created_at set to now.
// Duplicate names are allowed.
func (s *Store) AddProduct(ctx context.Context, name string, category models.Category, price decimal.Decimal, notes string) (int64, error) {
	const op = "add_product"
	v := validation.Violations{}
	validation.NonNegativeDecimal("price", price, v)
	if !v.Empty() {
		return 0, s.reject(op, v)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.backend.Products(ctx)
	if err != nil {
		return 0, s.fail(op, "products", err)
	}
	p := models.Product{
		ID:        nextID(rows, func(p models.Product) int64 { return p.ID }),
		Name:      name,
		Category:  category,
		Price:     price,
		CreatedAt: models.NewTimestamp(s.now()),
		Notes:     notes,
	}
	if err := s.backend.InsertProduct(ctx, p); err != nil {
		return 0, s.fail(op, "products", err)
	}
	s.mutated(op)
	s.log.Info("product added", zap.Int64("id", p.ID), zap.String("name", name), zap.String("category", category.String()))
	return p.ID, nil
}

// RemoveProduct deletes a product unless a sale references it, in which case it
// returns false and writes nothing. Removing an unknown id returns true.
func (s *Store) RemoveProduct(ctx context.Context, id int64) (bool, error) {
	const op = "remove_product"
	s.mu.Lock()
	defer s.mu.Unlock()

	sales, err := s.backend.Sales(ctx)
	if err != nil {
		return false, s.fail(op, "sales", err)
	}
	for _, sale := range sales {
		if sale.ProductID == id {
			s.log.Info("product removal blocked by sales", zap.Int64("id", id), zap.Int64("sale_id", sale.ID))
			s.rec.StoreOperation(op, nil)
			return false, nil
		}
	}
	if err := s.backend.DeleteProduct(ctx, id); err != nil {
		return false, s.fail(op, "products", err)
	}
	s.mutated(op)
	s.log.Info("product removed", zap.Int64("id", id))
	return true, nil
}

// Products returns the catalog in storage order.
func (s *Store) Products(ctx context.Context) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products(ctx)
}

func (s *Store) products(ctx context.Context) ([]models.Product, error) {
	if rows, ok := s.cache.products.get(); ok {
		s.rec.CacheLookup("products", true)
		return rows, nil
	}
	s.rec.CacheLookup("products", false)
	rows, err := s.backend.Products(ctx)
	if err != nil {
		return nil, s.fail("get_products", "products", err)
	}
	s.cache.products.set(rows)
	s.log.Debug("products loaded", zap.Int("rows", len(rows)))
	return rows, nil
}

// AddSale records a sale dated today. The product id is not checked, so a sale can
// reference a product that does not exist.
func (s *Store) AddSale(ctx context.Context, productID int64, quantity int, price decimal.Decimal) (int64, error) {
	const op = "add_sale"
	v := validation.Violations{}
	validation.PositiveInt("quantity", quantity, v)
	validation.NonNegativeDecimal("price", price, v)
	if !v.Empty() {
		return 0, s.reject(op, v)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.backend.Sales(ctx)
	if err != nil {
		return 0, s.fail(op, "sales", err)
	}
	sale := models.Sale{
		ID:        nextID(rows, func(s models.Sale) int64 { return s.ID }),
		ProductID: productID,
		Quantity:  quantity,
		Price:     price,
		Date:      models.NewDate(s.now()),
	}
	if err := s.backend.InsertSale(ctx, sale); err != nil {
		return 0, s.fail(op, "sales", err)
	}
	s.mutated(op)
	s.log.Info("sale recorded",
		zap.Int64("id", sale.ID),
		zap.Int64("product_id", productID),
		zap.Int("quantity", quantity),
		zap.String("price", price.StringFixed(2)))
	return sale.ID, nil
}

// RemoveSale deletes a sale by id. Unknown ids are ignored.
func (s *Store) RemoveSale(ctx context.Context, id int64) error {
	const op = "remove_sale"
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.DeleteSale(ctx, id); err != nil {
		return s.fail(op, "sales", err)
	}
	s.mutated(op)
	s.log.Info("sale removed", zap.Int64("id", id))
	return nil
}

// Sales returns the raw sales collection in storage order.
func (s *Store) Sales(ctx context.Context) ([]models.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sales(ctx)
}

func (s *Store) sales(ctx context.Context) ([]models.Sale, error) {
	if rows, ok := s.cache.sales.get(); ok {
		s.rec.CacheLookup("sales", true)
		return rows, nil
	}
	s.rec.CacheLookup("sales", false)
	rows, err := s.backend.Sales(ctx)
	if err != nil {
		return nil, s.fail("get_sales", "sales", err)
	}
	s.cache.sales.set(rows)
	return rows, nil
}

// AddExpense records an expense dated today. Amount is not validated here;
// callers reject non-positive amounts.
func (s *Store) AddExpense(ctx context.Context, description string, amount decimal.Decimal) (int64, error) {
	const op = "add_expense"
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.backend.Expenses(ctx)
	if err != nil {
		return 0, s.fail(op, "expenses", err)
	}
	e := models.Expense{
		ID:          nextID(rows, func(e models.Expense) int64 { return e.ID }),
		Description: description,
		Amount:      amount,
		Date:        models.NewDate(s.now()),
	}
	if err := s.backend.InsertExpense(ctx, e); err != nil {
		return 0, s.fail(op, "expenses", err)
	}
	s.mutated(op)
	s.log.Info("expense recorded", zap.Int64("id", e.ID), zap.String("amount", amount.StringFixed(2)))
	return e.ID, nil
}

// Expenses returns the expenses in storage order.
func (s *Store) Expenses(ctx context.Context) ([]models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rows, ok := s.cache.expenses.get(); ok {
		s.rec.CacheLookup("expenses", true)
		return rows, nil
	}
	s.rec.CacheLookup("expenses", false)
	rows, err := s.backend.Expenses(ctx)
	if err != nil {
		return nil, s.fail("get_expenses", "expenses", err)
	}
	s.cache.expenses.set(rows)
	return rows, nil
}

// SalesData is the inner join of sales and products on product_id, in sales order.
// Both collections are read from the backend rather than from the other cached
// reads. Sales whose product no longer exists are dropped; see OrphanedSales.
func (s *Store) SalesData(ctx context.Context) ([]models.SaleDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rows, ok := s.cache.salesData.get(); ok {
		s.rec.CacheLookup("sales_data", true)
		return rows, nil
	}
	s.rec.CacheLookup("sales_data", false)
	sales, err := s.backend.Sales(ctx)
	if err != nil {
		return nil, s.fail("get_sales_data", "sales", err)
	}
	products, err := s.backend.Products(ctx)
	if err != nil {
		return nil, s.fail("get_sales_data", "products", err)
	}
	rows := joinSales(sales, products)
	s.cache.salesData.set(rows)
	if dropped := len(sales) - len(rows); dropped > 0 {
		s.log.Warn("orphaned sales dropped from join", zap.Int("dropped", dropped))
	}
	return rows, nil
}

// OrphanedSales lists sales whose product_id matches no product.
func (s *Store) OrphanedSales(ctx context.Context) ([]models.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sales, err := s.sales(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.products(ctx)
	if err != nil {
		return nil, err
	}
	known := make(map[int64]struct{}, len(products))
	for _, p := range products {
		known[p.ID] = struct{}{}
	}
	var out []models.Sale
	for _, sale := range sales {
		if _, ok := known[sale.ProductID]; !ok {
			out = append(out, sale)
		}
	}
	return out, nil
}

func joinSales(sales []models.Sale, products []models.Product) []models.SaleDetail {
	byID := make(map[int64][]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = append(byID[p.ID], p)
	}
	out := make([]models.SaleDetail, 0, len(sales))
	for _, sale := range sales {
		for _, p := range byID[sale.ProductID] {
			out = append(out, models.NewSaleDetail(sale, p))
		}
	}
	return out
}

// nextID is max(existing)+1, or 1 for an empty collection.
func nextID[T any](rows []T, id func(T) int64) int64 {
	var top int64
	for _, r := range rows {
		if v := id(r); v > top {
			top = v
		}
	}
	return top + 1
}

// mutated must be called after every successful write. Invalidation is global:
// a write to one collection also clears the others.
func (s *Store) mutated(op string) {
	s.cache.invalidate(ScopeAll)
	s.rec.StoreOperation(op, nil)
}

func (s *Store) reject(op string, v validation.Violations) error {
	err := &ValidationError{Op: op, Violations: v}
	s.log.Warn("rejected invalid input", zap.String("op", op), zap.Any("violations", v))
	s.rec.StoreOperation(op, err)
	return err
}

func (s *Store) fail(op, collection string, err error) error {
	serr := &StorageError{Op: op, Collection: collection, Err: err}
	s.log.Error("storage failure", zap.String("op", op), zap.String("collection", collection), zap.Error(err))
	s.rec.StoreOperation(op, serr)
	return serr
}
