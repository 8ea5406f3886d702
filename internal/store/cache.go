package store

import (
	"slices"

	"github.com/diewo77/go-revenue/internal/models"
)

// Scope selects which cached reads an invalidation clears.
type Scope uint8

const (
	ScopeProducts Scope = 1 << iota
	ScopeSales
	ScopeSalesData
	ScopeExpenses

	ScopeAll = ScopeProducts | ScopeSales | ScopeSalesData | ScopeExpenses
)

type snapshot[T any] struct {
	rows  []T
	valid bool
}

func (s *snapshot[T]) get() ([]T, bool) {
	if !s.valid {
		return nil, false
	}
	return slices.Clone(s.rows), true
}

func (s *snapshot[T]) set(rows []T) {
	s.rows = slices.Clone(rows)
	s.valid = true
}

func (s *snapshot[T]) clear() {
	s.rows = nil
	s.valid = false
}

// cache holds at most one snapshot per read. Entries never expire; they live until
// invalidated. Not safe for concurrent use: the Store serialises access.
type cache struct {
	products  snapshot[models.Product]
	sales     snapshot[models.Sale]
	salesData snapshot[models.SaleDetail]
	expenses  snapshot[models.Expense]
}

func (c *cache) invalidate(scope Scope) {
	if scope&ScopeProducts != 0 {
		c.products.clear()
	}
	if scope&ScopeSales != 0 {
		c.sales.clear()
	}
	if scope&ScopeSalesData != 0 {
		c.salesData.clear()
	}
	if scope&ScopeExpenses != 0 {
		c.expenses.clear()
	}
}

// valid reports which scopes currently hold a snapshot.
func (c *cache) valid() Scope {
	var s Scope
	if c.products.valid {
		s |= ScopeProducts
	}
	if c.sales.valid {
		s |= ScopeSales
	}
	if c.salesData.valid {
		s |= ScopeSalesData
	}
	if c.expenses.valid {
		s |= ScopeExpenses
	}
	return s
}
