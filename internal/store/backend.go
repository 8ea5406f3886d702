package store

import (
	"context"

	"github.com/diewo77/go-revenue/internal/models"
)

// Backend is the durable side of the Store. Loads return the whole collection in
// storage order. Ids are assigned by the Store; backends persist them as given.
type Backend interface {
	// Bootstrap creates empty collections that do not exist yet. It must be idempotent.
	Bootstrap(ctx context.Context) error

	Products(ctx context.Context) ([]models.Product, error)
	Sales(ctx context.Context) ([]models.Sale, error)
	Expenses(ctx context.Context) ([]models.Expense, error)

	InsertProduct(ctx context.Context, p models.Product) error
	InsertSale(ctx context.Context, s models.Sale) error
	InsertExpense(ctx context.Context, e models.Expense) error

	// DeleteProduct and DeleteSale are no-ops when id does not exist.
	DeleteProduct(ctx context.Context, id int64) error
	DeleteSale(ctx context.Context, id int64) error

	Close() error
}
