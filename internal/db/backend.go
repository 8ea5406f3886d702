package db

import (
	"context"

	"gorm.io/gorm"

	"github.com/diewo77/go-revenue/internal/models"
)

// Backend keeps the collections in SQL tables. Ids are assigned by the store and
// written explicitly; rows are always read in id order.
type Backend struct {
	db *gorm.DB
}

func NewBackend(gdb *gorm.DB) *Backend { return &Backend{db: gdb} }

func (b *Backend) Bootstrap(ctx context.Context) error { return Migrate(ctx, b.db) }

func (b *Backend) Products(ctx context.Context) ([]models.Product, error) {
	rows := []models.Product{}
	err := b.db.WithContext(ctx).Order("id").Find(&rows).Error
	return rows, err
}

func (b *Backend) Sales(ctx context.Context) ([]models.Sale, error) {
	rows := []models.Sale{}
	err := b.db.WithContext(ctx).Order("id").Find(&rows).Error
	return rows, err
}

func (b *Backend) Expenses(ctx context.Context) ([]models.Expense, error) {
	rows := []models.Expense{}
	err := b.db.WithContext(ctx).Order("id").Find(&rows).Error
	return rows, err
}

func (b *Backend) InsertProduct(ctx context.Context, p models.Product) error {
	return b.db.WithContext(ctx).Create(&p).Error
}

func (b *Backend) InsertSale(ctx context.Context, s models.Sale) error {
	return b.db.WithContext(ctx).Create(&s).Error
}

func (b *Backend) InsertExpense(ctx context.Context, e models.Expense) error {
	return b.db.WithContext(ctx).Create(&e).Error
}

func (b *Backend) DeleteProduct(ctx context.Context, id int64) error {
	return b.db.WithContext(ctx).Delete(&models.Product{}, id).Error
}

func (b *Backend) DeleteSale(ctx context.Context, id int64) error {
	return b.db.WithContext(ctx).Delete(&models.Sale{}, id).Error
}

func (b *Backend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
