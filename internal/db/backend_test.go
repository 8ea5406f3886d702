package db

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/diewo77/go-revenue/internal/config"
	"github.com/diewo77/go-revenue/internal/models"
)

func setupBackend(t *testing.T) *Backend {
	t.Helper()
	ctx := context.Background()
	gdb, err := Connect(ctx, config.DriverSQLite, "file:"+t.Name()+"?mode=memory&cache=shared", false, zap.NewNop())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	b := NewBackend(gdb)
	t.Cleanup(func() { b.Close() })
	if err := b.Bootstrap(ctx); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	return b
}

func TestBackend_ProductRoundTrip(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()
	created := models.NewTimestamp(time.Date(2024, 6, 1, 9, 15, 0, 0, time.Local))
	for _, id := range []int64{5, 2} {
		p := models.Product{ID: id, Name: "Case", Category: models.CategoryPhoneCases, Price: decimal.RequireFromString("12.50"), CreatedAt: created, Notes: "clear"}
		if err := b.InsertProduct(ctx, p); err != nil {
			t.Fatalf("insert %d: %v", id, err)
		}
	}
	rows, err := b.Products(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[0].ID != 2 || rows[1].ID != 5 {
		t.Fatalf("expected ids [2 5], got %+v", rows)
	}
	if !rows[0].Price.Equal(decimal.RequireFromString("12.50")) {
		t.Errorf("price = %s", rows[0].Price)
	}
	if !rows[0].CreatedAt.Equal(created.Time) {
		t.Errorf("created_at = %v, want %v", rows[0].CreatedAt, created)
	}
}

func TestBackend_DuplicateIDRejected(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()
	e := models.Expense{ID: 1, Description: "Rent", Amount: decimal.NewFromInt(800), Date: models.NewDate(time.Now())}
	if err := b.InsertExpense(ctx, e); err != nil {
		t.Fatal(err)
	}
	if err := b.InsertExpense(ctx, e); err == nil {
		t.Fatal("expected primary key violation")
	}
}

func TestBackend_DeleteSale(t *testing.T) {
	b := setupBackend(t)
	ctx := context.Background()
	day := models.NewDate(time.Date(2024, 2, 29, 0, 0, 0, 0, time.Local))
	for i := int64(1); i <= 2; i++ {
		if err := b.InsertSale(ctx, models.Sale{ID: i, ProductID: 1, Quantity: 2, Price: decimal.NewFromInt(10), Date: day}); err != nil {
			t.Fatal(err)
		}
	}
	if err := b.DeleteSale(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if err := b.DeleteSale(ctx, 77); err != nil {
		t.Fatalf("delete of unknown id: %v", err)
	}
	rows, err := b.Sales(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].ID != 2 {
		t.Fatalf("unexpected sales %+v", rows)
	}
	if rows[0].Date.String() != "2024-02-29" {
		t.Errorf("date = %s", rows[0].Date)
	}
}

func TestConnect_UnknownDriver(t *testing.T) {
	if _, err := Connect(context.Background(), "oracle", "x", false, zap.NewNop()); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}
