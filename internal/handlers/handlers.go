// Package handlers exposes the record store and reports as a JSON API.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/diewo77/go-revenue/httpx"
	"github.com/diewo77/go-revenue/internal/logging"
	"github.com/diewo77/go-revenue/internal/models"
	"github.com/diewo77/go-revenue/internal/store"
	"github.com/diewo77/go-revenue/validation"
)

// Ledger is the part of the record store the handlers use.
type Ledger interface {
	AddProduct(ctx context.Context, name string, category models.Category, price decimal.Decimal, notes string) (int64, error)
	RemoveProduct(ctx context.Context, id int64) (bool, error)
	Products(ctx context.Context) ([]models.Product, error)
	AddSale(ctx context.Context, productID int64, quantity int, price decimal.Decimal) (int64, error)
	RemoveSale(ctx context.Context, id int64) error
	SalesData(ctx context.Context) ([]models.SaleDetail, error)
	OrphanedSales(ctx context.Context) ([]models.Sale, error)
	AddExpense(ctx context.Context, description string, amount decimal.Decimal) (int64, error)
	Expenses(ctx context.Context) ([]models.Expense, error)
}

type created struct {
	ID int64 `json:"id"`
}

// pathID parses the {id} wildcard as a base-10 number. It writes a 400 and
// returns false when the value is not a positive integer.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := validation.ParseDecimalInt(r.PathValue("id"))
	if err != nil || id <= 0 {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return 0, false
	}
	return id, true
}

// dateRange reads the from and to query parameters. Missing bounds fall back to
// the given defaults.
func dateRange(r *http.Request, defFrom, defTo models.Date) (models.Date, models.Date, error) {
	from, to := defFrom, defTo
	q := r.URL.Query()
	if v := strings.TrimSpace(q.Get("from")); v != "" {
		d, err := models.ParseDate(v)
		if err != nil {
			return from, to, err
		}
		from = d
	}
	if v := strings.TrimSpace(q.Get("to")); v != "" {
		d, err := models.ParseDate(v)
		if err != nil {
			return from, to, err
		}
		to = d
	}
	if to.Before(from.Time) {
		return from, to, errors.New("to is before from")
	}
	return from, to, nil
}

// allTime spans every date a record can carry.
var allTime = [2]models.Date{
	models.NewDate(time.Date(1, 1, 1, 0, 0, 0, 0, time.Local)),
	models.NewDate(time.Date(9999, 12, 31, 0, 0, 0, 0, time.Local)),
}

func writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *store.ValidationError
	if errors.As(err, &verr) {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", verr.Violations)
		return
	}
	logging.FromContext(r.Context()).Error("store request failed", zap.String("route", r.Pattern), zap.Error(err))
	httpx.JSONError(w, http.StatusInternalServerError, "storage_error", nil)
}
