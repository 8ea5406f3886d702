package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/diewo77/go-revenue/httpx"
	"github.com/diewo77/go-revenue/internal/services"
	"github.com/diewo77/go-revenue/validation"
)

type ExpenseHandler struct {
	ledger Ledger
}

func NewExpenseHandler(ledger Ledger) *ExpenseHandler { return &ExpenseHandler{ledger: ledger} }

type expenseInput struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	from, to, err := dateRange(r, allTime[0], allTime[1])
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_date_range", err.Error())
		return
	}
	rows, err := h.ledger.Expenses(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, services.ExpensesBetween(rows, from, to))
}

// Create requires a description and an amount greater than zero. The store
// itself accepts any amount.
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in expenseInput
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("description", in.Description, v)
	validation.PositiveDecimal("amount", in.Amount, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	id, err := h.ledger.AddExpense(r.Context(), in.Description, in.Amount)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created{ID: id})
}
