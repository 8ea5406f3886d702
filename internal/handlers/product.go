package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/diewo77/go-revenue/httpx"
	"github.com/diewo77/go-revenue/internal/models"
	"github.com/diewo77/go-revenue/internal/services"
	"github.com/diewo77/go-revenue/validation"
)

type ProductHandler struct {
	ledger  Ledger
	reports *services.ReportService
}

func NewProductHandler(ledger Ledger, reports *services.ReportService) *ProductHandler {
	return &ProductHandler{ledger: ledger, reports: reports}
}

type productInput struct {
	Name     string          `json:"name"`
	Category models.Category `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Notes    string          `json:"notes"`
}

// List handles GET /products?q=&category=. category may repeat.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.ledger.Products(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	var cats []models.Category
	for _, c := range r.URL.Query()["category"] {
		cats = append(cats, models.Category(c))
	}
	httpx.JSON(w, http.StatusOK, services.FilterProducts(products, r.URL.Query().Get("q"), cats))
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in productInput
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("name", in.Name, v)
	validation.OneOf("category", in.Category, models.Categories, v)
	validation.NonNegativeDecimal("price", in.Price, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	id, err := h.ledger.AddProduct(r.Context(), in.Name, in.Category, in.Price, in.Notes)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created{ID: id})
}

// Delete refuses with 409 while any sale references the product.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	removed, err := h.ledger.RemoveProduct(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if !removed {
		httpx.JSONError(w, http.StatusConflict, "product_has_sales", map[string]int64{"id": id})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProductHandler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.reports.ProductStats(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, st)
}

func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, models.Categories)
}
