package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/diewo77/go-revenue/httpx"
	"github.com/diewo77/go-revenue/internal/export"
	"github.com/diewo77/go-revenue/internal/logging"
	"github.com/diewo77/go-revenue/internal/services"
	"github.com/diewo77/go-revenue/validation"
)

type SaleHandler struct {
	ledger Ledger
}

func NewSaleHandler(ledger Ledger) *SaleHandler { return &SaleHandler{ledger: ledger} }

// saleInput uses pointers so an omitted product_id or price is told apart from 0.
type saleInput struct {
	ProductID *int64           `json:"product_id"`
	Quantity  int              `json:"quantity"`
	Price     *decimal.Decimal `json:"price"`
}

type saleList struct {
	Sales     any             `json:"sales"`
	Total     decimal.Decimal `json:"total"`
	ItemsSold int             `json:"items_sold"`
}

// List handles GET /sales?from=&to= and returns joined rows with their totals.
func (h *SaleHandler) List(w http.ResponseWriter, r *http.Request) {
	from, to, err := dateRange(r, allTime[0], allTime[1])
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_date_range", err.Error())
		return
	}
	rows, err := h.ledger.SalesData(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	rows = services.SalesBetween(rows, from, to)
	items := 0
	for _, row := range rows {
		items += row.Quantity
	}
	httpx.JSON(w, http.StatusOK, saleList{Sales: rows, Total: services.Revenue(rows), ItemsSold: items})
}

func (h *SaleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in saleInput
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	if in.ProductID == nil {
		v["product_id"] = "required"
	}
	if in.Price == nil {
		v["price"] = "required"
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	id, err := h.ledger.AddSale(r.Context(), *in.ProductID, in.Quantity, *in.Price)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created{ID: id})
}

func (h *SaleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.ledger.RemoveSale(r.Context(), id); err != nil {
		writeStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Orphans lists sales whose product no longer exists.
func (h *SaleHandler) Orphans(w http.ResponseWriter, r *http.Request) {
	rows, err := h.ledger.OrphanedSales(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	if rows == nil {
		httpx.JSON(w, http.StatusOK, []any{})
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}

// Export handles GET /sales/export?format=csv|xlsx&from=&to= as a file download.
func (h *SaleHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	contentType, ext, ok := export.ContentType(format)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "unknown_format", format)
		return
	}
	from, to, err := dateRange(r, allTime[0], allTime[1])
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_date_range", err.Error())
		return
	}
	rows, err := h.ledger.SalesData(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	rows = services.SalesBetween(rows, from, to)

	name := "sales_export_" + time.Now().Format("20060102") + "." + ext
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(name))
	if err := export.Write(w, format, rows); err != nil {
		logging.FromContext(r.Context()).Error("sales export failed", zap.String("format", ext), zap.Error(err))
	}
}
