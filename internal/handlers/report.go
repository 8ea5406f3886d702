package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/diewo77/go-revenue/httpx"
	"github.com/diewo77/go-revenue/internal/models"
	"github.com/diewo77/go-revenue/internal/services"
)

// DefaultAnalyticsDays is the window of GET /analytics without from and to.
const DefaultAnalyticsDays = 30

type ReportHandler struct {
	reports *services.ReportService
	now     func() time.Time
}

func NewReportHandler(reports *services.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports, now: time.Now}
}

func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.reports.Dashboard(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, d)
}

func (h *ReportHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	today := models.NewDate(h.now())
	from, to, err := dateRange(r, today.AddDays(-DefaultAnalyticsDays), today)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_date_range", err.Error())
		return
	}
	a, err := h.reports.Analytics(r.Context(), from, to)
	if errors.Is(err, services.ErrRangeTooWide) {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_date_range", err.Error())
		return
	}
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, a)
}
