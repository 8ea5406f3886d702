package main

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/diewo77/go-revenue/httpx"
	"github.com/diewo77/go-revenue/internal/handlers"
	"github.com/diewo77/go-revenue/internal/metrics"
	"github.com/diewo77/go-revenue/internal/services"
	"github.com/diewo77/go-revenue/internal/store"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux     *http.ServeMux
	handler http.Handler
	store   *store.Store
	metrics *metrics.Metrics
}

// NewApp creates a new application with all routes configured.
func NewApp(st *store.Store, m *metrics.Metrics, log *zap.Logger) *App {
	app := &App{
		mux:     http.NewServeMux(),
		store:   st,
		metrics: m,
	}
	app.setupRoutes()
	app.handler = httpx.Chain(app.mux,
		httpx.RequestID(log),
		httpx.Logging,
		httpx.Metrics(m),
		httpx.Recover,
	)
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

// setupRoutes configures all application routes.
func (a *App) setupRoutes() {
	reports := services.NewReportService(a.store)
	ph := handlers.NewProductHandler(a.store, reports)
	sh := handlers.NewSaleHandler(a.store)
	eh := handlers.NewExpenseHandler(a.store)
	rh := handlers.NewReportHandler(reports)

	a.mux.HandleFunc("GET /healthz", a.health)
	a.mux.Handle("GET /metrics", a.metrics.Handler())
	a.mux.HandleFunc("GET /categories", ph.Categories)

	a.mux.HandleFunc("GET /products", ph.List)
	a.mux.HandleFunc("GET /products/stats", ph.Stats)
	a.mux.HandleFunc("POST /products", ph.Create)
	a.mux.HandleFunc("DELETE /products/{id}", ph.Delete)

	a.mux.HandleFunc("GET /sales", sh.List)
	a.mux.HandleFunc("POST /sales", sh.Create)
	a.mux.HandleFunc("DELETE /sales/{id}", sh.Delete)
	a.mux.HandleFunc("GET /sales/orphans", sh.Orphans)
	a.mux.HandleFunc("GET /sales/export", sh.Export)

	a.mux.HandleFunc("GET /expenses", eh.List)
	a.mux.HandleFunc("POST /expenses", eh.Create)

	a.mux.HandleFunc("GET /dashboard", rh.Dashboard)
	a.mux.HandleFunc("GET /analytics", rh.Analytics)
}

func (a *App) health(w http.ResponseWriter, r *http.Request) {
	if _, err := a.store.Products(r.Context()); err != nil {
		httpx.JSONError(w, http.StatusServiceUnavailable, "storage_unavailable", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
