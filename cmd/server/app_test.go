package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/diewo77/go-revenue/internal/config"
	"github.com/diewo77/go-revenue/internal/metrics"
	"github.com/diewo77/go-revenue/internal/store"
)

func newServer(t *testing.T, storage config.StorageConfig) *httptest.Server {
	t.Helper()
	ctx := context.Background()
	m := metrics.New("revenue")
	st, err := store.Open(ctx, storage, zap.NewNop(), store.WithRecorder(m))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	if err := st.Bootstrap(ctx); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	srv := httptest.NewServer(NewApp(st, m, zap.NewNop()))
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp, string(b)
}

// The Case / Phone Cases walk-through on every file-based driver.
func TestEndToEnd_Drivers(t *testing.T) {
	drivers := []config.StorageConfig{
		{Driver: config.DriverCSV},
		{Driver: config.DriverBolt},
		{Driver: config.DriverSQLite},
	}
	for _, sc := range drivers {
		t.Run(sc.Driver, func(t *testing.T) {
			sc.Root = t.TempDir()
			srv := newServer(t, sc)

			if resp := post(t, srv.URL+"/products", `{"name":"Case","category":"Phone Cases","price":"9.99"}`); resp.StatusCode != http.StatusCreated {
				t.Fatalf("create product = %d", resp.StatusCode)
			}
			if resp := post(t, srv.URL+"/sales", `{"product_id":1,"quantity":2,"price":"9.99"}`); resp.StatusCode != http.StatusCreated {
				t.Fatalf("create sale = %d", resp.StatusCode)
			}
			_, body := get(t, srv.URL+"/sales")
			for _, want := range []string{`"name":"Case"`, `"category":"Phone Cases"`, `"quantity":2`, `"sale_price":"9.99"`, `"total":"19.98"`} {
				if !strings.Contains(body, want) {
					t.Errorf("GET /sales missing %s: %s", want, body)
				}
			}

			req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/products/1", nil)
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != http.StatusConflict {
				t.Errorf("delete sold product = %d, want 409", resp.StatusCode)
			}
		})
	}
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newServer(t, config.StorageConfig{Driver: config.DriverCSV, Root: t.TempDir()})

	resp, body := get(t, srv.URL+"/healthz")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, `"ok"`) {
		t.Fatalf("healthz = %d %s", resp.StatusCode, body)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("missing request id header")
	}

	get(t, srv.URL+"/products")
	_, body = get(t, srv.URL+"/metrics")
	for _, want := range []string{
		`revenue_api_requests_total{method="GET",path="GET /products"} 1`,
		`revenue_store_cache_lookups_total{read="products",result="miss"}`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %s", want)
		}
	}
}

func TestPanicIsLoggedAndCounted(t *testing.T) {
	ctx := context.Background()
	m := metrics.New("revenue")
	st, err := store.Open(ctx, config.StorageConfig{Driver: config.DriverCSV, Root: t.TempDir()}, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	app := NewApp(st, m, zap.NewNop())
	app.mux.HandleFunc("GET /explode", func(http.ResponseWriter, *http.Request) { panic("boom") })

	rr := httptest.NewRecorder()
	app.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/explode", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("request id lost on panic")
	}

	rr = httptest.NewRecorder()
	app.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	want := `revenue_api_errors_total{method="GET",path="GET /explode",status="500"} 1`
	if !strings.Contains(rr.Body.String(), want) {
		t.Errorf("metrics missing %s", want)
	}
}
