package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/diewo77/go-revenue/internal/services"
	"github.com/diewo77/go-revenue/internal/store"
	"github.com/diewo77/go-revenue/internal/store/csvfile"
)

func setupMux(t *testing.T) (*http.ServeMux, *store.Store) {
	t.Helper()
	st := store.New(csvfile.New(t.TempDir()))
	if err := st.Bootstrap(context.Background()); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	reports := services.NewReportService(st)
	ph := NewProductHandler(st, reports)
	sh := NewSaleHandler(st)
	eh := NewExpenseHandler(st)
	rh := NewReportHandler(reports)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /categories", ph.Categories)
	mux.HandleFunc("GET /products", ph.List)
	mux.HandleFunc("GET /products/stats", ph.Stats)
	mux.HandleFunc("POST /products", ph.Create)
	mux.HandleFunc("DELETE /products/{id}", ph.Delete)
	mux.HandleFunc("GET /sales", sh.List)
	mux.HandleFunc("POST /sales", sh.Create)
	mux.HandleFunc("DELETE /sales/{id}", sh.Delete)
	mux.HandleFunc("GET /sales/orphans", sh.Orphans)
	mux.HandleFunc("GET /sales/export", sh.Export)
	mux.HandleFunc("GET /expenses", eh.List)
	mux.HandleFunc("POST /expenses", eh.Create)
	mux.HandleFunc("GET /dashboard", rh.Dashboard)
	mux.HandleFunc("GET /analytics", rh.Analytics)
	return mux, st
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeID(t *testing.T, rr *httptest.ResponseRecorder) int64 {
	t.Helper()
	var c created
	if err := json.Unmarshal(rr.Body.Bytes(), &c); err != nil {
		t.Fatalf("decode id: %v (%s)", err, rr.Body.String())
	}
	return c.ID
}

func TestProductCreate_Validation(t *testing.T) {
	mux, _ := setupMux(t)
	tests := []struct {
		name   string
		body   string
		status int
		field  string
	}{
		{"ok", `{"name":"Case","category":"Phone Cases","price":"9.99"}`, http.StatusCreated, ""},
		{"missing name", `{"name":" ","category":"Phone Cases","price":"9.99"}`, http.StatusBadRequest, "name"},
		{"unknown category", `{"name":"Toaster","category":"Kitchen","price":"9.99"}`, http.StatusBadRequest, "category"},
		{"negative price", `{"name":"Case","category":"Phone Cases","price":-1}`, http.StatusBadRequest, "price"},
		{"unknown field", `{"name":"Case","category":"Phone Cases","colour":"red"}`, http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, mux, http.MethodPost, "/products", tt.body)
			if rr.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", rr.Code, tt.status, rr.Body.String())
			}
			if tt.field != "" && !strings.Contains(rr.Body.String(), `"`+tt.field+`"`) {
				t.Errorf("body %s does not name field %q", rr.Body.String(), tt.field)
			}
		})
	}
}

func TestProductDelete_ConflictWhileSold(t *testing.T) {
	mux, _ := setupMux(t)
	pid := decodeID(t, do(t, mux, http.MethodPost, "/products", `{"name":"Case","category":"Phone Cases","price":"9.99"}`))
	sid := decodeID(t, do(t, mux, http.MethodPost, "/sales", `{"product_id":`+itoa(pid)+`,"quantity":1,"price":"9.99"}`))

	if rr := do(t, mux, http.MethodDelete, "/products/"+itoa(pid), ""); rr.Code != http.StatusConflict {
		t.Fatalf("delete sold product = %d, want 409", rr.Code)
	}
	if rr := do(t, mux, http.MethodDelete, "/sales/"+itoa(sid), ""); rr.Code != http.StatusNoContent {
		t.Fatalf("delete sale = %d", rr.Code)
	}
	if rr := do(t, mux, http.MethodDelete, "/products/"+itoa(pid), ""); rr.Code != http.StatusNoContent {
		t.Fatalf("delete product = %d", rr.Code)
	}
	if rr := do(t, mux, http.MethodDelete, "/products/abc", ""); rr.Code != http.StatusBadRequest {
		t.Fatalf("delete bad id = %d", rr.Code)
	}
}

func TestProductDelete_IDIsBaseTen(t *testing.T) {
	mux, st := setupMux(t)
	for i := 0; i < 10; i++ {
		do(t, mux, http.MethodPost, "/products", `{"name":"Case","category":"Phone Cases","price":"1"}`)
	}

	for _, path := range []string{"/products/0x3", "/products/-3", "/products/1_0", "/products/0"} {
		if rr := do(t, mux, http.MethodDelete, path, ""); rr.Code != http.StatusBadRequest {
			t.Errorf("DELETE %s = %d, want 400", path, rr.Code)
		}
	}
	if rr := do(t, mux, http.MethodDelete, "/products/010", ""); rr.Code != http.StatusNoContent {
		t.Fatalf("DELETE /products/010 = %d", rr.Code)
	}

	products, err := st.Products(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	var ids []int64
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	want := []int64{1, 2, 3, 4, 5, 6, 7, 8, 9}
	if len(ids) != len(want) {
		t.Fatalf("remaining ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("remaining ids = %v, want %v", ids, want)
		}
	}
}

func TestProductList_Filters(t *testing.T) {
	mux, _ := setupMux(t)
	for _, body := range []string{
		`{"name":"Clear Case","category":"Phone Cases","price":"9.99"}`,
		`{"name":"Cable","category":"Chargers & Cables","price":"5"}`,
	} {
		if rr := do(t, mux, http.MethodPost, "/products", body); rr.Code != http.StatusCreated {
			t.Fatalf("create = %d", rr.Code)
		}
	}
	rr := do(t, mux, http.MethodGet, "/products?q=case", "")
	var got []map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0]["name"] != "Clear Case" {
		t.Errorf("filtered = %v", got)
	}

	rr = do(t, mux, http.MethodGet, "/products?category=Chargers+%26+Cables", "")
	got = nil
	_ = json.Unmarshal(rr.Body.Bytes(), &got)
	if len(got) != 1 || got[0]["name"] != "Cable" {
		t.Errorf("by category = %v", got)
	}
}

func TestSaleCreate_Validation(t *testing.T) {
	mux, st := setupMux(t)
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"zero quantity", `{"product_id":1,"quantity":0,"price":"5"}`, "quantity"},
		{"missing price", `{"product_id":1,"quantity":1}`, "price"},
		{"missing product", `{"quantity":1,"price":"5"}`, "product_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, mux, http.MethodPost, "/sales", tt.body)
			if rr.Code != http.StatusBadRequest || !strings.Contains(rr.Body.String(), `"`+tt.field+`"`) {
				t.Fatalf("status = %d %s, want 400 naming %q", rr.Code, rr.Body.String(), tt.field)
			}
		})
	}
	sales, err := st.Sales(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(sales) != 0 {
		t.Errorf("rejected requests stored %d sales", len(sales))
	}

	if rr := do(t, mux, http.MethodPost, "/sales", `{"product_id":1,"quantity":1,"price":"0"}`); rr.Code != http.StatusCreated {
		t.Errorf("explicit free sale = %d %s", rr.Code, rr.Body.String())
	}
}

func TestSalesListAndOrphans(t *testing.T) {
	mux, _ := setupMux(t)
	pid := decodeID(t, do(t, mux, http.MethodPost, "/products", `{"name":"Case","category":"Phone Cases","price":"9.99"}`))
	do(t, mux, http.MethodPost, "/sales", `{"product_id":`+itoa(pid)+`,"quantity":2,"price":"9.99"}`)
	do(t, mux, http.MethodPost, "/sales", `{"product_id":99,"quantity":1,"price":"1"}`)

	rr := do(t, mux, http.MethodGet, "/sales", "")
	var list struct {
		Sales     []map[string]any `json:"sales"`
		Total     string           `json:"total"`
		ItemsSold int              `json:"items_sold"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if len(list.Sales) != 1 || list.Total != "19.98" || list.ItemsSold != 2 {
		t.Errorf("list = %+v", list)
	}

	rr = do(t, mux, http.MethodGet, "/sales/orphans", "")
	var orphans []map[string]any
	_ = json.Unmarshal(rr.Body.Bytes(), &orphans)
	if len(orphans) != 1 || orphans[0]["product_id"] != float64(99) {
		t.Errorf("orphans = %v", orphans)
	}

	if rr := do(t, mux, http.MethodGet, "/sales?from=2024-05-02&to=2024-05-01", ""); rr.Code != http.StatusBadRequest {
		t.Errorf("inverted range = %d", rr.Code)
	}
}

func TestSalesExport(t *testing.T) {
	mux, _ := setupMux(t)
	pid := decodeID(t, do(t, mux, http.MethodPost, "/products", `{"name":"Case","category":"Phone Cases","price":"9.99"}`))
	do(t, mux, http.MethodPost, "/sales", `{"product_id":`+itoa(pid)+`,"quantity":1,"price":"9.99"}`)

	rr := do(t, mux, http.MethodGet, "/sales/export?format=csv", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.HasPrefix(rr.Header().Get("Content-Type"), "text/csv") {
		t.Errorf("content type = %q", rr.Header().Get("Content-Type"))
	}
	if !strings.Contains(rr.Body.String(), "Case,Phone Cases,1,9.99,9.99") {
		t.Errorf("csv body = %s", rr.Body.String())
	}

	rr = do(t, mux, http.MethodGet, "/sales/export?format=xlsx", "")
	if rr.Code != http.StatusOK || !bytes.HasPrefix(rr.Body.Bytes(), []byte("PK")) {
		t.Errorf("xlsx export = %d, %d bytes", rr.Code, rr.Body.Len())
	}

	if rr := do(t, mux, http.MethodGet, "/sales/export?format=pdf", ""); rr.Code != http.StatusBadRequest {
		t.Errorf("pdf export = %d", rr.Code)
	}
}

func TestExpenseCreate_RequiresPositiveAmount(t *testing.T) {
	mux, st := setupMux(t)
	tests := []struct {
		body   string
		status int
	}{
		{`{"description":"Rent","amount":"800"}`, http.StatusCreated},
		{`{"description":"Rent","amount":"800"}`, http.StatusCreated},
		{`{"description":"Refund","amount":"0"}`, http.StatusBadRequest},
		{`{"description":"","amount":"5"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		if rr := do(t, mux, http.MethodPost, "/expenses", tt.body); rr.Code != tt.status {
			t.Errorf("POST %s = %d, want %d", tt.body, rr.Code, tt.status)
		}
	}
	rows, err := st.Expenses(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected both Rent rows, got %d", len(rows))
	}
}

func TestDashboardAndAnalytics(t *testing.T) {
	mux, _ := setupMux(t)
	pid := decodeID(t, do(t, mux, http.MethodPost, "/products", `{"name":"Case","category":"Phone Cases","price":"10"}`))
	do(t, mux, http.MethodPost, "/sales", `{"product_id":`+itoa(pid)+`,"quantity":3,"price":"10"}`)
	do(t, mux, http.MethodPost, "/expenses", `{"description":"Rent","amount":"10"}`)

	rr := do(t, mux, http.MethodGet, "/dashboard", "")
	var d map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &d); err != nil {
		t.Fatal(err)
	}
	if d["today_sales"] != "30" || d["net_profit"] != "20" {
		t.Errorf("dashboard = %v", d)
	}

	rr = do(t, mux, http.MethodGet, "/analytics", "")
	var a struct {
		Summary struct {
			Revenue string `json:"revenue"`
		} `json:"summary"`
		Profit []any `json:"daily_profit"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &a); err != nil {
		t.Fatal(err)
	}
	if a.Summary.Revenue != "30" {
		t.Errorf("analytics revenue = %q", a.Summary.Revenue)
	}
	if len(a.Profit) != DefaultAnalyticsDays+1 {
		t.Errorf("daily profit points = %d, want %d", len(a.Profit), DefaultAnalyticsDays+1)
	}

	if rr := do(t, mux, http.MethodGet, "/analytics?from=garbage", ""); rr.Code != http.StatusBadRequest {
		t.Errorf("bad from = %d", rr.Code)
	}
	rr = do(t, mux, http.MethodGet, "/analytics?from=0001-01-01&to=9999-12-31", "")
	if rr.Code != http.StatusBadRequest || !strings.Contains(rr.Body.String(), "invalid_date_range") {
		t.Errorf("unbounded range = %d, body %d bytes", rr.Code, rr.Body.Len())
	}
}

func TestCategories(t *testing.T) {
	mux, _ := setupMux(t)
	var cats []string
	if err := json.Unmarshal(do(t, mux, http.MethodGet, "/categories", "").Body.Bytes(), &cats); err != nil {
		t.Fatal(err)
	}
	if len(cats) != 12 || cats[0] != "Phones - New" {
		t.Errorf("categories = %v", cats)
	}
}

func itoa(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}
