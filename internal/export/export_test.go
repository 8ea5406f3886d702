package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/shopspring/decimal"

	"github.com/diewo77/go-revenue/internal/models"
)

func sampleRows(t *testing.T) []models.SaleDetail {
	t.Helper()
	d, err := models.ParseDate("2024-04-02")
	if err != nil {
		t.Fatal(err)
	}
	return []models.SaleDetail{
		{SaleID: 1, Date: d, Name: "Case", Category: models.CategoryPhoneCases, Quantity: 2, SalePrice: decimal.RequireFromString("9.99")},
		{SaleID: 4, Date: d, Name: "Cable, braided", Category: models.CategoryChargersCables, Quantity: 1, SalePrice: decimal.RequireFromString("5")},
	}
}

func TestSalesCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := SalesCSV(&buf, sampleRows(t)); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{
		"sale_id,date,name,category,quantity,sale_price,line_total",
		"1,2024-04-02,Case,Phone Cases,2,9.99,19.98",
		`4,2024-04-02,"Cable, braided",Chargers & Cables,1,5.00,5.00`,
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestSalesCSV_EmptyHasHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := SalesCSV(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "sale_id,date,name,category,quantity,sale_price,line_total\n" {
		t.Errorf("empty export = %q", got)
	}
}

func TestSalesXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := SalesXLSX(&buf, sampleRows(t)); err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open written workbook: %v", err)
	}
	cells := map[string]string{
		"A1": "sale_id",
		"G1": "line_total",
		"C2": "Case",
		"D3": "Chargers & Cables",
		"B2": "2024-04-02",
	}
	for axis, want := range cells {
		if got := f.GetCellValue(sheet, axis); got != want {
			t.Errorf("%s = %q, want %q", axis, got, want)
		}
	}
}

func TestCell(t *testing.T) {
	tests := []struct {
		col, row int
		want     string
	}{
		{0, 1, "A1"},
		{6, 2, "G2"},
		{25, 10, "Z10"},
		{26, 3, "AA3"},
		{27, 3, "AB3"},
	}
	for _, tt := range tests {
		if got := cell(tt.col, tt.row); got != tt.want {
			t.Errorf("cell(%d, %d) = %s, want %s", tt.col, tt.row, got, tt.want)
		}
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, "pdf", nil); err == nil {
		t.Fatal("expected error")
	}
	if _, _, ok := ContentType("pdf"); ok {
		t.Error("pdf should not have a content type")
	}
}
