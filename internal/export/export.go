// Package export writes joined sales rows as CSV or as an Excel workbook.
package export

import (
	"io"
	"strconv"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"github.com/diewo77/go-revenue/internal/models"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"

	sheet = "Sheet1"
)

// Columns of the sales export, in order.
var Columns = []string{"sale_id", "date", "name", "category", "quantity", "sale_price", "line_total"}

type saleRow struct {
	SaleID    int64           `csv:"sale_id"`
	Date      models.Date     `csv:"date"`
	Name      string          `csv:"name"`
	Category  models.Category `csv:"category"`
	Quantity  int             `csv:"quantity"`
	SalePrice string          `csv:"sale_price"`
	LineTotal string          `csv:"line_total"`
}

func toRows(rows []models.SaleDetail) []saleRow {
	out := make([]saleRow, len(rows))
	for i, r := range rows {
		out[i] = saleRow{
			SaleID:    r.SaleID,
			Date:      r.Date,
			Name:      r.Name,
			Category:  r.Category,
			Quantity:  r.Quantity,
			SalePrice: r.SalePrice.StringFixed(2),
			LineTotal: r.LineTotal().StringFixed(2),
		}
	}
	return out
}

// ContentType returns the media type and file extension for format, and false for
// an unknown format.
func ContentType(format string) (string, string, bool) {
	switch format {
	case FormatCSV, "":
		return "text/csv; charset=utf-8", "csv", true
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "xlsx", true
	}
	return "", "", false
}

// Write dispatches on format; the empty format is CSV.
func Write(w io.Writer, format string, rows []models.SaleDetail) error {
	switch format {
	case FormatCSV, "":
		return SalesCSV(w, rows)
	case FormatXLSX:
		return SalesXLSX(w, rows)
	}
	return errors.Errorf("unknown export format %q", format)
}

// SalesCSV writes a header row even when rows is empty.
func SalesCSV(w io.Writer, rows []models.SaleDetail) error {
	return errors.Wrap(gocsv.Marshal(toRows(rows), w), "encode sales csv")
}

// SalesXLSX writes one header row on Sheet1 and one row per sale. Money columns are
// numeric cells.
func SalesXLSX(w io.Writer, rows []models.SaleDetail) error {
	f := excelize.NewFile()
	for i, c := range Columns {
		f.SetCellValue(sheet, cell(i, 1), c)
	}
	for n, r := range rows {
		line := n + 2
		f.SetCellValue(sheet, cell(0, line), r.SaleID)
		f.SetCellValue(sheet, cell(1, line), r.Date.String())
		f.SetCellValue(sheet, cell(2, line), r.Name)
		f.SetCellValue(sheet, cell(3, line), r.Category.String())
		f.SetCellValue(sheet, cell(4, line), r.Quantity)
		f.SetCellValue(sheet, cell(5, line), r.SalePrice.InexactFloat64())
		f.SetCellValue(sheet, cell(6, line), r.LineTotal().InexactFloat64())
	}
	return errors.Wrap(f.Write(w), "write xlsx")
}

// cell turns a zero-based column and a one-based row into an A1 reference.
func cell(col, row int) string {
	return excelize.ToAlphaString(col) + strconv.Itoa(row)
}
