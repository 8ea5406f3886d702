// Package services computes the dashboard and analytics figures from the record
// store. Revenue is always the sum of line totals (sale price × quantity).
package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"

	"github.com/diewo77/go-revenue/internal/models"
)

// DefaultTopProducts is how many products TopProducts keeps when limit <= 0.
const DefaultTopProducts = 10

// MaxAnalyticsDays bounds the span of Analytics, which emits one profit point
// per calendar day.
const MaxAnalyticsDays = 3660

// ErrRangeTooWide is returned by Analytics for a span beyond MaxAnalyticsDays.
var ErrRangeTooWide = errors.New("date range exceeds maximum span")

// Source is the read side of the record store.
type Source interface {
	Products(ctx context.Context) ([]models.Product, error)
	SalesData(ctx context.Context) ([]models.SaleDetail, error)
	Expenses(ctx context.Context) ([]models.Expense, error)
}

type ReportService struct {
	src Source
	now func() time.Time
}

func NewReportService(src Source) *ReportService {
	return &ReportService{src: src, now: time.Now}
}

// Summary is the key metrics block for a period.
type Summary struct {
	From         models.Date     `json:"from"`
	To           models.Date     `json:"to"`
	Revenue      decimal.Decimal `json:"revenue"`
	Expenses     decimal.Decimal `json:"expenses"`
	NetProfit    decimal.Decimal `json:"net_profit"`
	ProfitMargin decimal.Decimal `json:"profit_margin_pct"`
	ItemsSold    int             `json:"items_sold"`
	SaleCount    int             `json:"sale_count"`
	MeanSale     decimal.Decimal `json:"mean_sale"`
	MedianSale   decimal.Decimal `json:"median_sale"`
}

type DayAmount struct {
	Date   models.Date     `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

type CategoryStat struct {
	Category models.Category `json:"category"`
	Revenue  decimal.Decimal `json:"revenue"`
	Sales    int             `json:"sales"`
}

type ProfitPoint struct {
	Date     models.Date     `json:"date"`
	Revenue  decimal.Decimal `json:"revenue"`
	Expenses decimal.Decimal `json:"expenses"`
	Profit   decimal.Decimal `json:"profit"`
}

type ProductStat struct {
	Name     string          `json:"name"`
	Revenue  decimal.Decimal `json:"revenue"`
	Quantity int             `json:"quantity"`
}

type Dashboard struct {
	Today         models.Date     `json:"today"`
	TodaySales    decimal.Decimal `json:"today_sales"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	NetProfit     decimal.Decimal `json:"net_profit"`
	ProfitMargin  decimal.Decimal `json:"profit_margin_pct"`
	LastWeek      []DayAmount     `json:"last_week"`
}

type Analytics struct {
	Summary     Summary        `json:"summary"`
	Daily       []DayAmount    `json:"daily_revenue"`
	Categories  []CategoryStat `json:"categories"`
	Profit      []ProfitPoint  `json:"daily_profit"`
	TopProducts []ProductStat  `json:"top_products"`
}

type ProductStats struct {
	Total      int             `json:"total"`
	Categories int             `json:"categories"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// Dashboard reports today's sales, all-time totals and the seven days ending today.
func (s *ReportService) Dashboard(ctx context.Context) (Dashboard, error) {
	rows, err := s.src.SalesData(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	expenses, err := s.src.Expenses(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	today := models.NewDate(s.now())
	revenue := Revenue(rows)
	spent := TotalExpenses(expenses)
	net := revenue.Sub(spent)
	week := SalesBetween(rows, today.AddDays(-6), today)
	return Dashboard{
		Today:         today,
		TodaySales:    Revenue(SalesBetween(rows, today, today)),
		TotalRevenue:  revenue,
		TotalExpenses: spent,
		NetProfit:     net,
		ProfitMargin:  Margin(net, revenue),
		LastWeek:      zeroFill(DailyRevenue(week), today.AddDays(-6), today),
	}, nil
}

// Analytics computes every figure of the analytics view for [from, to].
func (s *ReportService) Analytics(ctx context.Context, from, to models.Date) (Analytics, error) {
	if from.AddDays(MaxAnalyticsDays).Before(to.Time) {
		return Analytics{}, ErrRangeTooWide
	}
	rows, err := s.src.SalesData(ctx)
	if err != nil {
		return Analytics{}, err
	}
	expenses, err := s.src.Expenses(ctx)
	if err != nil {
		return Analytics{}, err
	}
	sales := SalesBetween(rows, from, to)
	spent := ExpensesBetween(expenses, from, to)
	return Analytics{
		Summary:     Summarize(sales, spent, from, to),
		Daily:       DailyRevenue(sales),
		Categories:  CategoryPerformance(sales),
		Profit:      DailyProfit(sales, spent, from, to),
		TopProducts: TopProducts(sales, DefaultTopProducts),
	}, nil
}

// Summary reads both collections and summarizes [from, to].
func (s *ReportService) Summary(ctx context.Context, from, to models.Date) (Summary, error) {
	rows, err := s.src.SalesData(ctx)
	if err != nil {
		return Summary{}, err
	}
	expenses, err := s.src.Expenses(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(SalesBetween(rows, from, to), ExpensesBetween(expenses, from, to), from, to), nil
}

func (s *ReportService) ProductStats(ctx context.Context) (ProductStats, error) {
	products, err := s.src.Products(ctx)
	if err != nil {
		return ProductStats{}, err
	}
	seen := map[models.Category]struct{}{}
	total := decimal.Zero
	for _, p := range products {
		seen[p.Category] = struct{}{}
		total = total.Add(p.Price)
	}
	return ProductStats{Total: len(products), Categories: len(seen), TotalValue: total}, nil
}

// Summarize expects rows and expenses already restricted to [from, to].
func Summarize(rows []models.SaleDetail, expenses []models.Expense, from, to models.Date) Summary {
	revenue := Revenue(rows)
	spent := TotalExpenses(expenses)
	net := revenue.Sub(spent)
	sum := Summary{
		From:         from,
		To:           to,
		Revenue:      revenue,
		Expenses:     spent,
		NetProfit:    net,
		ProfitMargin: Margin(net, revenue),
		SaleCount:    len(rows),
		MeanSale:     decimal.Zero,
		MedianSale:   decimal.Zero,
	}
	totals := make(stats.Float64Data, 0, len(rows))
	for _, r := range rows {
		sum.ItemsSold += r.Quantity
		totals = append(totals, r.LineTotal().InexactFloat64())
	}
	if mean, err := stats.Mean(totals); err == nil {
		sum.MeanSale = decimal.NewFromFloat(mean).Round(2)
	}
	if median, err := stats.Median(totals); err == nil {
		sum.MedianSale = decimal.NewFromFloat(median).Round(2)
	}
	return sum
}

func Revenue(rows []models.SaleDetail) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.LineTotal())
	}
	return total
}

func TotalExpenses(expenses []models.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// Margin is net as a percentage of revenue, rounded to one decimal. It is zero
// when there is no revenue.
func Margin(net, revenue decimal.Decimal) decimal.Decimal {
	if !revenue.IsPositive() {
		return decimal.Zero
	}
	return net.Div(revenue).Mul(decimal.NewFromInt(100)).Round(1)
}

// DailyRevenue sums line totals per day, oldest first. Days without sales are omitted.
func DailyRevenue(rows []models.SaleDetail) []DayAmount {
	byDay := map[string]decimal.Decimal{}
	days := map[string]models.Date{}
	for _, r := range rows {
		k := r.Date.String()
		byDay[k] = byDay[k].Add(r.LineTotal())
		days[k] = r.Date
	}
	keys := make([]string, 0, len(byDay))
	for k := range byDay {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]DayAmount, len(keys))
	for i, k := range keys {
		out[i] = DayAmount{Date: days[k], Amount: byDay[k]}
	}
	return out
}

// CategoryPerformance is revenue and sale count per category, highest revenue first.
func CategoryPerformance(rows []models.SaleDetail) []CategoryStat {
	idx := map[models.Category]int{}
	out := []CategoryStat{}
	for _, r := range rows {
		i, ok := idx[r.Category]
		if !ok {
			i = len(out)
			idx[r.Category] = i
			out = append(out, CategoryStat{Category: r.Category, Revenue: decimal.Zero})
		}
		out[i].Revenue = out[i].Revenue.Add(r.LineTotal())
		out[i].Sales++
	}
	sort.SliceStable(out, func(a, b int) bool {
		if c := out[a].Revenue.Cmp(out[b].Revenue); c != 0 {
			return c > 0
		}
		return out[a].Category < out[b].Category
	})
	return out
}

// DailyProfit has one point for every calendar day in [from, to], including days
// with neither sales nor expenses.
func DailyProfit(rows []models.SaleDetail, expenses []models.Expense, from, to models.Date) []ProfitPoint {
	revenue := map[string]decimal.Decimal{}
	for _, r := range rows {
		k := r.Date.String()
		revenue[k] = revenue[k].Add(r.LineTotal())
	}
	spent := map[string]decimal.Decimal{}
	for _, e := range expenses {
		k := e.Date.String()
		spent[k] = spent[k].Add(e.Amount)
	}
	out := []ProfitPoint{}
	for d := from; !d.After(to.Time); d = d.AddDays(1) {
		k := d.String()
		out = append(out, ProfitPoint{
			Date:     d,
			Revenue:  revenue[k],
			Expenses: spent[k],
			Profit:   revenue[k].Sub(spent[k]),
		})
	}
	return out
}

// TopProducts groups by product name and keeps the limit highest earners.
func TopProducts(rows []models.SaleDetail, limit int) []ProductStat {
	if limit <= 0 {
		limit = DefaultTopProducts
	}
	idx := map[string]int{}
	out := []ProductStat{}
	for _, r := range rows {
		i, ok := idx[r.Name]
		if !ok {
			i = len(out)
			idx[r.Name] = i
			out = append(out, ProductStat{Name: r.Name, Revenue: decimal.Zero})
		}
		out[i].Revenue = out[i].Revenue.Add(r.LineTotal())
		out[i].Quantity += r.Quantity
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Revenue.GreaterThan(out[b].Revenue) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// FilterProducts keeps products whose name contains query (case-insensitive) and
// whose category is in categories. Empty query or categories match everything.
func FilterProducts(products []models.Product, query string, categories []models.Category) []models.Product {
	query = strings.ToLower(strings.TrimSpace(query))
	allowed := map[models.Category]struct{}{}
	for _, c := range categories {
		allowed[c] = struct{}{}
	}
	out := []models.Product{}
	for _, p := range products {
		if query != "" && !strings.Contains(strings.ToLower(p.Name), query) {
			continue
		}
		if len(allowed) > 0 {
			if _, ok := allowed[p.Category]; !ok {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

// SalesBetween keeps rows dated within [from, to], both days included.
func SalesBetween(rows []models.SaleDetail, from, to models.Date) []models.SaleDetail {
	out := []models.SaleDetail{}
	for _, r := range rows {
		if inRange(r.Date, from, to) {
			out = append(out, r)
		}
	}
	return out
}

func ExpensesBetween(expenses []models.Expense, from, to models.Date) []models.Expense {
	out := []models.Expense{}
	for _, e := range expenses {
		if inRange(e.Date, from, to) {
			out = append(out, e)
		}
	}
	return out
}

func inRange(d, from, to models.Date) bool {
	return !d.Before(from.Time) && !d.After(to.Time)
}

func zeroFill(days []DayAmount, from, to models.Date) []DayAmount {
	have := map[string]decimal.Decimal{}
	for _, d := range days {
		have[d.Date.String()] = d.Amount
	}
	out := []DayAmount{}
	for d := from; !d.After(to.Time); d = d.AddDays(1) {
		out = append(out, DayAmount{Date: d, Amount: have[d.String()]})
	}
	return out
}
