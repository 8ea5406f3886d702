package models

import "github.com/shopspring/decimal"

// Column order of the three collections. CSV headers are written from these lists,
// so they must stay in sync with the csv tags below.
var (
	ProductColumns = []string{"id", "name", "category", "price", "created_at", "notes"}
	SaleColumns    = []string{"id", "product_id", "quantity", "price", "date"}
	ExpenseColumns = []string{"id", "description", "amount", "date"}
)

// Product is a catalog entry. Products are never updated once created.
type Product struct {
	ID        int64           `gorm:"primaryKey;autoIncrement:false" csv:"id" json:"id"`
	Name      string          `gorm:"size:255;not null" csv:"name" json:"name"`
	Category  Category        `gorm:"size:64;not null" csv:"category" json:"category"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" csv:"price" json:"price"`
	CreatedAt Timestamp       `gorm:"not null;autoCreateTime:false" csv:"created_at" json:"created_at"`
	Notes     string          `gorm:"type:text" csv:"notes" json:"notes,omitempty"`
}

func (Product) TableName() string { return "products" }

// Sale is a single transaction. Price is the unit price actually charged and is
// independent of later catalog changes.
type Sale struct {
	ID        int64           `gorm:"primaryKey;autoIncrement:false" csv:"id" json:"id"`
	ProductID int64           `gorm:"index;not null" csv:"product_id" json:"product_id"`
	Quantity  int             `gorm:"not null" csv:"quantity" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" csv:"price" json:"price"`
	Date      Date            `gorm:"index;not null" csv:"date" json:"date"`
}

func (Sale) TableName() string { return "sales" }

// LineTotal is what the sale contributed to revenue.
func (s Sale) LineTotal() decimal.Decimal {
	return s.Price.Mul(decimal.NewFromInt(int64(s.Quantity)))
}

type Expense struct {
	ID          int64           `gorm:"primaryKey;autoIncrement:false" csv:"id" json:"id"`
	Description string          `gorm:"size:500;not null" csv:"description" json:"description"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" csv:"amount" json:"amount"`
	Date        Date            `gorm:"index;not null" csv:"date" json:"date"`
}

func (Expense) TableName() string { return "expenses" }

// SaleDetail is a sale joined with its product. Overlapping columns are renamed:
// the sale's id and price become sale_id and sale_price, the product's become
// product_id and product_price.
type SaleDetail struct {
	SaleID       int64           `csv:"sale_id" json:"sale_id"`
	ProductID    int64           `csv:"product_id" json:"product_id"`
	Quantity     int             `csv:"quantity" json:"quantity"`
	SalePrice    decimal.Decimal `csv:"sale_price" json:"sale_price"`
	Date         Date            `csv:"date" json:"date"`
	Name         string          `csv:"name" json:"name"`
	Category     Category        `csv:"category" json:"category"`
	ProductPrice decimal.Decimal `csv:"product_price" json:"product_price"`
	CreatedAt    Timestamp       `csv:"created_at" json:"created_at"`
	Notes        string          `csv:"notes" json:"notes,omitempty"`
}

// NewSaleDetail joins a sale with the product it references.
func NewSaleDetail(s Sale, p Product) SaleDetail {
	return SaleDetail{
		SaleID:       s.ID,
		ProductID:    s.ProductID,
		Quantity:     s.Quantity,
		SalePrice:    s.Price,
		Date:         s.Date,
		Name:         p.Name,
		Category:     p.Category,
		ProductPrice: p.Price,
		CreatedAt:    p.CreatedAt,
		Notes:        p.Notes,
	}
}

// LineTotal is sale_price × quantity.
func (d SaleDetail) LineTotal() decimal.Decimal {
	return d.SalePrice.Mul(decimal.NewFromInt(int64(d.Quantity)))
}
