package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// QuantityScale is the number of decimal places kept for stock quantities.
const QuantityScale = 6

// Product is an inventory item. Costs and prices are minor units per unit of
// stock; StockQuantity may be fractional (grams, litres).
type Product struct {
	Base
	UserID        string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Name          string          `gorm:"not null" json:"name"`
	Unit          string          `gorm:"not null;default:'g'" json:"unit"`
	StockQuantity decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0" json:"stock_quantity" swaggertype:"string"`
	CostPerUnit   int64           `gorm:"type:bigint;not null;default:0" json:"cost_per_unit"`
	PricePerUnit  int64           `gorm:"type:bigint;not null;default:0" json:"price_per_unit"`
}

// AfterFind trims float noise from drivers that keep decimals as REAL.
func (p *Product) AfterFind(tx *gorm.DB) error {
	p.StockQuantity = p.StockQuantity.Round(QuantityScale)
	return nil
}

// Consumption records stock removed for personal use.
type Consumption struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	ProductID   string          `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName string          `gorm:"not null" json:"product_name"`
	Quantity    decimal.Decimal `gorm:"type:decimal(20,6);not null" json:"quantity" swaggertype:"string"`
	CostValue   int64           `gorm:"type:bigint;not null" json:"cost_value"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
}

// AfterFind trims float noise from drivers that keep decimals as REAL.
func (c *Consumption) AfterFind(tx *gorm.DB) error {
	c.Quantity = c.Quantity.Round(QuantityScale)
	return nil
}
