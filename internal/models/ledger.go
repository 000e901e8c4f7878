package models

import "time"

// Categories written by the inventory and debt flows.
const (
	CategoryProductSale      = "Product Sale"
	CategoryStockConsumption = "Stock Consumption"
	CategoryDebtPayment      = "Debt Payment"
	CategoryDebtCollection   = "Debt Collection"
)

// Income is money received. Amount is in minor units and always positive.
type Income struct {
	Base
	UserID      string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount      int64     `gorm:"type:bigint;not null" json:"amount"`
	Category    string    `gorm:"not null;index" json:"category"`
	Description string    `json:"description"`
	Date        time.Time `gorm:"not null;index" json:"date"`
}

// Expense is money spent, or a stock write-down when Category is
// CategoryStockConsumption.
type Expense struct {
	Base
	UserID      string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount      int64     `gorm:"type:bigint;not null" json:"amount"`
	Category    string    `gorm:"not null;index" json:"category"`
	Description string    `json:"description"`
	Date        time.Time `gorm:"not null;index" json:"date"`
}

// IsConsumption reports whether the expense is a non-cash stock write-down.
func (e Expense) IsConsumption() bool {
	return e.Category == CategoryStockConsumption
}
