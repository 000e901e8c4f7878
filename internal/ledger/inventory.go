package ledger

import (
	"fmt"

	apperrors "pocketbook/internal/errors"
	"pocketbook/internal/models"

	"github.com/shopspring/decimal"
)

// ProductValuation is the cost and sale value of a product's current stock.
type ProductValuation struct {
	TotalCost  int64 `json:"total_cost"`
	TotalValue int64 `json:"total_value"`
	Profit     int64 `json:"profit"`
}

// InventoryValuation totals every product's valuation.
type InventoryValuation struct {
	Products      int             `json:"total_products"`
	TotalQuantity decimal.Decimal `json:"total_quantity" swaggertype:"string"`
	TotalCost     int64           `json:"total_cost"`
	TotalValue    int64           `json:"total_stock_value"`
	TotalProfit   int64           `json:"total_profit"`
}

// ExtendedValue multiplies a per-unit minor amount by a quantity, rounding
// half away from zero to whole minor units.
func ExtendedValue(qty decimal.Decimal, perUnit int64) int64 {
	return qty.Mul(decimal.NewFromInt(perUnit)).Round(0).IntPart()
}

// UnitPrice divides a total by a quantity, rounding to whole minor units.
// A zero quantity yields zero.
func UnitPrice(total int64, qty decimal.Decimal) int64 {
	if qty.IsZero() {
		return 0
	}
	return decimal.NewFromInt(total).Div(qty).Round(0).IntPart()
}

// ValueProduct values the product's remaining stock.
func ValueProduct(p models.Product) ProductValuation {
	cost := ExtendedValue(p.StockQuantity, p.CostPerUnit)
	value := ExtendedValue(p.StockQuantity, p.PricePerUnit)
	return ProductValuation{TotalCost: cost, TotalValue: value, Profit: value - cost}
}

// ValueInventory values every product.
func ValueInventory(products []models.Product) InventoryValuation {
	v := InventoryValuation{Products: len(products), TotalQuantity: decimal.Zero}
	for _, p := range products {
		pv := ValueProduct(p)
		v.TotalQuantity = v.TotalQuantity.Add(p.StockQuantity)
		v.TotalCost += pv.TotalCost
		v.TotalValue += pv.TotalValue
	}
	v.TotalProfit = v.TotalValue - v.TotalCost
	return v
}

// CheckQuantity rejects quantities with more decimal places than
// models.QuantityScale, which storage would silently round.
func CheckQuantity(q decimal.Decimal) error {
	if !q.Equal(q.Round(models.QuantityScale)) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput,
			fmt.Sprintf("Quantity supports at most %d decimal places", models.QuantityScale))
	}
	return nil
}

// RemoveStock returns stock minus qty. It fails with ErrInsufficientStock when
// qty exceeds stock and with ErrInvalidInput when qty is not positive or too
// precise. Stock is compared at storage scale.
func RemoveStock(stock, qty decimal.Decimal) (decimal.Decimal, error) {
	if !qty.IsPositive() {
		return stock, apperrors.WithMessage(apperrors.ErrInvalidInput, "Quantity must be greater than zero")
	}
	if err := CheckQuantity(qty); err != nil {
		return stock, err
	}
	stock = stock.Round(models.QuantityScale)
	if qty.GreaterThan(stock) {
		return stock, apperrors.WithMessage(apperrors.ErrInsufficientStock,
			"Not enough stock: requested "+qty.String()+", available "+stock.String())
	}
	return stock.Sub(qty), nil
}
