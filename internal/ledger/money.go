package ledger

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatMoney renders minor units in the given ISO 4217 currency, e.g.
// 5000 USD as "$50.00". Unknown currencies fall back to the bare amount.
func FormatMoney(amount int64, currency string) string {
	if money.GetCurrency(currency) == nil {
		return decimal.New(amount, -2).StringFixed(2)
	}
	return money.New(amount, currency).Display()
}

// FormatQuantity renders a stock quantity with its unit, e.g. "2.5g".
func FormatQuantity(q decimal.Decimal, unit string) string {
	return q.String() + unit
}

// MajorUnits converts minor units to a decimal in major units using the
// currency's fraction digits, defaulting to two.
func MajorUnits(amount int64, currency string) decimal.Decimal {
	exp := int32(2)
	if c := money.GetCurrency(currency); c != nil {
		exp = int32(c.Fraction)
	}
	return decimal.New(amount, -exp)
}
