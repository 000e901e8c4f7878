// Package ledger holds the arithmetic behind balances, stock valuation, debt
// settlement and work-time totals. It has no database access.
package ledger

import "pocketbook/internal/models"

// Summary aggregates incomes and expenses. TotalExpenses includes stock
// consumption write-downs; Balance does not subtract them.
type Summary struct {
	TotalIncome         int64 `json:"total_income"`
	TotalExpenses       int64 `json:"total_expenses"`
	ConsumptionExpenses int64 `json:"consumption_expenses"`
	CashExpenses        int64 `json:"cash_expenses"`
	Balance             int64 `json:"balance"`
	IncomeCount         int64 `json:"income_count"`
	ExpenseCount        int64 `json:"expense_count"`
}

// NewSummary builds a Summary from pre-aggregated totals.
func NewSummary(totalIncome, totalExpenses, consumption, incomeCount, expenseCount int64) Summary {
	cash := totalExpenses - consumption
	return Summary{
		TotalIncome:         totalIncome,
		TotalExpenses:       totalExpenses,
		ConsumptionExpenses: consumption,
		CashExpenses:        cash,
		Balance:             totalIncome - cash,
		IncomeCount:         incomeCount,
		ExpenseCount:        expenseCount,
	}
}

// Summarize aggregates the given rows.
func Summarize(incomes []models.Income, expenses []models.Expense) Summary {
	var totalIncome, totalExpenses, consumption int64
	for _, in := range incomes {
		totalIncome += in.Amount
	}
	for _, ex := range expenses {
		totalExpenses += ex.Amount
		if ex.IsConsumption() {
			consumption += ex.Amount
		}
	}
	return NewSummary(totalIncome, totalExpenses, consumption, int64(len(incomes)), int64(len(expenses)))
}
