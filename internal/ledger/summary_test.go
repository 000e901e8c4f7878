package ledger

import (
	"testing"

	"pocketbook/internal/models"
)

func TestSummarize(t *testing.T) {
	incomes := []models.Income{{Amount: 10000}, {Amount: 2500}}
	expenses := []models.Expense{
		{Amount: 3000, Category: "Groceries"},
		{Amount: 1200, Category: models.CategoryStockConsumption},
		{Amount: 800, Category: models.CategoryDebtPayment},
	}

	s := Summarize(incomes, expenses)

	if s.TotalIncome != 12500 {
		t.Errorf("expected income 12500, got %d", s.TotalIncome)
	}
	if s.TotalExpenses != 5000 {
		t.Errorf("expected total expenses to include consumption (5000), got %d", s.TotalExpenses)
	}
	if s.ConsumptionExpenses != 1200 {
		t.Errorf("expected consumption 1200, got %d", s.ConsumptionExpenses)
	}
	if s.CashExpenses != 3800 {
		t.Errorf("expected cash expenses 3800, got %d", s.CashExpenses)
	}
	if s.Balance != 8700 {
		t.Errorf("expected balance 8700 (consumption not subtracted), got %d", s.Balance)
	}
	if s.IncomeCount != 2 || s.ExpenseCount != 3 {
		t.Errorf("unexpected counts %d/%d", s.IncomeCount, s.ExpenseCount)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, nil)
	if s != (Summary{}) {
		t.Errorf("expected zero summary, got %+v", s)
	}
}

func TestNewSummaryMatchesSummarize(t *testing.T) {
	got := NewSummary(500, 700, 300, 1, 2)
	if got.Balance != 100 || got.CashExpenses != 400 {
		t.Errorf("unexpected summary %+v", got)
	}
}
