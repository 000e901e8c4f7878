package services

import (
	"testing"
	"time"

	"pocketbook/internal/models"
	"pocketbook/internal/pagination"
	"pocketbook/internal/testutil"
)

func TestCreateIncome(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewLedgerService(db)
	user := testutil.CreateTestUser(t, db)

	t.Run("valid", func(t *testing.T) {
		date := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
		income, err := svc.CreateIncome(user.ID, 5000, " Salary ", "May pay", date)
		testutil.AssertNoError(t, err)
		if income.Category != "Salary" {
			t.Errorf("expected trimmed category, got %q", income.Category)
		}
		if !income.Date.Equal(date) {
			t.Errorf("expected date %v, got %v", date, income.Date)
		}
	})

	t.Run("zero_amount", func(t *testing.T) {
		_, err := svc.CreateIncome(user.ID, 0, "Salary", "", time.Now())
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("missing_category", func(t *testing.T) {
		_, err := svc.CreateIncome(user.ID, 100, "  ", "", time.Now())
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("defaults_date_to_now", func(t *testing.T) {
		income, err := svc.CreateIncome(user.ID, 100, "Gift", "", time.Time{})
		testutil.AssertNoError(t, err)
		if time.Since(income.Date) > time.Minute {
			t.Errorf("expected date near now, got %v", income.Date)
		}
	})
}

func TestGetIncomes_FiltersAndPagination(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewLedgerService(db)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)

	for i := 0; i < 5; i++ {
		testutil.CreateTestIncome(t, db, user.ID, int64(1000*(i+1)), "Salary")
	}
	testutil.CreateTestIncome(t, db, user.ID, 300, "Gift")
	testutil.CreateTestIncome(t, db, other.ID, 999, "Salary")

	page, err := svc.GetIncomes(user.ID, pagination.PageRequest{Page: 1, PageSize: 4}, LedgerFilter{})
	testutil.AssertNoError(t, err)
	if page.TotalItems != 6 {
		t.Errorf("expected 6 items, got %d", page.TotalItems)
	}
	if len(page.Data) != 4 {
		t.Errorf("expected 4 items on page, got %d", len(page.Data))
	}
	if page.TotalPages != 2 {
		t.Errorf("expected 2 pages, got %d", page.TotalPages)
	}

	page, err = svc.GetIncomes(user.ID, pagination.PageRequest{}, LedgerFilter{Category: strPtr("Gift")})
	testutil.AssertNoError(t, err)
	if page.TotalItems != 1 {
		t.Errorf("expected 1 gift, got %d", page.TotalItems)
	}

	page, err = svc.GetIncomes(user.ID, pagination.PageRequest{}, LedgerFilter{MinAmount: int64Ptr(2000), MaxAmount: int64Ptr(4000)})
	testutil.AssertNoError(t, err)
	if page.TotalItems != 3 {
		t.Errorf("expected 3 incomes in range, got %d", page.TotalItems)
	}
}

func TestUpdateAndDeleteExpense(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewLedgerService(db)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	expense := testutil.CreateTestExpense(t, db, user.ID, 500, "Food")

	updated, err := svc.UpdateExpense(user.ID, expense.ID, LedgerEntryUpdate{Amount: int64Ptr(750), Description: strPtr("Lunch")})
	testutil.AssertNoError(t, err)
	if updated.Amount != 750 || updated.Description != "Lunch" {
		t.Errorf("unexpected update result: %+v", updated)
	}
	if updated.Category != "Food" {
		t.Errorf("expected category untouched, got %q", updated.Category)
	}

	_, err = svc.UpdateExpense(user.ID, expense.ID, LedgerEntryUpdate{Amount: int64Ptr(-1)})
	testutil.AssertAppError(t, err, "INVALID_INPUT")

	_, err = svc.GetExpenseByID(other.ID, expense.ID)
	testutil.AssertAppError(t, err, "EXPENSE_NOT_FOUND")

	testutil.AssertNoError(t, svc.DeleteExpense(user.ID, expense.ID))
	_, err = svc.GetExpenseByID(user.ID, expense.ID)
	testutil.AssertAppError(t, err, "EXPENSE_NOT_FOUND")
}

func TestLedgerGetSummary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewLedgerService(db)
	user := testutil.CreateTestUser(t, db)

	testutil.CreateTestIncome(t, db, user.ID, 10000, "Salary")
	testutil.CreateTestIncome(t, db, user.ID, 2500, models.CategoryProductSale)
	testutil.CreateTestExpense(t, db, user.ID, 3000, "Rent")
	testutil.CreateTestExpense(t, db, user.ID, 1200, models.CategoryStockConsumption)

	summary, err := svc.GetSummary(user.ID, nil, nil)
	testutil.AssertNoError(t, err)

	if summary.TotalIncome != 12500 {
		t.Errorf("expected income 12500, got %d", summary.TotalIncome)
	}
	if summary.TotalExpenses != 4200 {
		t.Errorf("expected expenses 4200, got %d", summary.TotalExpenses)
	}
	if summary.ConsumptionExpenses != 1200 {
		t.Errorf("expected consumption 1200, got %d", summary.ConsumptionExpenses)
	}
	// Consumption is a non-cash write-down and does not reduce the balance.
	if summary.Balance != 9500 {
		t.Errorf("expected balance 9500, got %d", summary.Balance)
	}
	if summary.IncomeCount != 2 || summary.ExpenseCount != 2 {
		t.Errorf("unexpected counts: %d incomes, %d expenses", summary.IncomeCount, summary.ExpenseCount)
	}

	future := time.Now().Add(24 * time.Hour)
	summary, err = svc.GetSummary(user.ID, &future, nil)
	testutil.AssertNoError(t, err)
	if summary.TotalIncome != 0 || summary.TotalExpenses != 0 {
		t.Errorf("expected empty range, got %+v", summary)
	}
}
