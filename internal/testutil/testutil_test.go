package testutil_test

import (
	"testing"
	"time"

	"pocketbook/internal/errors"
	"pocketbook/internal/models"
	"pocketbook/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	var count int64
	for _, table := range []string{"users", "incomes", "expenses", "products", "consumptions", "debts", "work_sessions", "calendar_events", "tasks", "audit_logs"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestSetupTestDBIsolation(t *testing.T) {
	first := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, first)
	second := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, second)

	testutil.CreateTestUser(t, first)

	var count int64
	second.Model(&models.User{}).Count(&count)
	if count != 0 {
		t.Errorf("expected isolated database, found %d users", count)
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	if user.ID == "" {
		t.Fatal("user should have an ID")
	}

	product := testutil.CreateTestProduct(t, db, user.ID, "12.5", 100, 250)
	if product.StockQuantity.String() != "12.5" {
		t.Errorf("expected stock 12.5, got %s", product.StockQuantity)
	}

	debt := testutil.CreateTestDebt(t, db, user.ID, models.DebtOwedToMe, 5000, 5000)
	if debt.Status != models.DebtStatusPaid {
		t.Errorf("expected derived paid status, got %s", debt.Status)
	}

	session := testutil.CreateTestWorkSession(t, db, user.ID, time.Now(), nil)
	if !session.Active() {
		t.Error("expected active session")
	}

	testutil.CreateTestIncome(t, db, user.ID, 1000, "Salary")
	testutil.CreateTestIncome(t, db, user.ID, 500, "Gift")
	testutil.AssertRowCount(t, db, &models.Income{}, user.ID, 2)
}

func TestAssertAppError(t *testing.T) {
	testutil.AssertAppError(t, errors.ErrProductNotFound, "PRODUCT_NOT_FOUND")
	testutil.AssertAppError(t, errors.Wrap(errors.ErrInternalServer, nil), "INTERNAL_ERROR")
}
