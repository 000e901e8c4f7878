package services

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"pocketbook/internal/models"
	"pocketbook/internal/pagination"
	"pocketbook/internal/testutil"
)

func qty(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCreateProduct(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewProductService(db, &recordingNotifier{}, "USD")
	user := testutil.CreateTestUser(t, db)

	t.Run("defaults_unit", func(t *testing.T) {
		p, err := svc.CreateProduct(user.ID, "Green Tea", "", qty("100"), 10, 25)
		testutil.AssertNoError(t, err)
		if p.Unit != "g" {
			t.Errorf("expected default unit g, got %q", p.Unit)
		}
	})

	t.Run("negative_stock", func(t *testing.T) {
		_, err := svc.CreateProduct(user.ID, "Bad", "g", qty("-1"), 10, 25)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("missing_name", func(t *testing.T) {
		_, err := svc.CreateProduct(user.ID, " ", "g", qty("1"), 10, 25)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("stock_finer_than_scale", func(t *testing.T) {
		_, err := svc.CreateProduct(user.ID, "Saffron", "g", qty("1.0000001"), 10, 25)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetInventory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewProductService(db, &recordingNotifier{}, "USD")
	user := testutil.CreateTestUser(t, db)

	testutil.CreateTestProduct(t, db, user.ID, "10", 100, 250)
	testutil.CreateTestProduct(t, db, user.ID, "2.5", 40, 100)

	inv, err := svc.GetInventory(user.ID)
	testutil.AssertNoError(t, err)

	if len(inv.Products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(inv.Products))
	}
	if inv.Totals.TotalCost != 1100 {
		t.Errorf("expected total cost 1100, got %d", inv.Totals.TotalCost)
	}
	if inv.Totals.TotalValue != 2750 {
		t.Errorf("expected total value 2750, got %d", inv.Totals.TotalValue)
	}
	if inv.Totals.TotalProfit != 1650 {
		t.Errorf("expected profit 1650, got %d", inv.Totals.TotalProfit)
	}
	if !inv.Totals.TotalQuantity.Equal(qty("12.5")) {
		t.Errorf("expected total quantity 12.5, got %s", inv.Totals.TotalQuantity)
	}
}

func TestUpdateProduct(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewProductService(db, &recordingNotifier{}, "USD")
	user := testutil.CreateTestUser(t, db)
	product := testutil.CreateTestProduct(t, db, user.ID, "10", 100, 250)

	stock := qty("42.5")
	updated, err := svc.UpdateProduct(user.ID, product.ID, ProductUpdate{StockQuantity: &stock, PricePerUnit: int64Ptr(300)})
	testutil.AssertNoError(t, err)
	if !updated.StockQuantity.Equal(stock) || updated.PricePerUnit != 300 {
		t.Errorf("unexpected update result: %+v", updated)
	}

	negative := int64(-5)
	_, err = svc.UpdateProduct(user.ID, product.ID, ProductUpdate{CostPerUnit: &negative})
	testutil.AssertAppError(t, err, "INVALID_INPUT")

	tooPrecise := qty("3.1234567")
	_, err = svc.UpdateProduct(user.ID, product.ID, ProductUpdate{StockQuantity: &tooPrecise})
	testutil.AssertAppError(t, err, "INVALID_INPUT")

	testutil.AssertNoError(t, svc.DeleteProduct(user.ID, product.ID))
	_, err = svc.GetProductByID(user.ID, product.ID)
	testutil.AssertAppError(t, err, "PRODUCT_NOT_FOUND")
}

func TestSell(t *testing.T) {
	t.Run("full_payment_records_income", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		notes := &recordingNotifier{}
		svc := NewProductService(db, notes, "USD")
		user := testutil.CreateTestUser(t, db)
		product := testutil.CreateTestProduct(t, db, user.ID, "10", 100, 250)

		result, err := svc.Sell(user.ID, product.ID, SellRequest{Quantity: qty("4"), TotalEarned: 1000})
		testutil.AssertNoError(t, err)

		if !result.Product.StockQuantity.Equal(qty("6")) {
			t.Errorf("expected stock 6, got %s", result.Product.StockQuantity)
		}
		if result.Income == nil || result.Income.Amount != 1000 {
			t.Fatalf("expected income of 1000, got %+v", result.Income)
		}
		if result.Income.Category != models.CategoryProductSale {
			t.Errorf("expected category %q, got %q", models.CategoryProductSale, result.Income.Category)
		}
		if !strings.Contains(result.Income.Description, "$2.50/g") {
			t.Errorf("expected unit price in description, got %q", result.Income.Description)
		}
		if result.Debt != nil {
			t.Error("expected no debt for a fully paid sale")
		}

		stored, err := svc.GetProductByID(user.ID, product.ID)
		testutil.AssertNoError(t, err)
		if !stored.StockQuantity.Equal(qty("6")) {
			t.Errorf("expected stored stock 6, got %s", stored.StockQuantity)
		}
		if len(notes.sent()) != 1 {
			t.Errorf("expected one notification, got %d", len(notes.sent()))
		}
	})

	t.Run("partial_payment_opens_debt", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProductService(db, &recordingNotifier{}, "USD")
		user := testutil.CreateTestUser(t, db)
		product := testutil.CreateTestProduct(t, db, user.ID, "10", 100, 250)

		result, err := svc.Sell(user.ID, product.ID, SellRequest{
			Quantity:       qty("2"),
			TotalEarned:    500,
			AmountReceived: 200,
			CreateDebt:     true,
			PersonName:     "Sam",
		})
		testutil.AssertNoError(t, err)

		if result.Income == nil || result.Income.Amount != 200 {
			t.Fatalf("expected income of 200, got %+v", result.Income)
		}
		if result.Debt == nil {
			t.Fatal("expected a debt")
		}
		if result.Debt.Direction != models.DebtOwedToMe || result.Debt.Amount != 500 || result.Debt.AmountPaid != 200 {
			t.Errorf("unexpected debt: %+v", result.Debt)
		}
		if result.Debt.Status != models.DebtStatusPending {
			t.Errorf("expected pending debt, got %s", result.Debt.Status)
		}
	})

	t.Run("nothing_received_skips_income", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProductService(db, &recordingNotifier{}, "USD")
		user := testutil.CreateTestUser(t, db)
		product := testutil.CreateTestProduct(t, db, user.ID, "10", 100, 250)

		result, err := svc.Sell(user.ID, product.ID, SellRequest{
			Quantity: qty("1"), TotalEarned: 250, CreateDebt: true, PersonName: "Sam",
		})
		testutil.AssertNoError(t, err)
		if result.Income != nil {
			t.Error("expected no income when nothing was received")
		}
		testutil.AssertRowCount(t, db, &models.Income{}, user.ID, 0)
		testutil.AssertRowCount(t, db, &models.Debt{}, user.ID, 1)
	})

	t.Run("insufficient_stock_writes_nothing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProductService(db, &recordingNotifier{}, "USD")
		user := testutil.CreateTestUser(t, db)
		product := testutil.CreateTestProduct(t, db, user.ID, "3", 100, 250)

		_, err := svc.Sell(user.ID, product.ID, SellRequest{Quantity: qty("3.5"), TotalEarned: 900})
		testutil.AssertAppError(t, err, "INSUFFICIENT_STOCK")

		testutil.AssertRowCount(t, db, &models.Income{}, user.ID, 0)
		stored, _ := svc.GetProductByID(user.ID, product.ID)
		if !stored.StockQuantity.Equal(qty("3")) {
			t.Errorf("expected stock unchanged at 3, got %s", stored.StockQuantity)
		}
	})

	t.Run("validation", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProductService(db, &recordingNotifier{}, "USD")
		user := testutil.CreateTestUser(t, db)
		product := testutil.CreateTestProduct(t, db, user.ID, "10", 100, 250)

		cases := []struct {
			name string
			req  SellRequest
		}{
			{"zero_quantity", SellRequest{Quantity: qty("0"), TotalEarned: 100}},
			{"zero_total", SellRequest{Quantity: qty("1"), TotalEarned: 0}},
			{"received_exceeds_total", SellRequest{Quantity: qty("1"), TotalEarned: 100, AmountReceived: 150, CreateDebt: true, PersonName: "Sam"}},
			{"debt_without_person", SellRequest{Quantity: qty("1"), TotalEarned: 100, AmountReceived: 50, CreateDebt: true}},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := svc.Sell(user.ID, product.ID, tc.req)
				testutil.AssertAppError(t, err, "INVALID_INPUT")
			})
		}
	})

	t.Run("other_users_product", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProductService(db, &recordingNotifier{}, "USD")
		owner := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		product := testutil.CreateTestProduct(t, db, owner.ID, "10", 100, 250)

		_, err := svc.Sell(other.ID, product.ID, SellRequest{Quantity: qty("1"), TotalEarned: 250})
		testutil.AssertAppError(t, err, "PRODUCT_NOT_FOUND")
	})
}

func TestConsume(t *testing.T) {
	t.Run("records_consumption_and_expense", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProductService(db, &recordingNotifier{}, "USD")
		user := testutil.CreateTestUser(t, db)
		product := testutil.CreateTestProduct(t, db, user.ID, "10", 150, 250)

		date := time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC)
		result, err := svc.Consume(user.ID, product.ID, qty("1.5"), date)
		testutil.AssertNoError(t, err)

		if !result.Product.StockQuantity.Equal(qty("8.5")) {
			t.Errorf("expected stock 8.5, got %s", result.Product.StockQuantity)
		}
		if result.Consumption.CostValue != 225 {
			t.Errorf("expected cost value 225, got %d", result.Consumption.CostValue)
		}
		if result.Consumption.ProductName != product.Name {
			t.Errorf("expected product name snapshot %q, got %q", product.Name, result.Consumption.ProductName)
		}
		if result.Expense == nil || result.Expense.Amount != 225 || result.Expense.Category != models.CategoryStockConsumption {
			t.Errorf("unexpected expense: %+v", result.Expense)
		}

		summary, err := NewLedgerService(db).GetSummary(user.ID, nil, nil)
		testutil.AssertNoError(t, err)
		if summary.Balance != 0 {
			t.Errorf("expected consumption to leave balance at 0, got %d", summary.Balance)
		}
	})

	t.Run("zero_cost_skips_expense", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProductService(db, &recordingNotifier{}, "USD")
		user := testutil.CreateTestUser(t, db)
		product := testutil.CreateTestProduct(t, db, user.ID, "10", 0, 250)

		result, err := svc.Consume(user.ID, product.ID, qty("1"), time.Time{})
		testutil.AssertNoError(t, err)
		if result.Expense != nil {
			t.Error("expected no expense for a zero-cost product")
		}
		testutil.AssertRowCount(t, db, &models.Consumption{}, user.ID, 1)
	})

	t.Run("insufficient_stock", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProductService(db, &recordingNotifier{}, "USD")
		user := testutil.CreateTestUser(t, db)
		product := testutil.CreateTestProduct(t, db, user.ID, "1", 100, 250)

		_, err := svc.Consume(user.ID, product.ID, qty("2"), time.Time{})
		testutil.AssertAppError(t, err, "INSUFFICIENT_STOCK")
		testutil.AssertRowCount(t, db, &models.Consumption{}, user.ID, 0)
		testutil.AssertRowCount(t, db, &models.Expense{}, user.ID, 0)
	})
}

func TestFractionalMovementsReachZero(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewProductService(db, &recordingNotifier{}, "USD")
	user := testutil.CreateTestUser(t, db)
	product := testutil.CreateTestProduct(t, db, user.ID, "0.3", 100, 250)

	for i, want := range []string{"0.2", "0.1", "0"} {
		result, err := svc.Consume(user.ID, product.ID, qty("0.1"), time.Time{})
		if err != nil {
			t.Fatalf("consume #%d: %v", i+1, err)
		}
		if !result.Product.StockQuantity.Equal(qty(want)) {
			t.Errorf("consume #%d: expected returned stock %s, got %s", i+1, want, result.Product.StockQuantity)
		}
		stored, err := svc.GetProductByID(user.ID, product.ID)
		testutil.AssertNoError(t, err)
		if !stored.StockQuantity.Equal(qty(want)) {
			t.Errorf("consume #%d: expected stored stock %s, got %s", i+1, want, stored.StockQuantity)
		}
	}

	_, err := svc.Consume(user.ID, product.ID, qty("0.1"), time.Time{})
	testutil.AssertAppError(t, err, "INSUFFICIENT_STOCK")

	restock := qty("1")
	_, err = svc.UpdateProduct(user.ID, product.ID, ProductUpdate{StockQuantity: &restock})
	testutil.AssertNoError(t, err)
	for i := 0; i < 10; i++ {
		_, err := svc.Sell(user.ID, product.ID, SellRequest{Quantity: qty("0.1"), TotalEarned: 25})
		if err != nil {
			t.Fatalf("sell #%d: %v", i+1, err)
		}
	}
	stored, err := svc.GetProductByID(user.ID, product.ID)
	testutil.AssertNoError(t, err)
	if !stored.StockQuantity.IsZero() {
		t.Errorf("expected stock 0 after ten sales of 0.1, got %s", stored.StockQuantity)
	}
}

func TestQuantityFinerThanScale(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewProductService(db, &recordingNotifier{}, "USD")
	user := testutil.CreateTestUser(t, db)
	product := testutil.CreateTestProduct(t, db, user.ID, "10", 100, 250)

	_, err := svc.Sell(user.ID, product.ID, SellRequest{Quantity: qty("0.0000001"), TotalEarned: 100})
	testutil.AssertAppError(t, err, "INVALID_INPUT")

	_, err = svc.Consume(user.ID, product.ID, qty("0.0000001"), time.Time{})
	testutil.AssertAppError(t, err, "INVALID_INPUT")

	testutil.AssertRowCount(t, db, &models.Income{}, user.ID, 0)
	testutil.AssertRowCount(t, db, &models.Consumption{}, user.ID, 0)
	stored, err := svc.GetProductByID(user.ID, product.ID)
	testutil.AssertNoError(t, err)
	if !stored.StockQuantity.Equal(qty("10")) {
		t.Errorf("expected stock unchanged at 10, got %s", stored.StockQuantity)
	}
}

func TestGetConsumptions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewProductService(db, &recordingNotifier{}, "USD")
	user := testutil.CreateTestUser(t, db)
	a := testutil.CreateTestProduct(t, db, user.ID, "10", 100, 250)
	b := testutil.CreateTestProduct(t, db, user.ID, "10", 100, 250)

	for i := 0; i < 3; i++ {
		_, err := svc.Consume(user.ID, a.ID, qty("1"), time.Time{})
		testutil.AssertNoError(t, err)
	}
	_, err := svc.Consume(user.ID, b.ID, qty("1"), time.Time{})
	testutil.AssertNoError(t, err)

	all, err := svc.GetConsumptions(user.ID, nil, pagination.PageRequest{})
	testutil.AssertNoError(t, err)
	if all.TotalItems != 4 {
		t.Errorf("expected 4 consumptions, got %d", all.TotalItems)
	}

	onlyA, err := svc.GetConsumptions(user.ID, &a.ID, pagination.PageRequest{})
	testutil.AssertNoError(t, err)
	if onlyA.TotalItems != 3 {
		t.Errorf("expected 3 consumptions of product a, got %d", onlyA.TotalItems)
	}
}
