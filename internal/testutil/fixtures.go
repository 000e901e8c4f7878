package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"pocketbook/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plaintext password of every fixture user.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique username.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithUsername(t, db, fmt.Sprintf("user%d", nextID()))
}

// CreateTestUserWithUsername creates a user with the given username.
func CreateTestUserWithUsername(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username:    username,
		Password:    string(hash),
		DisplayName: "Test " + username,
		IsActive:    true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestIncome creates an income dated now.
func CreateTestIncome(t *testing.T, db *gorm.DB, userID string, amount int64, category string) *models.Income {
	t.Helper()

	income := &models.Income{
		UserID:      userID,
		Amount:      amount,
		Category:    category,
		Description: fmt.Sprintf("Test income %d", nextID()),
		Date:        time.Now(),
	}
	if err := db.Create(income).Error; err != nil {
		t.Fatalf("failed to create test income: %v", err)
	}
	return income
}

// CreateTestExpense creates an expense dated now.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID string, amount int64, category string) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		UserID:      userID,
		Amount:      amount,
		Category:    category,
		Description: fmt.Sprintf("Test expense %d", nextID()),
		Date:        time.Now(),
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestProduct creates a product with the given stock and per-unit
// cost and price in minor units.
func CreateTestProduct(t *testing.T, db *gorm.DB, userID string, stock string, cost, price int64) *models.Product {
	t.Helper()

	product := &models.Product{
		UserID:        userID,
		Name:          fmt.Sprintf("Product %d", nextID()),
		Unit:          "g",
		StockQuantity: decimal.RequireFromString(stock),
		CostPerUnit:   cost,
		PricePerUnit:  price,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("failed to create test product: %v", err)
	}
	return product
}

// CreateTestDebt creates a debt with a derived status.
func CreateTestDebt(t *testing.T, db *gorm.DB, userID string, direction models.DebtDirection, amount, paid int64) *models.Debt {
	t.Helper()

	debt := &models.Debt{
		UserID:     userID,
		PersonName: fmt.Sprintf("Person %d", nextID()),
		Direction:  direction,
		Amount:     amount,
		AmountPaid: paid,
	}
	debt.DeriveStatus()
	if err := db.Create(debt).Error; err != nil {
		t.Fatalf("failed to create test debt: %v", err)
	}
	return debt
}

// CreateTestWorkSession creates a session. A nil clockOut leaves it active.
func CreateTestWorkSession(t *testing.T, db *gorm.DB, userID string, clockIn time.Time, clockOut *time.Time) *models.WorkSession {
	t.Helper()

	session := &models.WorkSession{
		UserID:   userID,
		ClockIn:  clockIn,
		ClockOut: clockOut,
	}
	if err := db.Create(session).Error; err != nil {
		t.Fatalf("failed to create test work session: %v", err)
	}
	return session
}

// CreateTestEvent creates a calendar event on date.
func CreateTestEvent(t *testing.T, db *gorm.DB, userID string, date time.Time) *models.CalendarEvent {
	t.Helper()

	event := &models.CalendarEvent{
		UserID: userID,
		Title:  fmt.Sprintf("Event %d", nextID()),
		Date:   date,
	}
	if err := db.Create(event).Error; err != nil {
		t.Fatalf("failed to create test event: %v", err)
	}
	return event
}

// CreateTestTask creates an open task on date.
func CreateTestTask(t *testing.T, db *gorm.DB, userID string, date time.Time) *models.Task {
	t.Helper()

	task := &models.Task{
		UserID: userID,
		Title:  fmt.Sprintf("Task %d", nextID()),
		Date:   date,
	}
	if err := db.Create(task).Error; err != nil {
		t.Fatalf("failed to create test task: %v", err)
	}
	return task
}
