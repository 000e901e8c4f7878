package services

import (
	"context"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"pocketbook/internal/ledger"
	"pocketbook/internal/models"
	"pocketbook/internal/pagination"
)

// UserServicer defines the contract for user accounts and credential checks.
type UserServicer interface {
	CreateUser(username, password, displayName string) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	AttemptLogin(username, password string) (*models.User, error)
	ChangePassword(userID, currentPassword, newPassword string) error
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// LedgerFilter holds optional filter parameters for listing incomes and expenses.
type LedgerFilter struct {
	FromDate  *time.Time
	ToDate    *time.Time
	Category  *string
	MinAmount *int64
	MaxAmount *int64
}

// LedgerEntryUpdate holds the fields that may change on an income or expense.
// Nil fields are left as they are.
type LedgerEntryUpdate struct {
	Amount      *int64
	Category    *string
	Description *string
	Date        *time.Time
}

// LedgerServicer defines the contract for incomes, expenses and balances.
type LedgerServicer interface {
	CreateIncome(userID string, amount int64, category, description string, date time.Time) (*models.Income, error)
	GetIncomes(userID string, page pagination.PageRequest, filter LedgerFilter) (*pagination.PageResponse[models.Income], error)
	GetIncomeByID(userID, incomeID string) (*models.Income, error)
	UpdateIncome(userID, incomeID string, update LedgerEntryUpdate) (*models.Income, error)
	DeleteIncome(userID, incomeID string) error

	CreateExpense(userID string, amount int64, category, description string, date time.Time) (*models.Expense, error)
	GetExpenses(userID string, page pagination.PageRequest, filter LedgerFilter) (*pagination.PageResponse[models.Expense], error)
	GetExpenseByID(userID, expenseID string) (*models.Expense, error)
	UpdateExpense(userID, expenseID string, update LedgerEntryUpdate) (*models.Expense, error)
	DeleteExpense(userID, expenseID string) error

	GetSummary(userID string, from, to *time.Time) (*ledger.Summary, error)
	GetAllEntries(userID string) ([]models.Income, []models.Expense, error)
}

// ExportServicer writes the ledger as a downloadable file.
type ExportServicer interface {
	Export(userID, format string, w io.Writer) error
}

// ProductUpdate holds the fields that may change on a product.
type ProductUpdate struct {
	Name          *string
	Unit          *string
	StockQuantity *decimal.Decimal
	CostPerUnit   *int64
	PricePerUnit  *int64
}

// ProductWithValuation pairs a product with the value of its stock.
type ProductWithValuation struct {
	models.Product
	ledger.ProductValuation
}

// InventoryList is every product plus inventory totals.
type InventoryList struct {
	Products []ProductWithValuation   `json:"products"`
	Totals   ledger.InventoryValuation `json:"totals"`
}

// SellRequest describes a sale. When CreateDebt is false the whole
// TotalEarned is treated as received.
type SellRequest struct {
	Quantity       decimal.Decimal
	TotalEarned    int64
	AmountReceived int64
	CreateDebt     bool
	PersonName     string
	DueDate        *time.Time
	Date           time.Time
}

// SellResult lists every row written by a sale.
type SellResult struct {
	Product *models.Product `json:"product"`
	Income  *models.Income  `json:"income,omitempty"`
	Debt    *models.Debt    `json:"debt,omitempty"`
}

// ConsumeResult lists every row written by a consumption.
type ConsumeResult struct {
	Product     *models.Product     `json:"product"`
	Consumption *models.Consumption `json:"consumption"`
	Expense     *models.Expense     `json:"expense,omitempty"`
}

// ProductServicer defines the contract for inventory and stock movements.
type ProductServicer interface {
	CreateProduct(userID, name, unit string, stock decimal.Decimal, costPerUnit, pricePerUnit int64) (*models.Product, error)
	GetInventory(userID string) (*InventoryList, error)
	GetProductByID(userID, productID string) (*ProductWithValuation, error)
	UpdateProduct(userID, productID string, update ProductUpdate) (*models.Product, error)
	DeleteProduct(userID, productID string) error
	Sell(userID, productID string, req SellRequest) (*SellResult, error)
	Consume(userID, productID string, quantity decimal.Decimal, date time.Time) (*ConsumeResult, error)
	GetConsumptions(userID string, productID *string, page pagination.PageRequest) (*pagination.PageResponse[models.Consumption], error)
}

// DebtFilter holds optional filter parameters for listing debts.
type DebtFilter struct {
	Direction *models.DebtDirection
	Status    *models.DebtStatus
}

// DebtUpdate holds the fields that may change on a debt. ClearDueDate
// removes the due date.
type DebtUpdate struct {
	PersonName   *string
	Amount       *int64
	Description  *string
	DueDate      *time.Time
	ClearDueDate bool
}

// PaymentResult is the debt after a payment plus the mirrored ledger row.
type PaymentResult struct {
	Debt    *models.Debt    `json:"debt"`
	Income  *models.Income  `json:"income,omitempty"`
	Expense *models.Expense `json:"expense,omitempty"`
}

// DebtServicer defines the contract for debts and their settlement.
type DebtServicer interface {
	CreateDebt(userID, personName string, direction models.DebtDirection, amount, amountPaid int64, description string, dueDate *time.Time) (*models.Debt, error)
	GetDebts(userID string, page pagination.PageRequest, filter DebtFilter) (*pagination.PageResponse[models.Debt], error)
	GetDebtByID(userID, debtID string) (*models.Debt, error)
	UpdateDebt(userID, debtID string, update DebtUpdate) (*models.Debt, error)
	DeleteDebt(userID, debtID string) error
	Pay(userID, debtID string, payment int64, date time.Time) (*PaymentResult, error)
	GetSummary(userID string) (*ledger.DebtSummary, error)
}

// WorkSessionView is a session with its display duration.
type WorkSessionView struct {
	models.WorkSession
	DurationSeconds int64  `json:"duration_seconds"`
	Duration        string `json:"duration"`
}

// WorkSummary totals completed work time.
type WorkSummary struct {
	TodaySeconds int64  `json:"today_seconds"`
	Today        string `json:"today"`
	WeekSeconds  int64  `json:"week_seconds"`
	Week         string `json:"week"`
	WeekStart    string `json:"week_start"`
}

// WorkSessionUpdate holds editable session fields. ClearClockOut reopens the
// session.
type WorkSessionUpdate struct {
	ClockIn       *time.Time
	ClockOut      *time.Time
	ClearClockOut bool
	Notes         *string
}

// WorkSessionServicer defines the contract for clock-in/clock-out tracking.
type WorkSessionServicer interface {
	ClockIn(userID, notes string) (*models.WorkSession, error)
	ClockOut(userID string) (*WorkSessionView, error)
	GetActive(userID string) (*WorkSessionView, error)
	GetSessions(userID string, page pagination.PageRequest) (*pagination.PageResponse[WorkSessionView], error)
	UpdateSession(userID, sessionID string, update WorkSessionUpdate) (*WorkSessionView, error)
	DeleteSession(userID, sessionID string) error
	GetSummary(userID string) (*WorkSummary, error)
}

// EventUpdate holds editable calendar event fields.
type EventUpdate struct {
	Title       *string
	Description *string
	Date        *time.Time
	IsReminder  *bool
}

// TaskUpdate holds editable task fields.
type TaskUpdate struct {
	Title       *string
	Description *string
	Date        *time.Time
	Completed   *bool
}

// CalendarServicer defines the contract for calendar events and tasks.
type CalendarServicer interface {
	CreateEvent(userID, title, description string, date time.Time, isReminder bool) (*models.CalendarEvent, error)
	GetEvents(userID string, from, to *time.Time) ([]models.CalendarEvent, error)
	GetEventByID(userID, eventID string) (*models.CalendarEvent, error)
	UpdateEvent(userID, eventID string, update EventUpdate) (*models.CalendarEvent, error)
	DeleteEvent(userID, eventID string) error

	CreateTask(userID, title, description string, date time.Time) (*models.Task, error)
	GetTasks(userID string, from, to *time.Time, completed *bool) ([]models.Task, error)
	GetTaskByID(userID, taskID string) (*models.Task, error)
	UpdateTask(userID, taskID string, update TaskUpdate) (*models.Task, error)
	ToggleTask(userID, taskID string) (*models.Task, error)
	DeleteTask(userID, taskID string) error
}

// DashboardStats gathers the headline numbers shown on the dashboard.
type DashboardStats struct {
	TotalIncome      int64             `json:"total_income"`
	TotalExpenses    int64             `json:"total_expenses"`
	Balance          int64             `json:"balance"`
	TotalProducts    int               `json:"total_products"`
	TotalStockValue  int64             `json:"total_stock_value"`
	TotalStockCost   int64             `json:"total_stock_cost"`
	PotentialProfit  int64             `json:"potential_profit"`
	DebtToOthers     ledger.DebtTotals `json:"debt_to_others"`
	DebtToMe         ledger.DebtTotals `json:"debt_to_me"`
	PendingDebts     int               `json:"pending_debts"`
	ActiveSession    *WorkSessionView  `json:"active_session"`
	TodayWorkSeconds int64             `json:"today_work_seconds"`
	Currency         string            `json:"currency"`
}

// DashboardServicer defines the contract for the dashboard overview.
type DashboardServicer interface {
	GetStats(userID string) (*DashboardStats, error)
}

// NotificationServicer defines the contract for outbound bot messages.
type NotificationServicer interface {
	// Forward sends message synchronously and returns the bot API reply.
	Forward(ctx context.Context, message string) (map[string]any, error)
	// Notify sends text in the background when event notifications are
	// enabled. Failures are logged only.
	Notify(text string)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
