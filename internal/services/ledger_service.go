package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "pocketbook/internal/errors"
	"pocketbook/internal/ledger"
	"pocketbook/internal/metrics"
	"pocketbook/internal/models"
	"pocketbook/internal/pagination"
)

// ledgerService handles incomes, expenses and balance aggregation.
type ledgerService struct {
	db *gorm.DB
}

// NewLedgerService creates a new LedgerServicer.
func NewLedgerService(db *gorm.DB) LedgerServicer {
	return &ledgerService{db: db}
}

func validateEntry(amount int64, category string) error {
	if amount <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if strings.TrimSpace(category) == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}
	return nil
}

// createIncome inserts an income with the given handle so multi-write flows
// can reuse it inside a transaction.
func createIncome(tx *gorm.DB, userID string, amount int64, category, description string, date time.Time) (*models.Income, error) {
	income := &models.Income{
		UserID:      userID,
		Amount:      amount,
		Category:    strings.TrimSpace(category),
		Description: description,
		Date:        date,
	}
	if err := tx.Create(income).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return income, nil
}

// createExpense is the expense counterpart of createIncome.
func createExpense(tx *gorm.DB, userID string, amount int64, category, description string, date time.Time) (*models.Expense, error) {
	expense := &models.Expense{
		UserID:      userID,
		Amount:      amount,
		Category:    strings.TrimSpace(category),
		Description: description,
		Date:        date,
	}
	if err := tx.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expense, nil
}

// CreateIncome records money received.
func (s *ledgerService) CreateIncome(userID string, amount int64, category, description string, date time.Time) (*models.Income, error) {
	if err := validateEntry(amount, category); err != nil {
		return nil, err
	}
	if date.IsZero() {
		date = time.Now()
	}
	income, err := createIncome(s.db, userID, amount, category, description, date)
	if err != nil {
		return nil, err
	}
	metrics.LedgerWrites.WithLabelValues("income", income.Category).Inc()
	return income, nil
}

// GetIncomes retrieves a paginated, filtered list of incomes, newest first.
func (s *ledgerService) GetIncomes(userID string, page pagination.PageRequest, filter LedgerFilter) (*pagination.PageResponse[models.Income], error) {
	page.Defaults()

	base := applyLedgerFilters(s.db.Model(&models.Income{}).Where("user_id = ?", userID), filter).Session(&gorm.Session{})

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var incomes []models.Income
	if err := base.Scopes(pagination.Paginate(page)).Order("date DESC").Find(&incomes).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(incomes, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetIncomeByID retrieves an income owned by the user.
func (s *ledgerService) GetIncomeByID(userID, incomeID string) (*models.Income, error) {
	var income models.Income
	if err := s.db.Where("id = ? AND user_id = ?", incomeID, userID).First(&income).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrIncomeNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &income, nil
}

// UpdateIncome applies the non-nil fields of update.
func (s *ledgerService) UpdateIncome(userID, incomeID string, update LedgerEntryUpdate) (*models.Income, error) {
	income, err := s.GetIncomeByID(userID, incomeID)
	if err != nil {
		return nil, err
	}
	applyEntryUpdate(&income.Amount, &income.Category, &income.Description, &income.Date, update)
	if err := validateEntry(income.Amount, income.Category); err != nil {
		return nil, err
	}
	if err := s.db.Save(income).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return income, nil
}

// DeleteIncome soft-deletes an income.
func (s *ledgerService) DeleteIncome(userID, incomeID string) error {
	income, err := s.GetIncomeByID(userID, incomeID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(income).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// CreateExpense records money spent.
func (s *ledgerService) CreateExpense(userID string, amount int64, category, description string, date time.Time) (*models.Expense, error) {
	if err := validateEntry(amount, category); err != nil {
		return nil, err
	}
	if date.IsZero() {
		date = time.Now()
	}
	expense, err := createExpense(s.db, userID, amount, category, description, date)
	if err != nil {
		return nil, err
	}
	metrics.LedgerWrites.WithLabelValues("expense", expense.Category).Inc()
	return expense, nil
}

// GetExpenses retrieves a paginated, filtered list of expenses, newest first.
func (s *ledgerService) GetExpenses(userID string, page pagination.PageRequest, filter LedgerFilter) (*pagination.PageResponse[models.Expense], error) {
	page.Defaults()

	base := applyLedgerFilters(s.db.Model(&models.Expense{}).Where("user_id = ?", userID), filter).Session(&gorm.Session{})

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	if err := base.Scopes(pagination.Paginate(page)).Order("date DESC").Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetExpenseByID retrieves an expense owned by the user.
func (s *ledgerService) GetExpenseByID(userID, expenseID string) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.Where("id = ? AND user_id = ?", expenseID, userID).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

// UpdateExpense applies the non-nil fields of update.
func (s *ledgerService) UpdateExpense(userID, expenseID string, update LedgerEntryUpdate) (*models.Expense, error) {
	expense, err := s.GetExpenseByID(userID, expenseID)
	if err != nil {
		return nil, err
	}
	applyEntryUpdate(&expense.Amount, &expense.Category, &expense.Description, &expense.Date, update)
	if err := validateEntry(expense.Amount, expense.Category); err != nil {
		return nil, err
	}
	if err := s.db.Save(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expense, nil
}

// DeleteExpense soft-deletes an expense.
func (s *ledgerService) DeleteExpense(userID, expenseID string) error {
	expense, err := s.GetExpenseByID(userID, expenseID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(expense).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

type ledgerTotals struct {
	Total int64
	Count int64
}

// GetSummary aggregates the ledger, optionally within [from, to]. Stock
// consumption counts towards total expenses but not against the balance.
func (s *ledgerService) GetSummary(userID string, from, to *time.Time) (*ledger.Summary, error) {
	var incomes, expenses, consumption ledgerTotals

	if err := s.db.Model(&models.Income{}).
		Select("COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Scopes(pagination.DateRange("date", from, to)).
		Scan(&incomes).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Model(&models.Expense{}).
		Select("COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Scopes(pagination.DateRange("date", from, to)).
		Scan(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Model(&models.Expense{}).
		Select("COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("user_id = ? AND category = ?", userID, models.CategoryStockConsumption).
		Scopes(pagination.DateRange("date", from, to)).
		Scan(&consumption).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary := ledger.NewSummary(incomes.Total, expenses.Total, consumption.Total, incomes.Count, expenses.Count)
	return &summary, nil
}

// GetAllEntries returns every income and expense ordered by date.
func (s *ledgerService) GetAllEntries(userID string) ([]models.Income, []models.Expense, error) {
	var incomes []models.Income
	if err := s.db.Where("user_id = ?", userID).Order("date ASC").Find(&incomes).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	var expenses []models.Expense
	if err := s.db.Where("user_id = ?", userID).Order("date ASC").Find(&expenses).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return incomes, expenses, nil
}

func applyLedgerFilters(q *gorm.DB, f LedgerFilter) *gorm.DB {
	q = q.Scopes(pagination.DateRange("date", f.FromDate, f.ToDate))
	if f.Category != nil {
		q = q.Where("category = ?", *f.Category)
	}
	if f.MinAmount != nil {
		q = q.Where("amount >= ?", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		q = q.Where("amount <= ?", *f.MaxAmount)
	}
	return q
}

func applyEntryUpdate(amount *int64, category, description *string, date *time.Time, u LedgerEntryUpdate) {
	if u.Amount != nil {
		*amount = *u.Amount
	}
	if u.Category != nil {
		*category = strings.TrimSpace(*u.Category)
	}
	if u.Description != nil {
		*description = *u.Description
	}
	if u.Date != nil {
		*date = *u.Date
	}
}
