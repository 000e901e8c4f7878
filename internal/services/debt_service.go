package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "pocketbook/internal/errors"
	"pocketbook/internal/ledger"
	"pocketbook/internal/metrics"
	"pocketbook/internal/models"
	"pocketbook/internal/notifier"
	"pocketbook/internal/pagination"
)

// debtService handles debts in both directions and their payments.
type debtService struct {
	db            *gorm.DB
	notifications NotificationServicer
	currency      string
}

// NewDebtService creates a new DebtServicer.
func NewDebtService(db *gorm.DB, notifications NotificationServicer, currency string) DebtServicer {
	return &debtService{db: db, notifications: notifications, currency: currency}
}

func validateDebt(d *models.Debt) error {
	switch {
	case strings.TrimSpace(d.PersonName) == "":
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "person name is required")
	case !d.Direction.Valid():
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "direction must be owed_by_me or owed_to_me")
	case d.Amount <= 0:
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	case d.AmountPaid < 0:
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount paid cannot be negative")
	case d.AmountPaid > d.Amount:
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount paid cannot exceed amount")
	}
	return nil
}

// CreateDebt records a new debt. Status is derived from the paid amount.
func (s *debtService) CreateDebt(userID, personName string, direction models.DebtDirection, amount, amountPaid int64, description string, dueDate *time.Time) (*models.Debt, error) {
	debt := &models.Debt{
		UserID:      userID,
		PersonName:  strings.TrimSpace(personName),
		Direction:   direction,
		Amount:      amount,
		AmountPaid:  amountPaid,
		Description: description,
		DueDate:     dueDate,
	}
	if err := validateDebt(debt); err != nil {
		return nil, err
	}
	debt.DeriveStatus()

	if err := s.db.Create(debt).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return debt, nil
}

// GetDebts lists debts, pending first and then by due date.
func (s *debtService) GetDebts(userID string, page pagination.PageRequest, filter DebtFilter) (*pagination.PageResponse[models.Debt], error) {
	page.Defaults()

	base := s.db.Model(&models.Debt{}).Where("user_id = ?", userID)
	if filter.Direction != nil {
		base = base.Where("direction = ?", *filter.Direction)
	}
	if filter.Status != nil {
		base = base.Where("status = ?", *filter.Status)
	}
	base = base.Session(&gorm.Session{})

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var debts []models.Debt
	err := base.Scopes(pagination.Paginate(page)).
		Order("CASE WHEN status = 'pending' THEN 0 ELSE 1 END").
		Order("due_date IS NULL, due_date ASC").
		Order("created_at DESC").
		Find(&debts).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(debts, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func findDebt(db *gorm.DB, userID, debtID string) (*models.Debt, error) {
	var debt models.Debt
	if err := db.Where("id = ? AND user_id = ?", debtID, userID).First(&debt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrDebtNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &debt, nil
}

// GetDebtByID retrieves a debt owned by the user.
func (s *debtService) GetDebtByID(userID, debtID string) (*models.Debt, error) {
	return findDebt(s.db, userID, debtID)
}

// UpdateDebt edits a debt. The amount cannot drop below what has already
// been paid; status is re-derived afterwards.
func (s *debtService) UpdateDebt(userID, debtID string, update DebtUpdate) (*models.Debt, error) {
	debt, err := findDebt(s.db, userID, debtID)
	if err != nil {
		return nil, err
	}

	if update.PersonName != nil {
		debt.PersonName = strings.TrimSpace(*update.PersonName)
	}
	if update.Amount != nil {
		if *update.Amount < debt.AmountPaid {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount cannot be less than the amount already paid")
		}
		debt.Amount = *update.Amount
	}
	if update.Description != nil {
		debt.Description = *update.Description
	}
	if update.ClearDueDate {
		debt.DueDate = nil
	} else if update.DueDate != nil {
		debt.DueDate = update.DueDate
	}
	if err := validateDebt(debt); err != nil {
		return nil, err
	}
	debt.DeriveStatus()

	if err := s.db.Save(debt).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return debt, nil
}

// DeleteDebt soft-deletes a debt. Ledger rows written by its payments stay.
func (s *debtService) DeleteDebt(userID, debtID string) error {
	debt, err := findDebt(s.db, userID, debtID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(debt).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Pay applies a payment and mirrors it in the ledger: paying a debt owed by
// the user is an expense, collecting one owed to the user is an income.
func (s *debtService) Pay(userID, debtID string, payment int64, date time.Time) (*PaymentResult, error) {
	if payment <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Payment must be greater than zero")
	}
	if date.IsZero() {
		date = time.Now()
	}

	result := &PaymentResult{}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		debt, err := findDebt(tx, userID, debtID)
		if err != nil {
			return err
		}
		if err := ledger.ApplyPayment(debt, payment); err != nil {
			return err
		}

		res := tx.Model(&models.Debt{}).
			Where("id = ? AND amount_paid + ? <= amount", debt.ID, payment).
			Updates(map[string]interface{}{
				"amount_paid": gorm.Expr("amount_paid + ?", payment),
				"status":      debt.Status,
			})
		if res.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrPaymentExceedsDebt
		}
		result.Debt = debt

		amount := ledger.FormatMoney(payment, s.currency)
		if debt.Direction == models.DebtOwedByMe {
			desc := fmt.Sprintf("Paid %s to %s", amount, debt.PersonName)
			result.Expense, err = createExpense(tx, userID, payment, models.CategoryDebtPayment, desc, date)
		} else {
			desc := fmt.Sprintf("Received %s from %s", amount, debt.PersonName)
			result.Income, err = createIncome(tx, userID, payment, models.CategoryDebtCollection, desc, date)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.DebtPayments.WithLabelValues(string(result.Debt.Direction)).Inc()
	if result.Expense != nil {
		metrics.LedgerWrites.WithLabelValues("expense", models.CategoryDebtPayment).Inc()
	} else {
		metrics.LedgerWrites.WithLabelValues("income", models.CategoryDebtCollection).Inc()
	}

	if result.Debt.Status == models.DebtStatusPaid {
		s.notifications.Notify(fmt.Sprintf("<b>Debt settled</b>: %s, %s",
			notifier.Escape(result.Debt.PersonName), ledger.FormatMoney(result.Debt.Amount, s.currency)))
	}
	return result, nil
}

// GetSummary totals debts by direction.
func (s *debtService) GetSummary(userID string) (*ledger.DebtSummary, error) {
	var debts []models.Debt
	if err := s.db.Where("user_id = ?", userID).Find(&debts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	summary := ledger.SummarizeDebts(debts)
	return &summary, nil
}
