package ledger

import (
	apperrors "pocketbook/internal/errors"
	"pocketbook/internal/models"
)

// ApplyPayment adds payment to the debt and re-derives its status. The debt
// is left untouched when the payment is rejected.
func ApplyPayment(d *models.Debt, payment int64) error {
	if payment <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Payment must be greater than zero")
	}
	if d.AmountPaid >= d.Amount {
		return apperrors.ErrDebtAlreadyPaid
	}
	if d.AmountPaid+payment > d.Amount {
		return apperrors.ErrPaymentExceedsDebt
	}
	d.AmountPaid += payment
	d.DeriveStatus()
	return nil
}

// DebtTotals summarises debts in one direction.
type DebtTotals struct {
	Total     int64 `json:"total"`
	Paid      int64 `json:"paid"`
	Remaining int64 `json:"remaining"`
	Count     int   `json:"count"`
}

// DebtSummary splits debt totals by direction.
type DebtSummary struct {
	OwedByMe     DebtTotals `json:"owed_by_me"`
	OwedToMe     DebtTotals `json:"owed_to_me"`
	PendingCount int        `json:"pending_count"`
}

// SummarizeDebts aggregates the given debts.
func SummarizeDebts(debts []models.Debt) DebtSummary {
	var s DebtSummary
	for _, d := range debts {
		t := &s.OwedToMe
		if d.Direction == models.DebtOwedByMe {
			t = &s.OwedByMe
		}
		t.Total += d.Amount
		t.Paid += d.AmountPaid
		t.Remaining += d.Remaining()
		t.Count++
		if d.Status == models.DebtStatusPending {
			s.PendingCount++
		}
	}
	return s
}
