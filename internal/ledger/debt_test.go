package ledger

import (
	"testing"

	"pocketbook/internal/models"
	"pocketbook/internal/testutil"
)

func TestApplyPayment(t *testing.T) {
	t.Run("settles the remaining balance", func(t *testing.T) {
		d := &models.Debt{Amount: 5000, AmountPaid: 2000, Status: models.DebtStatusPending}
		testutil.AssertNoError(t, ApplyPayment(d, 3000))
		if d.AmountPaid != 5000 || d.Status != models.DebtStatusPaid {
			t.Errorf("expected paid 5000/paid, got %d/%s", d.AmountPaid, d.Status)
		}
	})

	t.Run("partial payment stays pending", func(t *testing.T) {
		d := &models.Debt{Amount: 5000, Status: models.DebtStatusPending}
		testutil.AssertNoError(t, ApplyPayment(d, 1000))
		if d.AmountPaid != 1000 || d.Status != models.DebtStatusPending {
			t.Errorf("expected 1000/pending, got %d/%s", d.AmountPaid, d.Status)
		}
	})

	t.Run("overpayment is rejected", func(t *testing.T) {
		d := &models.Debt{Amount: 5000, AmountPaid: 2000, Status: models.DebtStatusPending}
		testutil.AssertAppError(t, ApplyPayment(d, 3001), "PAYMENT_EXCEEDS_DEBT")
		if d.AmountPaid != 2000 {
			t.Errorf("amount paid changed to %d", d.AmountPaid)
		}
	})

	t.Run("already paid", func(t *testing.T) {
		d := &models.Debt{Amount: 5000, AmountPaid: 5000, Status: models.DebtStatusPaid}
		testutil.AssertAppError(t, ApplyPayment(d, 1), "DEBT_ALREADY_PAID")
	})

	t.Run("non-positive payment", func(t *testing.T) {
		d := &models.Debt{Amount: 5000}
		testutil.AssertAppError(t, ApplyPayment(d, 0), "INVALID_INPUT")
		testutil.AssertAppError(t, ApplyPayment(d, -5), "INVALID_INPUT")
	})
}

func TestSummarizeDebts(t *testing.T) {
	debts := []models.Debt{
		{Direction: models.DebtOwedByMe, Amount: 1000, AmountPaid: 400, Status: models.DebtStatusPending},
		{Direction: models.DebtOwedByMe, Amount: 500, AmountPaid: 500, Status: models.DebtStatusPaid},
		{Direction: models.DebtOwedToMe, Amount: 5000, AmountPaid: 2000, Status: models.DebtStatusPending},
	}

	s := SummarizeDebts(debts)

	if s.OwedByMe.Total != 1500 || s.OwedByMe.Paid != 900 || s.OwedByMe.Remaining != 600 || s.OwedByMe.Count != 2 {
		t.Errorf("unexpected owed_by_me totals %+v", s.OwedByMe)
	}
	if s.OwedToMe.Total != 5000 || s.OwedToMe.Remaining != 3000 {
		t.Errorf("unexpected owed_to_me totals %+v", s.OwedToMe)
	}
	if s.PendingCount != 2 {
		t.Errorf("expected 2 pending, got %d", s.PendingCount)
	}
}
