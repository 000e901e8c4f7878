package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "pocketbook/internal/errors"
	"pocketbook/internal/ledger"
	"pocketbook/internal/models"
	"pocketbook/internal/pagination"
	"pocketbook/internal/services"
)

const testDebtID = "0190a0c4-5d2e-7c3b-9a1f-000000000003"

type mockDebtService struct {
	createDebtFn func(userID, person string, direction models.DebtDirection, amount, paid int64, description string, due *time.Time) (*models.Debt, error)
	getDebtsFn   func(userID string, page pagination.PageRequest, filter services.DebtFilter) (*pagination.PageResponse[models.Debt], error)
	updateDebtFn func(userID, debtID string, update services.DebtUpdate) (*models.Debt, error)
	payFn        func(userID, debtID string, payment int64, date time.Time) (*services.PaymentResult, error)
	getSummaryFn func(userID string) (*ledger.DebtSummary, error)
}

var _ services.DebtServicer = (*mockDebtService)(nil)

func (m *mockDebtService) CreateDebt(userID, person string, direction models.DebtDirection, amount, paid int64, description string, due *time.Time) (*models.Debt, error) {
	if m.createDebtFn != nil {
		return m.createDebtFn(userID, person, direction, amount, paid, description, due)
	}
	return &models.Debt{}, nil
}

func (m *mockDebtService) GetDebts(userID string, page pagination.PageRequest, filter services.DebtFilter) (*pagination.PageResponse[models.Debt], error) {
	if m.getDebtsFn != nil {
		return m.getDebtsFn(userID, page, filter)
	}
	resp := pagination.NewPageResponse[models.Debt](nil, 1, 20, 0)
	return &resp, nil
}

func (m *mockDebtService) GetDebtByID(string, string) (*models.Debt, error) {
	return &models.Debt{}, nil
}

func (m *mockDebtService) UpdateDebt(userID, debtID string, update services.DebtUpdate) (*models.Debt, error) {
	if m.updateDebtFn != nil {
		return m.updateDebtFn(userID, debtID, update)
	}
	return &models.Debt{}, nil
}

func (m *mockDebtService) DeleteDebt(string, string) error {
	return nil
}

func (m *mockDebtService) Pay(userID, debtID string, payment int64, date time.Time) (*services.PaymentResult, error) {
	if m.payFn != nil {
		return m.payFn(userID, debtID, payment, date)
	}
	return &services.PaymentResult{Debt: &models.Debt{}}, nil
}

func (m *mockDebtService) GetSummary(userID string) (*ledger.DebtSummary, error) {
	if m.getSummaryFn != nil {
		return m.getSummaryFn(userID)
	}
	return &ledger.DebtSummary{}, nil
}

func setupDebtRouter(svc services.DebtServicer, audit services.AuditServicer) *gin.Engine {
	h := NewDebtHandler(svc, audit)
	r := gin.New()
	api := r.Group("", injectUserID(testUserID))
	api.POST("/debts", h.CreateDebt)
	api.GET("/debts", h.GetDebts)
	api.GET("/debts/summary", h.GetSummary)
	api.GET("/debts/:id", h.GetDebtByID)
	api.PUT("/debts/:id", h.UpdateDebt)
	api.DELETE("/debts/:id", h.DeleteDebt)
	api.POST("/debts/:id/payments", h.PayDebt)
	return r
}

func TestDebtHandler_CreateDebt(t *testing.T) {
	t.Run("returns 201", func(t *testing.T) {
		var gotDirection models.DebtDirection
		var gotDue *time.Time
		svc := &mockDebtService{
			createDebtFn: func(_, person string, direction models.DebtDirection, amount, paid int64, _ string, due *time.Time) (*models.Debt, error) {
				gotDirection, gotDue = direction, due
				return &models.Debt{PersonName: person, Direction: direction, Amount: amount, AmountPaid: paid}, nil
			},
		}
		r := setupDebtRouter(svc, &mockAuditService{})

		rec := doRequest(r, "POST", "/debts", `{"person_name":"Ann","direction":"owed_by_me","amount":3000,"due_date":"2024-05-01"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotDirection != models.DebtOwedByMe {
			t.Errorf("expected owed_by_me, got %q", gotDirection)
		}
		if gotDue == nil {
			t.Error("expected due date to be parsed")
		}
	})

	tests := []struct {
		name string
		body string
	}{
		{"unknown direction", `{"person_name":"Ann","direction":"sideways","amount":100}`},
		{"missing person", `{"direction":"owed_to_me","amount":100}`},
		{"zero amount", `{"person_name":"Ann","direction":"owed_to_me","amount":0}`},
		{"negative paid", `{"person_name":"Ann","direction":"owed_to_me","amount":100,"amount_paid":-1}`},
	}
	for _, tt := range tests {
		t.Run("returns 400 on "+tt.name, func(t *testing.T) {
			r := setupDebtRouter(&mockDebtService{}, &mockAuditService{})

			rec := doRequest(r, "POST", "/debts", tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestDebtHandler_GetDebts(t *testing.T) {
	t.Run("passes filters", func(t *testing.T) {
		var got services.DebtFilter
		svc := &mockDebtService{
			getDebtsFn: func(_ string, _ pagination.PageRequest, filter services.DebtFilter) (*pagination.PageResponse[models.Debt], error) {
				got = filter
				resp := pagination.NewPageResponse[models.Debt](nil, 1, 20, 0)
				return &resp, nil
			},
		}
		r := setupDebtRouter(svc, &mockAuditService{})

		rec := doRequest(r, "GET", "/debts?direction=owed_to_me&status=pending", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Direction == nil || *got.Direction != models.DebtOwedToMe {
			t.Errorf("unexpected direction filter %v", got.Direction)
		}
		if got.Status == nil || *got.Status != models.DebtStatusPending {
			t.Errorf("unexpected status filter %v", got.Status)
		}
	})

	t.Run("returns 400 on unknown status", func(t *testing.T) {
		r := setupDebtRouter(&mockDebtService{}, &mockAuditService{})

		rec := doRequest(r, "GET", "/debts?status=partial", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestDebtHandler_UpdateDebt(t *testing.T) {
	t.Run("empty due date clears it", func(t *testing.T) {
		var got services.DebtUpdate
		svc := &mockDebtService{
			updateDebtFn: func(_, _ string, update services.DebtUpdate) (*models.Debt, error) {
				got = update
				return &models.Debt{}, nil
			},
		}
		r := setupDebtRouter(svc, &mockAuditService{})

		rec := doRequest(r, "PUT", "/debts/"+testDebtID, `{"due_date":""}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !got.ClearDueDate || got.DueDate != nil {
			t.Errorf("expected due date to be cleared, got %+v", got)
		}
	})

	t.Run("omitted due date is untouched", func(t *testing.T) {
		var got services.DebtUpdate
		svc := &mockDebtService{
			updateDebtFn: func(_, _ string, update services.DebtUpdate) (*models.Debt, error) {
				got = update
				return &models.Debt{}, nil
			},
		}
		r := setupDebtRouter(svc, &mockAuditService{})

		rec := doRequest(r, "PUT", "/debts/"+testDebtID, `{"amount":9000}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if got.ClearDueDate || got.DueDate != nil {
			t.Errorf("expected due date untouched, got %+v", got)
		}
		if got.Amount == nil || *got.Amount != 9000 {
			t.Errorf("expected amount 9000, got %v", got.Amount)
		}
	})
}

func TestDebtHandler_PayDebt(t *testing.T) {
	t.Run("returns 200 and audits", func(t *testing.T) {
		svc := &mockDebtService{
			payFn: func(_, _ string, payment int64, _ time.Time) (*services.PaymentResult, error) {
				return &services.PaymentResult{
					Debt:   &models.Debt{Amount: 5000, AmountPaid: 5000, Status: models.DebtStatusPaid},
					Income: &models.Income{Amount: payment},
				}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupDebtRouter(svc, audit)

		rec := doRequest(r, "POST", "/debts/"+testDebtID+"/payments", `{"amount":3000}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		debt := result["debt"].(map[string]interface{})
		if debt["status"] != "paid" {
			t.Errorf("expected paid, got %v", debt["status"])
		}
		if result["income"].(map[string]interface{})["amount"].(float64) != 3000 {
			t.Errorf("unexpected income %v", result["income"])
		}
		if len(audit.entries) != 1 || audit.entries[0].action != services.AuditPayDebt {
			t.Errorf("expected PAY_DEBT audit entry, got %+v", audit.entries)
		}
	})

	t.Run("returns 400 when payment exceeds the remaining amount", func(t *testing.T) {
		svc := &mockDebtService{
			payFn: func(string, string, int64, time.Time) (*services.PaymentResult, error) {
				return nil, apperrors.ErrPaymentExceedsDebt
			},
		}
		r := setupDebtRouter(svc, &mockAuditService{})

		rec := doRequest(r, "POST", "/debts/"+testDebtID+"/payments", `{"amount":999999}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "PAYMENT_EXCEEDS_DEBT")
	})

	t.Run("returns 400 on zero payment", func(t *testing.T) {
		r := setupDebtRouter(&mockDebtService{}, &mockAuditService{})

		rec := doRequest(r, "POST", "/debts/"+testDebtID+"/payments", `{"amount":0}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestDebtHandler_GetSummary(t *testing.T) {
	svc := &mockDebtService{
		getSummaryFn: func(string) (*ledger.DebtSummary, error) {
			return &ledger.DebtSummary{PendingCount: 2}, nil
		},
	}
	r := setupDebtRouter(svc, &mockAuditService{})

	rec := doRequest(r, "GET", "/debts/summary", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if _, ok := parseJSON(t, rec)["summary"]; !ok {
		t.Error("expected summary in response")
	}
}
