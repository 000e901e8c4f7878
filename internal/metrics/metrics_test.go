package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectors(t *testing.T) {
	before := testutil.ToFloat64(StockMoved.WithLabelValues("consume"))
	StockMoved.WithLabelValues("consume").Add(2.5)
	if got := testutil.ToFloat64(StockMoved.WithLabelValues("consume")) - before; got != 2.5 {
		t.Errorf("expected +2.5 units, got %v", got)
	}

	LedgerWrites.WithLabelValues("income", "Product Sale").Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "pocketbook_ledger_writes_total") {
		t.Error("expected ledger writes in exposition output")
	}
}
