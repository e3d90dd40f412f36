package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestHTTPMetricsMiddleware(t *testing.T) {
	h := HTTPMetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/healthz", "503"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/healthz", "503"))
	if after-before != 1 {
		t.Errorf("expected counter to increase by 1, got %v", after-before)
	}
}

func TestAddExpensesOverdue(t *testing.T) {
	before := testutil.ToFloat64(expensesOverdue)
	AddExpensesOverdue(3)
	AddExpensesOverdue(0)
	AddExpensesOverdue(-2)
	if got := testutil.ToFloat64(expensesOverdue) - before; got != 3 {
		t.Errorf("overdue counter delta = %v, want 3", got)
	}
}
