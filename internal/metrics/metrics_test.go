package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordTransition(t *testing.T) {
	Init()
	before := testutil.ToFloat64(expenseTransitions.WithLabelValues("approve", OutcomeOK))

	RecordTransition("approve", OutcomeOK)
	RecordTransition("approve", OutcomeOK)

	after := testutil.ToFloat64(expenseTransitions.WithLabelValues("approve", OutcomeOK))
	if after-before != 2 {
		t.Errorf("expected counter to grow by 2, got %v", after-before)
	}
}

func TestRequestLifecycle(t *testing.T) {
	Init()
	RequestStarted()
	if got := testutil.ToFloat64(httpInFlight); got < 1 {
		t.Fatalf("expected at least one in-flight request, got %v", got)
	}
	RequestFinished("GET", "/api/v1/expenses/:id", "200", 0.01)

	if got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/v1/expenses/:id", "200")); got < 1 {
		t.Errorf("expected request to be counted, got %v", got)
	}
}

func TestHandlerExposesCollectors(t *testing.T) {
	RecordTransition("submit", OutcomeOK)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "expense_transitions_total") {
		t.Error("expected expense_transitions_total in exposition output")
	}
	if !strings.Contains(string(body), "go_goroutines") {
		t.Error("expected Go runtime collector in exposition output")
	}
}
