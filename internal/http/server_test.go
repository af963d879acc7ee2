package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cashflow/internal/aggregate"
	"cashflow/internal/core"
	"cashflow/internal/ledger"
	"cashflow/internal/snapshot"
	"cashflow/internal/storage/memory"
)

var testNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, opts ...Option) (*Server, *ledger.Tracker) {
	t.Helper()
	clock := func() time.Time { return testNow }
	tracker, err := ledger.NewTracker(context.Background(), snapshot.NewRepository(memory.New()), ledger.WithClock(clock))
	require.NoError(t, err)

	srv := NewServer(":0", tracker, append([]Option{WithClock(clock)}, opts...)...)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv, tracker
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func TestHealthAndReady(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := do(t, srv, http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, rr.Code, path)
		assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
		assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
	}
}

func TestCreateTransactionAndDashboard(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := do(t, srv, http.MethodPost, "/api/transactions",
		`{"type":"income","category":"salary","amount":2000,"description":"March pay","date":"2024-03-01"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	created := decode[core.Transaction](t, rr)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "/api/transactions/"+created.ID, rr.Header().Get("Location"))

	rr = do(t, srv, http.MethodPost, "/api/transactions",
		`{"type":"expense","category":"food","amount":"150","date":"2024-03-05"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = do(t, srv, http.MethodGet, "/api/dashboard?year=2024&month=2", "")
	require.Equal(t, http.StatusOK, rr.Code)
	dash := decode[aggregate.Dashboard](t, rr)
	assert.Equal(t, core.Period{Year: 2024, Month: 2}, dash.Period)
	assert.True(t, core.MustMoney("2000").Equal(dash.Totals.Income))
	assert.True(t, core.MustMoney("1850").Equal(dash.CashFlow.LeftToSpend))
	assert.True(t, core.MustMoney("1450").Equal(dash.CashFlow.LeftToBudget))
	require.Len(t, dash.ExpensesByCategory, 1)
	assert.True(t, core.MustMoney("250").Equal(dash.ExpensesByCategory[0].Difference))

	// Month defaults to the current period, which is March 2024.
	rr = do(t, srv, http.MethodGet, "/api/dashboard", "")
	assert.True(t, core.MustMoney("150").Equal(decode[aggregate.Dashboard](t, rr).Totals.Expenses))

	rr = do(t, srv, http.MethodGet, "/api/dashboard?year=2024&month=3", "")
	body := rr.Body.String()
	assert.True(t, decode[aggregate.Dashboard](t, rr).Totals.Income.IsZero())
	assert.Contains(t, body, `"bills":[]`)
	assert.Contains(t, body, `"debts":[]`)
}

func TestDashboardCacheFollowsRevision(t *testing.T) {
	srv, tracker := newTestServer(t)

	first := do(t, srv, http.MethodGet, "/api/dashboard", "")
	assert.True(t, decode[aggregate.Dashboard](t, first).Totals.Expenses.IsZero())

	_, err := tracker.Apply(context.Background(), ledger.AddTransaction{Transaction: core.Transaction{
		Type: core.Expense, Category: "food", Amount: core.MustMoney("42"), Date: core.NewDate(2024, 3, 2),
	}})
	require.NoError(t, err)

	second := do(t, srv, http.MethodGet, "/api/dashboard", "")
	assert.True(t, core.MustMoney("42").Equal(decode[aggregate.Dashboard](t, second).Totals.Expenses))

	do(t, srv, http.MethodGet, "/api/dashboard", "")
	stats := srv.dashboards.Stats()
	assert.Equal(t, 2, stats.Size)
	assert.EqualValues(t, 1, stats.Hits)
}

func TestCreateTransactionValidation(t *testing.T) {
	srv, tracker := newTestServer(t)

	tests := []struct {
		name string
		body string
		code int
	}{
		{"malformed json", `{"type":`, http.StatusBadRequest},
		{"empty body", ``, http.StatusBadRequest},
		{"missing type", `{"amount":10}`, http.StatusUnprocessableEntity},
		{"unknown type", `{"type":"transfer","amount":10}`, http.StatusUnprocessableEntity},
		{"missing amount", `{"type":"expense"}`, http.StatusUnprocessableEntity},
		{"negative amount", `{"type":"expense","amount":-5}`, http.StatusUnprocessableEntity},
		{"bad amount", `{"type":"expense","amount":"abc"}`, http.StatusUnprocessableEntity},
		{"bad date", `{"type":"expense","amount":5,"date":"03/01/2024"}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, srv, http.MethodPost, "/api/transactions", tt.body)
			assert.Equal(t, tt.code, rr.Code, rr.Body.String())
			assert.NotEmpty(t, decode[ErrorBody](t, rr).Error)
		})
	}
	assert.Empty(t, tracker.Transactions(ledger.Filter{}))
}

func TestUpdateAndDeleteTransaction(t *testing.T) {
	srv, tracker := newTestServer(t)

	rr := do(t, srv, http.MethodPost, "/api/transactions", `{"type":"bill","category":"internet","amount":60,"date":"2024-03-03"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	id := decode[core.Transaction](t, rr).ID

	rr = do(t, srv, http.MethodPut, "/api/transactions/"+id, `{"type":"bill","category":"internet","amount":65,"date":"2024-03-03"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.True(t, core.MustMoney("65").Equal(decode[core.Transaction](t, rr).Amount))

	rr = do(t, srv, http.MethodGet, "/api/transactions/"+id, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, srv, http.MethodPut, "/api/transactions/missing", `{"type":"bill","amount":1}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rev := tracker.Revision()
	rr = do(t, srv, http.MethodDelete, "/api/transactions/missing", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, rev, tracker.Revision(), "deleting an unknown id changes nothing")

	rr = do(t, srv, http.MethodDelete, "/api/transactions/"+id, "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, tracker.Transactions(ledger.Filter{}))

	rr = do(t, srv, http.MethodGet, "/api/transactions/"+id, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestListTransactionsFilters(t *testing.T) {
	srv, tracker := newTestServer(t)
	for _, tx := range []core.Transaction{
		{Type: core.Expense, Category: "food", Amount: core.MustMoney("10"), Date: core.NewDate(2024, 3, 1)},
		{Type: core.Expense, Category: "food", Amount: core.MustMoney("20"), Date: core.NewDate(2024, 3, 9)},
		{Type: core.Debt, Category: "mortgage", Amount: core.MustMoney("700"), Date: core.NewDate(2024, 3, 2)},
		{Type: core.Expense, Category: "food", Amount: core.MustMoney("30"), Date: core.NewDate(2024, 2, 9)},
	} {
		_, err := tracker.Apply(context.Background(), ledger.AddTransaction{Transaction: tx})
		require.NoError(t, err)
	}

	all := decode[[]core.Transaction](t, do(t, srv, http.MethodGet, "/api/transactions", ""))
	assert.Len(t, all, 4)

	march := decode[[]core.Transaction](t, do(t, srv, http.MethodGet, "/api/transactions?type=expense&year=2024&month=2", ""))
	require.Len(t, march, 2)
	assert.Equal(t, "2024-03-09", march[0].Date.String(), "newest first")

	none := do(t, srv, http.MethodGet, "/api/transactions?type=income", "")
	assert.Equal(t, "[]\n", none.Body.String())

	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodGet, "/api/transactions?type=nope", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodGet, "/api/transactions?month=march", "").Code)
}

func TestComparisonPerformanceAndChart(t *testing.T) {
	srv, tracker := newTestServer(t)
	for _, tx := range []core.Transaction{
		{Type: core.Income, Category: "salary", Amount: core.MustMoney("2800"), Date: core.NewDate(2024, 3, 1)},
		{Type: core.Expense, Category: "food", Amount: core.MustMoney("600"), Date: core.NewDate(2024, 3, 4)},
	} {
		_, err := tracker.Apply(context.Background(), ledger.AddTransaction{Transaction: tx})
		require.NoError(t, err)
	}

	var cmp struct {
		Categories []aggregate.Comparison `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(do(t, srv, http.MethodGet, "/api/comparison?type=income", "").Body.Bytes(), &cmp))
	require.Len(t, cmp.Categories, 1)
	assert.True(t, core.MustMoney("200").Equal(cmp.Categories[0].Difference))

	require.NoError(t, json.Unmarshal(do(t, srv, http.MethodGet, "/api/comparison", "").Body.Bytes(), &cmp))
	require.Len(t, cmp.Categories, 1)
	assert.Equal(t, "food", cmp.Categories[0].Category)

	var perf struct {
		Categories []aggregate.Performance `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(do(t, srv, http.MethodGet, "/api/performance?category=food", "").Body.Bytes(), &perf))
	require.Len(t, perf.Categories, 1)
	assert.InDelta(t, 150.0, perf.Categories[0].Percentage, 0.001)

	require.NoError(t, json.Unmarshal(do(t, srv, http.MethodGet, "/api/performance", "").Body.Bytes(), &perf))
	assert.Len(t, perf.Categories, len(aggregate.DefaultPerformanceCategories))

	var chart struct {
		Bars []aggregate.Bar `json:"bars"`
	}
	require.NoError(t, json.Unmarshal(do(t, srv, http.MethodGet, "/api/chart/budget-vs-actual", "").Body.Bytes(), &chart))
	require.Len(t, chart.Bars, 4)
	assert.Equal(t, "Income", chart.Bars[0].Label)
}

func TestBudgetsEndpoints(t *testing.T) {
	srv, tracker := newTestServer(t)

	got := decode[core.BudgetConfiguration](t, do(t, srv, http.MethodGet, "/api/budgets", ""))
	assert.True(t, core.DefaultBudgets().Equal(got))

	rr := do(t, srv, http.MethodPut, "/api/budgets", `{"income":5000,"expenses":{"food":250},"debt":100,"savings":50}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.True(t, core.MustMoney("250").Equal(tracker.Budgets().ExpenseBudget("food")))
	assert.True(t, tracker.Budgets().ExpenseBudget("housing").IsZero(), "budgets are replaced wholesale")

	rr = do(t, srv, http.MethodPut, "/api/budgets", `{"income":-1}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.True(t, core.MustMoney("5000").Equal(tracker.Budgets().Income))
}

func TestExportImportClear(t *testing.T) {
	srv, tracker := newTestServer(t)
	_, err := tracker.Apply(context.Background(), ledger.AddTransaction{Transaction: core.Transaction{
		ID: "t1", Type: core.Expense, Category: "food", Amount: core.MustMoney("12.5"), Date: core.NewDate(2024, 3, 2),
	}})
	require.NoError(t, err)

	rr := do(t, srv, http.MethodGet, "/api/export", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "attachment; filename=expense-data-2024-03-15.json", rr.Header().Get("Content-Disposition"))
	exported := rr.Body.String()
	assert.Contains(t, exported, `"exportDate"`)

	rr = do(t, srv, http.MethodPost, "/api/clear", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, tracker.Transactions(ledger.Filter{}))

	rev := tracker.Revision()
	rr = do(t, srv, http.MethodPost, "/api/import", `{"transactions":[{"id":"x","type":"expense","amount":-1}]}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, rev, tracker.Revision(), "malformed import leaves state unchanged")

	rr = do(t, srv, http.MethodPost, "/api/import", exported)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	tx, ok := tracker.Transaction("t1")
	require.True(t, ok)
	assert.True(t, core.MustMoney("12.5").Equal(tx.Amount))
}

func TestCategories(t *testing.T) {
	srv, _ := newTestServer(t)

	opts := decode[[]core.CategoryOption](t, do(t, srv, http.MethodGet, "/api/categories?type=debt", ""))
	assert.Contains(t, opts, core.CategoryOption{Value: "credit_card", Label: "Credit Card"})

	all := decode[map[string][]core.CategoryOption](t, do(t, srv, http.MethodGet, "/api/categories", ""))
	assert.Len(t, all, 4)

	assert.Equal(t, http.StatusBadRequest, do(t, srv, http.MethodGet, "/api/categories?type=x", "").Code)
}

func TestRateLimitAppliesToMutationsOnly(t *testing.T) {
	srv, _ := newTestServer(t, WithRateLimit(1))

	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/api/clear", "").Code)
	rr := do(t, srv, http.MethodPost, "/api/clear", "")
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("Retry-After"))

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/api/budgets", "").Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)
	rr := do(t, srv, http.MethodPatch, "/api/budgets", "{}")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
