package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"budgetbook/internal/core"
	"budgetbook/internal/services"
	"budgetbook/internal/storage/memory"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func newTestServer(t *testing.T) (*Server, *services.LedgerService, int64) {
	t.Helper()
	store := memory.NewStore()
	policy := services.DefaultPolicy()
	policy.BcryptCost = bcrypt.MinCost
	accounts := services.NewAccountService(store, policy)
	ledger := services.NewLedgerService(store)

	acc, err := accounts.Register(context.Background(), "alice", "hunter22")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	srv := NewServer(":0", accounts, ledger)
	srv.now = func() time.Time { return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC) }
	return srv, ledger, acc.ID
}

func doRequest(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func seedEntry(t *testing.T, ledger *services.LedgerService, id int64, kind core.Kind, amount, date, memo string) {
	t.Helper()
	d, err := core.ParseDate(date)
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	if _, err := ledger.RecordEntry(context.Background(), id, kind, decimal.RequireFromString(amount), memo, d); err != nil {
		t.Fatalf("seed entry: %v", err)
	}
}

func TestTransactionsMissingAccount(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doRequest(t, srv, "/transactions")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body errorJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body.Error == "" {
		t.Fatalf("expected error body, got %q (err=%v)", rec.Body.String(), err)
	}

	rec = doRequest(t, srv, "/transactions?account=abc")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric id, got %d", rec.Code)
	}
}

func TestTransactionsUnknownAccount(t *testing.T) {
	srv, _, _ := newTestServer(t)

	rec := doRequest(t, srv, "/transactions?account=999")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestTransactionsRoundTrip(t *testing.T) {
	srv, ledger, id := newTestServer(t)
	seedEntry(t, ledger, id, core.Expense, "30.05", "2024-01-20", "groceries")
	seedEntry(t, ledger, id, core.Income, "100.10", "2024-01-05", "salary")

	rec := doRequest(t, srv, "/transactions?account=1")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var got []transactionJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(got))
	}
	// date-ascending, exactly what the service computed
	want := []transactionJSON{
		{Kind: "income", Amount: "100.1", Memo: "salary", Date: "2024-01-05"},
		{Kind: "expense", Amount: "30.05", Memo: "groceries", Date: "2024-01-20"},
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("transaction %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestSummaryWithLimit(t *testing.T) {
	srv, ledger, id := newTestServer(t)
	seedEntry(t, ledger, id, core.Income, "1000", "2024-01-05", "salary")
	seedEntry(t, ledger, id, core.Expense, "250", "2024-03-10", "rent")
	if err := ledger.SetLimit(context.Background(), id, "2024-03", decimal.NewFromInt(200)); err != nil {
		t.Fatalf("set limit: %v", err)
	}

	rec := doRequest(t, srv, "/summary?account=1")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var got summaryJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.TotalIncome != "1000" || got.TotalExpense != "250" || got.Balance != "750" {
		t.Fatalf("totals wrong: %+v", got)
	}
	if len(got.MonthlySeries) != 2 || got.MonthlySeries[0].Month != "2024-01" || got.MonthlySeries[1].Month != "2024-03" {
		t.Fatalf("monthly series wrong: %+v", got.MonthlySeries)
	}
	if got.BudgetLimit == nil {
		t.Fatalf("expected budget limit status")
	}
	if got.BudgetLimit.Remaining != "-50" || !got.BudgetLimit.OverBudget {
		t.Fatalf("limit status wrong: %+v", got.BudgetLimit)
	}
}

func TestSummaryLimitUnset(t *testing.T) {
	srv, ledger, id := newTestServer(t)
	seedEntry(t, ledger, id, core.Expense, "250", "2024-03-10", "rent")

	rec := doRequest(t, srv, "/summary?account=1")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	// budget_limit must be an explicit null, never rendered as zeros
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	limit, ok := raw["budget_limit"]
	if !ok {
		t.Fatalf("budget_limit field missing: %s", rec.Body.String())
	}
	if string(limit) != "null" {
		t.Fatalf("expected null budget_limit, got %s", limit)
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv, _, _ := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		if rec := doRequest(t, srv, path); rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}
