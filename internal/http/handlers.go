package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"budgetbook/internal/core"
)

type transactionJSON struct {
	Kind   string `json:"kind"`
	Amount string `json:"amount"`
	Memo   string `json:"memo"`
	Date   string `json:"date"`
}

type monthBucketJSON struct {
	Month   string `json:"month"`
	Income  string `json:"income"`
	Expense string `json:"expense"`
}

type limitStatusJSON struct {
	Month      string `json:"month"`
	Limit      string `json:"limit"`
	Spent      string `json:"spent"`
	Remaining  string `json:"remaining"`
	OverBudget bool   `json:"over_budget"`
}

type summaryJSON struct {
	TotalIncome   string            `json:"total_income"`
	TotalExpense  string            `json:"total_expense"`
	Balance       string            `json:"balance"`
	MonthlySeries []monthBucketJSON `json:"monthly_series"`
	// BudgetLimit is null when no limit is set for the current month,
	// which is not the same as a zero limit.
	BudgetLimit *limitStatusJSON `json:"budget_limit"`
}

type errorJSON struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Encode response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorJSON{Error: msg})
}

// accountID extracts and resolves the mandatory account query parameter.
// The bool result reports whether the handler should continue.
func (s *Server) accountID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("account"))
	if raw == "" {
		writeError(w, http.StatusBadRequest, "account parameter required")
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "account parameter must be numeric")
		return 0, false
	}

	if _, err := s.accounts.Get(r.Context(), id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			writeError(w, http.StatusNotFound, "account not found")
			return 0, false
		}
		slog.ErrorContext(r.Context(), "Account lookup failed", "error", err, "account_id", id)
		writeError(w, http.StatusInternalServerError, "internal error")
		return 0, false
	}
	return id, true
}

// handleTransactions serves GET /transactions?account=<id>.
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	id, ok := s.accountID(w, r)
	if !ok {
		return
	}

	entries, err := s.ledger.Entries(r.Context(), id, core.SortByDate, false)
	if err != nil {
		slog.ErrorContext(r.Context(), "List transactions failed", "error", err, "account_id", id)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]transactionJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, transactionJSON{
			Kind:   string(e.Kind),
			Amount: e.Amount.String(),
			Memo:   e.Memo,
			Date:   e.Date.String(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleSummary serves GET /summary?account=<id>.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := s.accountID(w, r)
	if !ok {
		return
	}

	sum, err := s.ledger.Summary(r.Context(), id, s.now())
	if err != nil {
		slog.ErrorContext(r.Context(), "Summary failed", "error", err, "account_id", id)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := summaryJSON{
		TotalIncome:   sum.Totals.Income.String(),
		TotalExpense:  sum.Totals.Expense.String(),
		Balance:       sum.Totals.Balance.String(),
		MonthlySeries: make([]monthBucketJSON, 0, len(sum.Months)),
	}
	for _, b := range sum.Months {
		out.MonthlySeries = append(out.MonthlySeries, monthBucketJSON{
			Month:   b.Month,
			Income:  b.Income.String(),
			Expense: b.Expense.String(),
		})
	}
	if sum.Limit != nil {
		out.BudgetLimit = &limitStatusJSON{
			Month:      sum.Limit.Month,
			Limit:      sum.Limit.Limit.String(),
			Spent:      sum.Limit.Spent.String(),
			Remaining:  sum.Limit.Remaining.String(),
			OverBudget: sum.Limit.OverBudget,
		}
	}
	writeJSON(w, http.StatusOK, out)
}
