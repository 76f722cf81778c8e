package core

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Totals is the account-wide aggregate: Balance = Income - Expense, exact.
type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
}

// MonthBucket is one row of the monthly series.
type MonthBucket struct {
	Month   string // "YYYY-MM"
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// LimitStatus reports how a month's expenses compare to its budget limit.
// A nil *LimitStatus means no limit is set for the month, which is distinct
// from a zero limit.
type LimitStatus struct {
	Month      string
	Limit      decimal.Decimal
	Spent      decimal.Decimal
	Remaining  decimal.Decimal
	OverBudget bool
}

// ComputeTotals sums amounts by kind. The empty set yields all zeros.
func ComputeTotals(entries []LedgerEntry) Totals {
	t := Totals{Income: decimal.Zero, Expense: decimal.Zero}
	for _, e := range entries {
		switch e.Kind {
		case Income:
			t.Income = t.Income.Add(e.Amount)
		case Expense:
			t.Expense = t.Expense.Add(e.Amount)
		}
	}
	t.Balance = t.Income.Sub(t.Expense)
	return t
}

// MonthlySeries buckets entries by calendar month, ascending by month key.
// Only months with at least one entry appear; a month observed for one kind
// contributes zero for the other. Gaps are never densely filled.
func MonthlySeries(entries []LedgerEntry) []MonthBucket {
	buckets := make(map[string]*MonthBucket)
	for _, e := range entries {
		key := e.Date.MonthKey()
		b, ok := buckets[key]
		if !ok {
			b = &MonthBucket{Month: key, Income: decimal.Zero, Expense: decimal.Zero}
			buckets[key] = b
		}
		switch e.Kind {
		case Income:
			b.Income = b.Income.Add(e.Amount)
		case Expense:
			b.Expense = b.Expense.Add(e.Amount)
		}
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	series := make([]MonthBucket, 0, len(keys))
	for _, k := range keys {
		series = append(series, *buckets[k])
	}
	return series
}

// MonthExpense returns the expense sum for one month key.
func MonthExpense(entries []LedgerEntry, month string) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range entries {
		if e.Kind == Expense && e.Date.MonthKey() == month {
			sum = sum.Add(e.Amount)
		}
	}
	return sum
}

// EvaluateLimit compares a month's expense sum against its budget limit.
// When limit is nil the status is nil: callers must render "unset" rather
// than a zero limit.
func EvaluateLimit(spent decimal.Decimal, limit *BudgetLimit) *LimitStatus {
	if limit == nil {
		return nil
	}
	remaining := limit.Amount.Sub(spent)
	return &LimitStatus{
		Month:      limit.Month,
		Limit:      limit.Amount,
		Spent:      spent,
		Remaining:  remaining,
		OverBudget: remaining.IsNegative(),
	}
}

// Columns a tabular surface can sort entries by.
const (
	SortByKind   SortColumn = "kind"
	SortByAmount SortColumn = "amount"
	SortByMemo   SortColumn = "memo"
	SortByDate   SortColumn = "date"
)

type SortColumn string

func (c SortColumn) Validate() error {
	switch c {
	case SortByKind, SortByAmount, SortByMemo, SortByDate:
		return nil
	default:
		return ErrValidation
	}
}

// SortEntries orders entries in place by the given column. Amount compares
// numerically and date chronologically; kind and memo compare lexicographically.
// Ties keep their relative order so the underlying storage order shows through.
func SortEntries(entries []LedgerEntry, col SortColumn, descending bool) {
	less := func(a, b LedgerEntry) bool { return a.Date.Before(b.Date.Time) }
	switch col {
	case SortByKind:
		less = func(a, b LedgerEntry) bool { return strings.Compare(string(a.Kind), string(b.Kind)) < 0 }
	case SortByAmount:
		less = func(a, b LedgerEntry) bool { return a.Amount.LessThan(b.Amount) }
	case SortByMemo:
		less = func(a, b LedgerEntry) bool { return strings.Compare(a.Memo, b.Memo) < 0 }
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if descending {
			return less(entries[j], entries[i])
		}
		return less(entries[i], entries[j])
	})
}
