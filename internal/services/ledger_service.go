// Package services orchestrates the pure core over the persistence layer.
// Every operation takes the account id explicitly; there is no ambient
// "current account" state anywhere below the presentation layer.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"budgetbook/internal/core"
	"budgetbook/internal/storage"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Summary is the aggregate view the query façade and the interactive surface
// both render. Limit is nil when no budget limit is set for Month.
type Summary struct {
	Month  string // the month Limit was evaluated for, "YYYY-MM"
	Totals core.Totals
	Months []core.MonthBucket
	Limit  *core.LimitStatus
}

// LedgerService records entries and limits and computes summaries.
type LedgerService struct {
	store storage.LedgerStore
}

func NewLedgerService(store storage.LedgerStore) *LedgerService {
	return &LedgerService{store: store}
}

// RecordEntry validates and persists a new immutable entry. A zero date
// defaults to today. Entries are never updated or deleted; a mistake is
// corrected by recording an offsetting entry.
func (s *LedgerService) RecordEntry(ctx context.Context, accountID int64, kind core.Kind, amount decimal.Decimal, memo string, date core.Date) (core.LedgerEntry, error) {
	if date.IsZero() {
		date = core.Today(time.Now().UTC())
	}

	e := core.LedgerEntry{
		ID:        uuid.NewString(),
		AccountID: accountID,
		Kind:      kind,
		Amount:    amount,
		Memo:      memo,
		Date:      date,
	}
	if err := e.Validate(); err != nil {
		return core.LedgerEntry{}, err
	}

	if err := s.store.AppendEntry(ctx, e); err != nil {
		return core.LedgerEntry{}, fmt.Errorf("record entry: %w", err)
	}
	return e, nil
}

// SetLimit validates and upserts the budget limit for (account, month).
// Setting a limit for a month that already has one replaces it.
func (s *LedgerService) SetLimit(ctx context.Context, accountID int64, month string, amount decimal.Decimal) error {
	l := core.BudgetLimit{AccountID: accountID, Month: month, Amount: amount}
	if err := l.Validate(); err != nil {
		return err
	}

	if err := s.store.UpsertLimit(ctx, l); err != nil {
		return fmt.Errorf("set limit: %w", err)
	}
	return nil
}

// Summary aggregates one consistent snapshot of the account's ledger: totals,
// the monthly series, and the limit status for the month containing now.
func (s *LedgerService) Summary(ctx context.Context, accountID int64, now time.Time) (Summary, error) {
	month := core.MonthKeyAt(now)

	snap, err := s.store.ReadSnapshot(ctx, accountID, month)
	if err != nil {
		return Summary{}, fmt.Errorf("read ledger snapshot: %w", err)
	}

	sum := Summary{
		Month:  month,
		Totals: core.ComputeTotals(snap.Entries),
		Months: core.MonthlySeries(snap.Entries),
		Limit:  core.EvaluateLimit(core.MonthExpense(snap.Entries, month), snap.Limit),
	}

	slog.DebugContext(ctx, "Summary computed",
		"account_id", accountID,
		"month", month,
		"entries", len(snap.Entries),
		"limit_set", sum.Limit != nil)
	return sum, nil
}

// Entries returns the account's entries sorted by the given column.
func (s *LedgerService) Entries(ctx context.Context, accountID int64, col core.SortColumn, descending bool) ([]core.LedgerEntry, error) {
	if err := col.Validate(); err != nil {
		return nil, err
	}

	entries, err := s.store.ListEntries(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	core.SortEntries(entries, col, descending)
	return entries, nil
}
