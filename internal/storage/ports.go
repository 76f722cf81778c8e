package storage

import (
	"context"

	"budgetbook/internal/core"
)

// Snapshot is a consistent view of one account's ledger, read in a single
// transaction: all entries plus the budget limit for the requested month
// (nil when no limit is set).
type Snapshot struct {
	Entries []core.LedgerEntry
	Limit   *core.BudgetLimit
}

// AccountStore persists account records.
type AccountStore interface {
	// CreateAccount stores a new account. A username collision returns
	// core.ErrDuplicateUsername.
	CreateAccount(ctx context.Context, username, passwordHash string) (core.Account, error)
	// GetAccount returns core.ErrNotFound for unknown ids.
	GetAccount(ctx context.Context, id int64) (core.Account, error)
	// GetAccountByUsername returns core.ErrNotFound for unknown usernames.
	// The match is exact and case-sensitive.
	GetAccountByUsername(ctx context.Context, username string) (core.Account, error)
}

// LedgerStore persists ledger entries and budget limits. Entries are
// append-only: there is no update or delete operation.
type LedgerStore interface {
	AppendEntry(ctx context.Context, e core.LedgerEntry) error
	ListEntries(ctx context.Context, accountID int64) ([]core.LedgerEntry, error)
	// UpsertLimit replaces the limit for (account, month) in one atomic step;
	// two concurrent calls never produce two rows.
	UpsertLimit(ctx context.Context, l core.BudgetLimit) error
	// GetLimit returns (nil, nil) when no limit is set for the month.
	GetLimit(ctx context.Context, accountID int64, month string) (*core.BudgetLimit, error)
	// ReadSnapshot reads entries and the month's limit in one transaction.
	ReadSnapshot(ctx context.Context, accountID int64, month string) (Snapshot, error)
}

// Store is the full persistence surface the services need.
type Store interface {
	AccountStore
	LedgerStore
}
