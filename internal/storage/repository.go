// Package storage persists accounts, ledger entries and budget limits in
// SQLite. Entries are append-only; the only mutable row is a month's budget
// limit, which is replaced with a single atomic upsert.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"budgetbook/internal/core"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

// CreateAccount implements AccountStore.
func (r *SQLiteRepository) CreateAccount(ctx context.Context, username, passwordHash string) (core.Account, error) {
	var acc core.Account
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO accounts (username, password_hash)
		 VALUES (?, ?)
		 RETURNING id, username, password_hash, created_at`,
		username, passwordHash,
	).Scan(&acc.ID, &acc.Username, &acc.PasswordHash, &acc.CreatedAt)
	if isUniqueViolation(err) {
		return core.Account{}, core.ErrDuplicateUsername
	}
	if err != nil {
		return core.Account{}, fmt.Errorf("create account: %w", err)
	}

	slog.InfoContext(ctx, "Account created", "id", acc.ID, "username", acc.Username)
	return acc, nil
}

// GetAccount implements AccountStore.
func (r *SQLiteRepository) GetAccount(ctx context.Context, id int64) (core.Account, error) {
	var acc core.Account
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM accounts WHERE id = ?`, id,
	).Scan(&acc.ID, &acc.Username, &acc.PasswordHash, &acc.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Account{}, core.ErrNotFound
	}
	if err != nil {
		return core.Account{}, fmt.Errorf("get account: %w", err)
	}
	return acc, nil
}

// GetAccountByUsername implements AccountStore. The lookup is case-sensitive.
func (r *SQLiteRepository) GetAccountByUsername(ctx context.Context, username string) (core.Account, error) {
	var acc core.Account
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM accounts WHERE username = ?`, username,
	).Scan(&acc.ID, &acc.Username, &acc.PasswordHash, &acc.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Account{}, core.ErrNotFound
	}
	if err != nil {
		return core.Account{}, fmt.Errorf("get account by username: %w", err)
	}
	return acc, nil
}

// AppendEntry implements LedgerStore.
func (r *SQLiteRepository) AppendEntry(ctx context.Context, e core.LedgerEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO ledger_entries (id, account_id, kind, amount, memo, entry_date)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.AccountID, string(e.Kind), e.Amount.String(), e.Memo, e.Date.String(),
	)
	if err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}

	slog.InfoContext(ctx, "Ledger entry saved",
		"id", e.ID,
		"account_id", e.AccountID,
		"kind", string(e.Kind),
		"amount", e.Amount.String(),
		"date", e.Date.String())
	return nil
}

// ListEntries implements LedgerStore. Entries come back in chronological
// order; any other presentation order is the caller's concern.
func (r *SQLiteRepository) ListEntries(ctx context.Context, accountID int64) ([]core.LedgerEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, account_id, kind, amount, memo, entry_date
		 FROM ledger_entries
		 WHERE account_id = ?
		 ORDER BY entry_date, created_at`,
		accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]core.LedgerEntry, error) {
	var entries []core.LedgerEntry
	for rows.Next() {
		var (
			e       core.LedgerEntry
			kind    string
			rawDate string
		)
		if err := rows.Scan(&e.ID, &e.AccountID, &kind, &e.Amount, &e.Memo, &rawDate); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		e.Kind = core.Kind(kind)
		d, err := core.ParseDate(rawDate)
		if err != nil {
			return nil, fmt.Errorf("parse entry date %q: %w", rawDate, err)
		}
		e.Date = d
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger entries: %w", err)
	}
	return entries, nil
}

// UpsertLimit implements LedgerStore. The ON CONFLICT clause makes the
// existence check and the write one statement, so concurrent calls for the
// same (account, month) cannot both insert.
func (r *SQLiteRepository) UpsertLimit(ctx context.Context, l core.BudgetLimit) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budget_limits (account_id, month, limit_amount)
		 VALUES (?, ?, ?)
		 ON CONFLICT(account_id, month) DO UPDATE SET limit_amount = excluded.limit_amount`,
		l.AccountID, l.Month, l.Amount.String(),
	)
	if err != nil {
		return fmt.Errorf("upsert budget limit: %w", err)
	}

	slog.InfoContext(ctx, "Budget limit set",
		"account_id", l.AccountID,
		"month", l.Month,
		"limit", l.Amount.String())
	return nil
}

// GetLimit implements LedgerStore. An unset limit is (nil, nil), not an error.
func (r *SQLiteRepository) GetLimit(ctx context.Context, accountID int64, month string) (*core.BudgetLimit, error) {
	return getLimit(ctx, r.db, accountID, month)
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getLimit(ctx context.Context, q querier, accountID int64, month string) (*core.BudgetLimit, error) {
	l := core.BudgetLimit{AccountID: accountID, Month: month}
	err := q.QueryRowContext(ctx,
		`SELECT limit_amount FROM budget_limits WHERE account_id = ? AND month = ?`,
		accountID, month,
	).Scan(&l.Amount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get budget limit: %w", err)
	}
	return &l, nil
}

// ReadSnapshot implements LedgerStore. Entries and the month's limit are read
// inside one read-only transaction so concurrent writers can never produce a
// half-written view.
func (r *SQLiteRepository) ReadSnapshot(ctx context.Context, accountID int64, month string) (Snapshot, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return Snapshot{}, fmt.Errorf("begin snapshot: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		`SELECT id, account_id, kind, amount, memo, entry_date
		 FROM ledger_entries
		 WHERE account_id = ?
		 ORDER BY entry_date, created_at`,
		accountID,
	)
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot entries: %w", err)
	}
	entries, err := scanEntries(rows)
	rows.Close()
	if err != nil {
		return Snapshot{}, err
	}

	limit, err := getLimit(ctx, tx, accountID, month)
	if err != nil {
		return Snapshot{}, err
	}

	if err := tx.Commit(); err != nil {
		return Snapshot{}, fmt.Errorf("commit snapshot: %w", err)
	}
	return Snapshot{Entries: entries, Limit: limit}, nil
}

var _ Store = (*SQLiteRepository)(nil)
