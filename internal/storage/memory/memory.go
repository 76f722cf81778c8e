// Package memory provides an in-memory Store used by tests and by the
// "memory" data backend. It mirrors the SQLite repository's semantics,
// including the atomic limit upsert and the consistent snapshot read.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"budgetbook/internal/core"
	"budgetbook/internal/storage"
)

type Store struct {
	mu      sync.RWMutex
	nextID  int64
	byName  map[string]int64
	byID    map[int64]core.Account
	entries map[int64][]core.LedgerEntry
	limits  map[int64]map[string]core.BudgetLimit
}

func NewStore() *Store {
	return &Store{
		nextID:  1,
		byName:  make(map[string]int64),
		byID:    make(map[int64]core.Account),
		entries: make(map[int64][]core.LedgerEntry),
		limits:  make(map[int64]map[string]core.BudgetLimit),
	}
}

func (s *Store) CreateAccount(_ context.Context, username, passwordHash string) (core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byName[username]; exists {
		return core.Account{}, core.ErrDuplicateUsername
	}
	acc := core.Account{
		ID:           s.nextID,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	s.nextID++
	s.byName[username] = acc.ID
	s.byID[acc.ID] = acc
	return acc, nil
}

func (s *Store) GetAccount(_ context.Context, id int64) (core.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acc, ok := s.byID[id]
	if !ok {
		return core.Account{}, core.ErrNotFound
	}
	return acc, nil
}

func (s *Store) GetAccountByUsername(_ context.Context, username string) (core.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byName[username]
	if !ok {
		return core.Account{}, core.ErrNotFound
	}
	return s.byID[id], nil
}

func (s *Store) AppendEntry(_ context.Context, e core.LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[e.AccountID] = append(s.entries[e.AccountID], e)
	return nil
}

func (s *Store) ListEntries(_ context.Context, accountID int64) ([]core.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.listLocked(accountID), nil
}

// listLocked returns a chronological copy. Callers must hold at least mu.RLock.
func (s *Store) listLocked(accountID int64) []core.LedgerEntry {
	out := make([]core.LedgerEntry, len(s.entries[accountID]))
	copy(out, s.entries[accountID])
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date.Time)
	})
	return out
}

func (s *Store) UpsertLimit(_ context.Context, l core.BudgetLimit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.limits[l.AccountID] == nil {
		s.limits[l.AccountID] = make(map[string]core.BudgetLimit)
	}
	s.limits[l.AccountID][l.Month] = l
	return nil
}

func (s *Store) GetLimit(_ context.Context, accountID int64, month string) (*core.BudgetLimit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.limitLocked(accountID, month), nil
}

func (s *Store) limitLocked(accountID int64, month string) *core.BudgetLimit {
	l, ok := s.limits[accountID][month]
	if !ok {
		return nil
	}
	return &l
}

func (s *Store) ReadSnapshot(_ context.Context, accountID int64, month string) (storage.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return storage.Snapshot{
		Entries: s.listLocked(accountID),
		Limit:   s.limitLocked(accountID, month),
	}, nil
}

// LimitCount reports how many limit rows exist for an account. Test helper.
func (s *Store) LimitCount(accountID int64) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.limits[accountID])
}

var _ storage.Store = (*Store)(nil)
