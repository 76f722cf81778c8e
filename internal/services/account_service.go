package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"budgetbook/internal/core"
	"budgetbook/internal/storage"

	"golang.org/x/crypto/bcrypt"
)

// Policy holds the credential shape rules. The lengths are deliberately
// configuration, not constants.
type Policy struct {
	MinUsernameLen int
	MinPasswordLen int
	BcryptCost     int
}

func DefaultPolicy() Policy {
	return Policy{
		MinUsernameLen: 3,
		MinPasswordLen: 6,
		BcryptCost:     bcrypt.DefaultCost,
	}
}

// AccountService handles registration and credential checks. It is stateless:
// the caller keeps track of which account is "current".
type AccountService struct {
	store  storage.AccountStore
	policy Policy
}

func NewAccountService(store storage.AccountStore, policy Policy) *AccountService {
	if policy.BcryptCost == 0 {
		policy.BcryptCost = bcrypt.DefaultCost
	}
	return &AccountService{store: store, policy: policy}
}

// Register validates the credential shape, hashes the password and stores the
// account. The raw password is never persisted. An existing username fails
// with core.ErrDuplicateUsername and leaves the existing record untouched.
func (s *AccountService) Register(ctx context.Context, username, password string) (core.Account, error) {
	if len(username) < s.policy.MinUsernameLen {
		return core.Account{}, core.ErrUsernameTooShort
	}
	if len(password) < s.policy.MinPasswordLen {
		return core.Account{}, core.ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.policy.BcryptCost)
	if err != nil {
		return core.Account{}, fmt.Errorf("hash password: %w", err)
	}

	acc, err := s.store.CreateAccount(ctx, username, string(hash))
	if err != nil {
		return core.Account{}, err
	}

	slog.InfoContext(ctx, "Account registered", "username", username, "account_id", acc.ID)
	return acc, nil
}

// Authenticate looks the account up and verifies the password. An unknown
// username and a wrong password fail with the same core.ErrInvalidCredentials
// so callers cannot enumerate usernames.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (core.Account, error) {
	acc, err := s.store.GetAccountByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.Account{}, core.ErrInvalidCredentials
		}
		return core.Account{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)); err != nil {
		return core.Account{}, core.ErrInvalidCredentials
	}

	slog.InfoContext(ctx, "Account authenticated", "username", username, "account_id", acc.ID)
	return acc, nil
}

// Get resolves an account by id, returning core.ErrNotFound when absent.
func (s *AccountService) Get(ctx context.Context, id int64) (core.Account, error) {
	return s.store.GetAccount(ctx, id)
}
