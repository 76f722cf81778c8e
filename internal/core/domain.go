package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

type (
	Kind string

	Date struct {
		time.Time
	}

	Account struct {
		ID           int64
		Username     string
		PasswordHash string
		CreatedAt    time.Time
	}

	LedgerEntry struct {
		ID        string
		AccountID int64
		Kind      Kind
		Amount    decimal.Decimal
		Memo      string
		Date      Date
	}

	// BudgetLimit is the expense ceiling for one account and one month.
	// At most one limit exists per (account, month).
	BudgetLimit struct {
		AccountID int64
		Month     string // "YYYY-MM"
		Amount    decimal.Decimal
	}
)

// Error kinds surfaced to callers. Specific validation failures wrap
// ErrValidation so both errors.Is checks work.
var (
	ErrValidation         = errors.New("validation error")
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNotFound           = errors.New("not found")
)

var (
	ErrInvalidAmount    = fmt.Errorf("%w: amount must be greater than zero", ErrValidation)
	ErrEmptyMemo        = fmt.Errorf("%w: empty memo", ErrValidation)
	ErrInvalidKind      = fmt.Errorf("%w: kind must be income or expense", ErrValidation)
	ErrInvalidDate      = fmt.Errorf("%w: invalid date", ErrValidation)
	ErrInvalidMonthKey  = fmt.Errorf("%w: month must be in YYYY-MM form", ErrValidation)
	ErrInvalidLimit     = fmt.Errorf("%w: limit must be greater than zero", ErrValidation)
	ErrUsernameTooShort = fmt.Errorf("%w: username too short", ErrValidation)
	ErrPasswordTooShort = fmt.Errorf("%w: password too short", ErrValidation)
)

func (k Kind) Validate() error {
	switch k {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidKind
	}
}

// NewDate creates a new Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the calendar date of t, truncated to midnight UTC.
func Today(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses the canonical "YYYY-MM-DD" representation.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// String returns the canonical "YYYY-MM-DD" form.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

// MonthKey returns the canonical "YYYY-MM" bucket key for the date.
func (d Date) MonthKey() string {
	return d.Format("2006-01")
}

// MonthKeyAt returns the "YYYY-MM" key for an instant in time.
func MonthKeyAt(t time.Time) string {
	return t.Format("2006-01")
}

// ValidateMonthKey checks the "YYYY-MM" form, including the month range.
func ValidateMonthKey(s string) error {
	if _, err := time.Parse("2006-01", s); err != nil {
		return ErrInvalidMonthKey
	}
	return nil
}

func (e LedgerEntry) Validate() error {
	if err := e.Kind.Validate(); err != nil {
		return err
	}
	if err := ValidateAmount(e.Amount); err != nil {
		return err
	}
	if len(strings.TrimSpace(e.Memo)) == 0 {
		return ErrEmptyMemo
	}
	if len(e.Memo) > 200 {
		return fmt.Errorf("%w: memo too long (max 200 characters)", ErrValidation)
	}
	return e.Date.Validate()
}

func (l BudgetLimit) Validate() error {
	if err := ValidateMonthKey(l.Month); err != nil {
		return err
	}
	if !l.Amount.IsPositive() {
		return ErrInvalidLimit
	}
	return nil
}
