package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service plans and executes withdrawals. Concurrent withdrawals for the
// same user are not serialized here; callers needing exclusion across
// requests must provide it upstream.
type Service interface {
	Withdraw(ctx context.Context, userID string, amount decimal.Decimal, currency string) (*Receipt, error)
	History(ctx context.Context, userID string, limit int) ([]Record, error)
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, record *Record) error
	ListByUser(ctx context.Context, db *gorm.DB, userID string, limit int) ([]Record, error)
}

var (
	ErrInvalidUser         = errors.New("invalid_user")
	ErrInvalidAmount       = errors.New("invalid_amount")
	ErrBelowMinimum        = errors.New("below_minimum_payout")
	ErrNoAccount           = errors.New("no_payout_account")
	ErrInsufficientBalance = errors.New("insufficient_balance")
	// Balances are reconciled in one configured currency; there is no
	// conversion step, so any other requested currency is rejected.
	ErrUnsupportedCurrency = errors.New("unsupported_currency")
)

// InsufficientBalanceError reports both side balances so callers can present
// an accurate shortfall message.
type InsufficientBalanceError struct {
	Requested        decimal.Decimal
	CreatorAvailable decimal.Decimal
	WinnerAvailable  decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return "insufficient_balance"
}

func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}
