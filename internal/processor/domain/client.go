package domain

import (
	"context"
	"errors"
)

// Client is the payout processor surface this service depends on. All calls
// are scoped to a named external account where the processor requires it.
type Client interface {
	GetBalance(ctx context.Context, accountID string) (Balance, error)
	ListPayouts(ctx context.Context, accountID string, limit int) ([]Payout, error)
	ListTransfers(ctx context.Context, destinationAccountID string, limit int) ([]Transfer, error)
	ListCharges(ctx context.Context, limit int) ([]Charge, error)
	ListPaymentIntents(ctx context.Context, accountID string, limit int) ([]PaymentIntent, error)
	CreatePayout(ctx context.Context, accountID string, amount int64, currency string) (Payout, error)
}

var (
	ErrMissingAPIKey   = errors.New("processor_api_key_missing")
	ErrMissingAccount  = errors.New("processor_account_missing")
	ErrInvalidAmount   = errors.New("processor_invalid_amount")
	ErrRequestFailed   = errors.New("processor_request_failed")
	ErrInvalidResponse = errors.New("processor_response_invalid")
)
