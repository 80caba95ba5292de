package domain

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Service computes the unified earnings snapshot for a user.
type Service interface {
	Snapshot(ctx context.Context, userID string) (*Snapshot, error)
}

type Repository interface {
	ListPaymentRecords(ctx context.Context, db *gorm.DB, userID string, limit int) ([]PaymentRecord, error)
	ListPrizeRecords(ctx context.Context, db *gorm.DB, userID string) ([]PrizeRecord, error)
}

var (
	ErrInvalidUser = errors.New("invalid_user")
)
