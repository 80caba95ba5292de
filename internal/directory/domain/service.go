package domain

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Service resolves a user identity to its payout account linkage.
type Service interface {
	Resolve(ctx context.Context, userID string) (PayoutAccounts, error)
}

type Repository interface {
	FindByUserID(ctx context.Context, db *gorm.DB, userID string) (*CreatorProfile, error)
}

var (
	ErrInvalidUser = errors.New("invalid_user")
)
