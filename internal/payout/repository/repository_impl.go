package repository

import (
	"context"

	"github.com/pulsefit/pulsefit/internal/payout/domain"
	pkgdb "github.com/pulsefit/pulsefit/pkg/db"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

// Insert writes one payout record. Records are keyed by a generated id, so a
// replayed insert of the same record is idempotent rather than an error.
func (r *repo) Insert(ctx context.Context, db *gorm.DB, record *domain.Record) error {
	err := db.WithContext(ctx).Exec(
		`INSERT INTO payout_records (id, user_id, requested_cents, currency, status, legs, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.UserID,
		record.RequestedCents,
		record.Currency,
		record.Status,
		record.Legs,
		record.CreatedAt,
	).Error
	if pkgdb.IsDuplicateKeyErr(err) {
		return nil
	}
	return err
}

func (r *repo) ListByUser(ctx context.Context, db *gorm.DB, userID string, limit int) ([]domain.Record, error) {
	var records []domain.Record
	stmt := db.WithContext(ctx).
		Model(&domain.Record{}).
		Where("user_id = ?", userID).
		Order("created_at desc, id desc")
	if limit > 0 {
		stmt = stmt.Limit(limit)
	}
	if err := stmt.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
