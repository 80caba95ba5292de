package repository

import (
	"context"

	"github.com/pulsefit/pulsefit/internal/earnings/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) ListPaymentRecords(ctx context.Context, db *gorm.DB, userID string, limit int) ([]domain.PaymentRecord, error) {
	var records []domain.PaymentRecord
	stmt := db.WithContext(ctx).
		Model(&domain.PaymentRecord{}).
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

func (r *repo) ListPrizeRecords(ctx context.Context, db *gorm.DB, userID string) ([]domain.PrizeRecord, error) {
	var records []domain.PrizeRecord
	err := db.WithContext(ctx).
		Model(&domain.PrizeRecord{}).
		Where("user_id = ?", userID).
		Order("awarded_at desc, id desc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
