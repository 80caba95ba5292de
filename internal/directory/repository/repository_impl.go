package repository

import (
	"context"

	"github.com/pulsefit/pulsefit/internal/directory/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByUserID(ctx context.Context, db *gorm.DB, userID string) (*domain.CreatorProfile, error) {
	var profile domain.CreatorProfile
	err := db.WithContext(ctx).Raw(
		`SELECT user_id, display_name, creator_account_id, creator_onboarding,
		        winner_account_id, winner_onboarding, created_at, updated_at
		 FROM creator_profiles WHERE user_id = ?`,
		userID,
	).Scan(&profile).Error
	if err != nil {
		return nil, err
	}
	if profile.UserID == "" {
		return nil, nil
	}
	return &profile, nil
}
