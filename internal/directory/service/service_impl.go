package service

import (
	"context"
	"strings"

	"github.com/pulsefit/pulsefit/internal/directory/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("directory.service"),
		repo: p.Repo,
	}
}

// Resolve returns the user's payout account linkage. A user without a
// profile row simply has no accounts yet; that is not an error here so
// callers can fall back to a new-account view or trigger onboarding.
func (s *Service) Resolve(ctx context.Context, userID string) (domain.PayoutAccounts, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.PayoutAccounts{}, domain.ErrInvalidUser
	}

	accounts := domain.PayoutAccounts{
		UserID:  userID,
		Creator: domain.AccountRef{Onboarding: domain.OnboardingNotStarted},
		Winner:  domain.AccountRef{Onboarding: domain.OnboardingNotStarted},
	}

	profile, err := s.repo.FindByUserID(ctx, s.db, userID)
	if err != nil {
		return domain.PayoutAccounts{}, err
	}
	if profile == nil {
		return accounts, nil
	}

	accounts.Creator = domain.AccountRef{
		AccountID:  strings.TrimSpace(profile.CreatorAccountID),
		Onboarding: normalizeOnboarding(profile.CreatorOnboarding),
	}
	accounts.Winner = domain.AccountRef{
		AccountID:  strings.TrimSpace(profile.WinnerAccountID),
		Onboarding: normalizeOnboarding(profile.WinnerOnboarding),
	}
	return accounts, nil
}

func normalizeOnboarding(status domain.OnboardingStatus) domain.OnboardingStatus {
	switch status {
	case domain.OnboardingPending, domain.OnboardingComplete:
		return status
	default:
		return domain.OnboardingNotStarted
	}
}
