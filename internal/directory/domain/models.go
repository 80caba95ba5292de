package domain

import "time"

// OnboardingStatus tracks how far a user is through external payout onboarding.
type OnboardingStatus string

const (
	OnboardingNotStarted OnboardingStatus = "not_started"
	OnboardingPending    OnboardingStatus = "pending"
	OnboardingComplete   OnboardingStatus = "complete"
)

// CreatorProfile is the stored profile row holding payout account linkage.
// Accounts are created implicitly when external onboarding completes and are
// never deleted, only updated by processor-side events.
type CreatorProfile struct {
	UserID            string           `json:"user_id" gorm:"primaryKey;type:text"`
	DisplayName       string           `json:"display_name" gorm:"type:text"`
	CreatorAccountID  string           `json:"creator_account_id" gorm:"type:text"`
	CreatorOnboarding OnboardingStatus `json:"creator_onboarding" gorm:"type:text;not null;default:not_started"`
	WinnerAccountID   string           `json:"winner_account_id" gorm:"type:text"`
	WinnerOnboarding  OnboardingStatus `json:"winner_onboarding" gorm:"type:text;not null;default:not_started"`
	CreatedAt         time.Time        `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt         time.Time        `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (CreatorProfile) TableName() string { return "creator_profiles" }

// AccountRef identifies one external payout account and its readiness.
type AccountRef struct {
	AccountID  string           `json:"account_id,omitempty"`
	Onboarding OnboardingStatus `json:"onboarding"`
}

// Ready reports whether the account can receive payouts.
func (r AccountRef) Ready() bool {
	return r.AccountID != "" && r.Onboarding == OnboardingComplete
}

// PayoutAccounts is a user's resolved account linkage: zero, one, or two
// independently funded external accounts.
type PayoutAccounts struct {
	UserID  string     `json:"user_id"`
	Creator AccountRef `json:"creator"`
	Winner  AccountRef `json:"winner"`
}
