package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	directorydomain "github.com/pulsefit/pulsefit/internal/directory/domain"
	"github.com/shopspring/decimal"
)

// Side distinguishes the two payout account categories a user may hold.
type Side string

const (
	SideCreator Side = "creator"
	SideWinner  Side = "winner"
)

// RecentWindow bounds the transaction list returned in a snapshot. Totals
// are always computed over the full merged set, never the window.
const RecentWindow = 10

type TransactionStatus string

const (
	TransactionCompleted TransactionStatus = "completed"
	TransactionPending   TransactionStatus = "pending"
	TransactionFailed    TransactionStatus = "failed"
)

// Transaction is the canonical merged evidence of one payment event.
// Constructed fresh on every reconciliation; never persisted.
type Transaction struct {
	ID        string            `json:"id"`
	Amount    decimal.Decimal   `json:"amount"`
	Currency  string            `json:"currency"`
	Status    TransactionStatus `json:"status"`
	Side      Side              `json:"side"`
	PayerRef  string            `json:"payer_ref,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// SideBreakdown is one account side's view inside a snapshot.
type SideBreakdown struct {
	Side        Side                             `json:"side"`
	AccountID   string                           `json:"account_id,omitempty"`
	Onboarding  directorydomain.OnboardingStatus `json:"onboarding"`
	TotalEarned decimal.Decimal                  `json:"total_earned"`
	Available   decimal.Decimal                  `json:"available"`
	Pending     decimal.Decimal                  `json:"pending"`
	PaidOut     decimal.Decimal                  `json:"paid_out"`
	Degraded    bool                             `json:"degraded"`
}

// Snapshot is the aggregate earnings view returned to callers. It reflects a
// point-in-time read of volatile external balances; two snapshots taken
// seconds apart may legitimately differ.
type Snapshot struct {
	UserID           string          `json:"user_id"`
	TotalEarned      decimal.Decimal `json:"total_earned"`
	Available        decimal.Decimal `json:"available_balance"`
	PendingPayout    decimal.Decimal `json:"pending_payout"`
	Creator          SideBreakdown   `json:"creator"`
	Winner           SideBreakdown   `json:"winner"`
	Recent           []Transaction   `json:"recent_transactions"`
	MinimumPayout    decimal.Decimal `json:"minimum_payout"`
	CanRequestPayout bool            `json:"can_request_payout"`
	Degraded         bool            `json:"degraded"`
	DegradedSources  []string        `json:"degraded_sources,omitempty"`
}

// PaymentRecord is the internal store's own record of a customer payment,
// keyed to the processor payment intent it captured.
type PaymentRecord struct {
	ID          snowflake.ID `json:"id" gorm:"primaryKey"`
	UserID      string       `json:"user_id" gorm:"type:text;not null;index"`
	IntentID    string       `json:"intent_id" gorm:"type:text;not null;uniqueIndex:ux_payment_records_intent"`
	AmountCents int64        `json:"amount_cents" gorm:"not null"`
	Currency    string       `json:"currency" gorm:"type:text;not null"`
	Status      string       `json:"status" gorm:"type:text;not null"`
	BuyerID     string       `json:"buyer_id" gorm:"type:text"`
	CreatedAt   time.Time    `json:"created_at" gorm:"not null"`
}

func (PaymentRecord) TableName() string { return "payment_records" }

const (
	PaymentStatusCompleted = "completed"
	PaymentStatusPending   = "pending"
	PaymentStatusFailed    = "failed"
)

// PrizeRecord is one recorded prize disbursement for a competition winner.
// Winner-side balances derive from these statuses rather than a live
// external balance, because prizes are recorded at disbursement time.
type PrizeRecord struct {
	ID          snowflake.ID `json:"id" gorm:"primaryKey"`
	UserID      string       `json:"user_id" gorm:"type:text;not null;index"`
	AmountCents int64        `json:"amount_cents" gorm:"not null"`
	Currency    string       `json:"currency" gorm:"type:text;not null"`
	Status      string       `json:"status" gorm:"type:text;not null"`
	Description string       `json:"description" gorm:"type:text"`
	AwardedAt   time.Time    `json:"awarded_at" gorm:"not null"`
	CreatedAt   time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (PrizeRecord) TableName() string { return "prize_records" }

const (
	PrizeStatusPending    = "pending"
	PrizeStatusProcessing = "processing"
	PrizeStatusPaid       = "paid"
)

// FromCents converts a processor minor-unit amount to a display amount.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
